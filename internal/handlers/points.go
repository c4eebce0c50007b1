package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/models"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// PointsHandler manages loyalty point endpoints.
type PointsHandler struct {
	db      *gorm.DB
	loyalty *services.LoyaltyService
	stats   *services.StatsService
}

// NewPointsHandler constructs PointsHandler.
func NewPointsHandler(db *gorm.DB, loyalty *services.LoyaltyService, stats *services.StatsService) *PointsHandler {
	return &PointsHandler{db: db, loyalty: loyalty, stats: stats}
}

// GetHistory returns the authenticated customer's balance, tier and ledger.
func (h *PointsHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	balance, err := h.loyalty.Balance(userID)
	if err != nil {
		return err
	}

	pg := utils.ParsePagination(c)
	txns, total, err := h.loyalty.History(userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"current_balance": balance,
			"current_tier":    services.TierFor(balance, h.loyalty.Config()),
			"transactions":    txns,
		},
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetConfig returns the loyalty program configuration.
func (h *PointsHandler) GetConfig(c *fiber.Ctx) error {
	cfg := h.loyalty.Config()
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"earn_rate":        cfg.EarnRate,
			"redeem_value":     cfg.RedeemValue,
			"silver_threshold": cfg.SilverThreshold,
			"gold_threshold":   cfg.GoldThreshold,
		},
	})
}

// ListCustomers returns customers with their ledger rollups for the admin
// points screen.
func (h *PointsHandler) ListCustomers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{}).Where("role = ?", models.RoleCustomer)

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if tier := c.Query("tier"); tier != "" && tier != "all" {
		query = query.Where("tier = ?", tier)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	type ledgerRollup struct {
		UserID  uuid.UUID
		Earned  int64
		Used    int64
		Balance int64
	}

	var rollups []ledgerRollup
	if err := h.db.Model(&models.PointTransaction{}).
		Select("user_id, COALESCE(SUM(CASE WHEN points > 0 THEN points ELSE 0 END), 0) as earned, " +
			"COALESCE(SUM(CASE WHEN points < 0 THEN -points ELSE 0 END), 0) as used, " +
			"COALESCE(SUM(points), 0) as balance").
		Group("user_id").
		Scan(&rollups).Error; err != nil {
		return err
	}

	rollupMap := make(map[uuid.UUID]ledgerRollup, len(rollups))
	for _, r := range rollups {
		rollupMap[r.UserID] = r
	}

	type customerResponse struct {
		models.User
		PointsEarned int64 `json:"points_earned"`
		PointsUsed   int64 `json:"points_used"`
		Balance      int64 `json:"balance"`
	}

	result := make([]customerResponse, len(users))
	for i, u := range users {
		result[i] = customerResponse{User: u}
		if r, ok := rollupMap[u.ID]; ok {
			result[i].PointsEarned = r.Earned
			result[i].PointsUsed = r.Used
			result[i].Balance = r.Balance
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// ListTransactions returns ledger rows for the admin screen.
func (h *PointsHandler) ListTransactions(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.PointTransaction{})

	if typ := c.Query("type"); typ != "" && typ != "all" {
		query = query.Where("type = ?", typ)
	}
	if userID := c.Query("user_id"); userID != "" {
		if id, err := uuid.Parse(userID); err == nil {
			query = query.Where("user_id = ?", id)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var txns []models.PointTransaction
	if err := query.Preload("User").Preload("Order").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&txns).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    txns,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type adjustmentRequest struct {
	UserID      string `json:"user_id"`
	Points      int    `json:"points"`
	Description string `json:"description"`
}

// CreateAdjustment appends an admin ADJUSTMENT row of either sign.
func (h *PointsHandler) CreateAdjustment(c *fiber.Ctx) error {
	var req adjustmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Points == 0 || req.Description == "" {
		return fiber.NewError(fiber.StatusBadRequest, "points and description are required")
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid user id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "user not found")
	}

	txn, balance, err := h.loyalty.Adjust(userID, req.Points, req.Description)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"transaction": txn,
			"new_balance": balance,
			"new_tier":    services.TierFor(balance, h.loyalty.Config()),
		},
	})
}

// PointsStats returns the loyalty overview for the admin dashboard.
func (h *PointsHandler) PointsStats(c *fiber.Ctx) error {
	stats, err := h.stats.Points()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
