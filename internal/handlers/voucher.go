package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/models"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// VoucherHandler manages voucher endpoints.
type VoucherHandler struct {
	db       *gorm.DB
	vouchers *services.VoucherService
	stats    *services.StatsService
}

// NewVoucherHandler constructs VoucherHandler.
func NewVoucherHandler(db *gorm.DB, vouchers *services.VoucherService, stats *services.StatsService) *VoucherHandler {
	return &VoucherHandler{db: db, vouchers: vouchers, stats: stats}
}

type validateVoucherRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount"`
}

// ValidateVoucher previews the discount a code would grant on an order
// amount. No counters move here.
func (h *VoucherHandler) ValidateVoucher(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req validateVoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" || req.OrderAmount <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "code and order amount are required")
	}

	voucher, discount, err := h.vouchers.Validate(req.Code, req.OrderAmount, userID)
	if err != nil {
		return mapServiceError(err)
	}

	final := req.OrderAmount - discount
	if final < 0 {
		final = 0
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"voucher": fiber.Map{
				"id":             voucher.ID,
				"code":           voucher.Code,
				"description":    voucher.Description,
				"discount_type":  voucher.DiscountType,
				"discount_value": voucher.DiscountValue,
			},
			"discount_amount": discount,
			"final_amount":    final,
		},
	})
}

// ListVouchers returns vouchers for the admin screen.
func (h *VoucherHandler) ListVouchers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Voucher{})

	if search := c.Query("search"); search != "" {
		query = query.Where("code ILIKE ? OR description ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	switch c.Query("status") {
	case "active":
		query = query.Where("is_active")
	case "inactive":
		query = query.Where("NOT is_active")
	}
	if dt := c.Query("discount_type"); dt != "" && dt != "all" {
		query = query.Where("discount_type = ?", dt)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var vouchers []models.Voucher
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&vouchers).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    vouchers,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetVoucher returns a single voucher.
func (h *VoucherHandler) GetVoucher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var voucher models.Voucher
	if err := h.db.First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "voucher not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": voucher})
}

type voucherRequest struct {
	Code              string              `json:"code"`
	Description       string              `json:"description"`
	DiscountType      models.DiscountType `json:"discount_type"`
	DiscountValue     float64             `json:"discount_value"`
	MaxDiscountAmount float64             `json:"max_discount_amount"`
	MinOrderAmount    float64             `json:"min_order_amount"`
	StartDate         time.Time           `json:"start_date"`
	EndDate           time.Time           `json:"end_date"`
	MaxIssued         int                 `json:"max_issued"`
	MaxUsesPerUser    int                 `json:"max_uses_per_user"`
	IsActive          *bool               `json:"is_active"`
}

func (r *voucherRequest) validate() error {
	if r.Code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "code is required")
	}
	if r.DiscountType != models.DiscountPercentage && r.DiscountType != models.DiscountFixed {
		return fiber.NewError(fiber.StatusBadRequest, "discount type must be percentage or fixed")
	}
	if r.DiscountType == models.DiscountPercentage && (r.DiscountValue <= 0 || r.DiscountValue > 100) {
		return fiber.NewError(fiber.StatusBadRequest, "percentage discount must be between 1 and 100")
	}
	if r.DiscountType == models.DiscountFixed && r.DiscountValue <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "fixed discount must be positive")
	}
	if !r.StartDate.Before(r.EndDate) {
		return fiber.NewError(fiber.StatusBadRequest, "start date must be before end date")
	}
	if r.MaxIssued < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "max issued must be at least 1")
	}
	return nil
}

// CreateVoucher creates a voucher.
func (h *VoucherHandler) CreateVoucher(c *fiber.Ctx) error {
	var req voucherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := req.validate(); err != nil {
		return err
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))

	var existing models.Voucher
	err := h.db.First(&existing, "code = ?", code).Error
	if err == nil {
		return fiber.NewError(fiber.StatusConflict, "voucher code already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	maxPerUser := req.MaxUsesPerUser
	if maxPerUser < 1 {
		maxPerUser = 1
	}

	voucher := models.Voucher{
		Code:              code,
		Description:       req.Description,
		DiscountType:      req.DiscountType,
		DiscountValue:     req.DiscountValue,
		MaxDiscountAmount: req.MaxDiscountAmount,
		MinOrderAmount:    req.MinOrderAmount,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		MaxIssued:         req.MaxIssued,
		MaxUsesPerUser:    maxPerUser,
		IsActive:          true,
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := h.db.Create(&voucher).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": voucher})
}

// UpdateVoucher updates a voucher.
func (h *VoucherHandler) UpdateVoucher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req voucherRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var voucher models.Voucher
	if err := h.db.First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "voucher not found")
		}
		return err
	}

	if req.Code != "" {
		code := strings.ToUpper(strings.TrimSpace(req.Code))
		if code != voucher.Code {
			var existing models.Voucher
			err := h.db.First(&existing, "code = ? AND id <> ?", code, id).Error
			if err == nil {
				return fiber.NewError(fiber.StatusConflict, "voucher code already exists")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		voucher.Code = code
	}
	if req.Description != "" {
		voucher.Description = req.Description
	}
	if req.DiscountType != "" {
		voucher.DiscountType = req.DiscountType
	}
	if req.DiscountValue > 0 {
		voucher.DiscountValue = req.DiscountValue
	}
	if voucher.DiscountType == models.DiscountPercentage && (voucher.DiscountValue <= 0 || voucher.DiscountValue > 100) {
		return fiber.NewError(fiber.StatusBadRequest, "percentage discount must be between 1 and 100")
	}
	if req.MaxDiscountAmount > 0 {
		voucher.MaxDiscountAmount = req.MaxDiscountAmount
	}
	if req.MinOrderAmount > 0 {
		voucher.MinOrderAmount = req.MinOrderAmount
	}
	if !req.StartDate.IsZero() {
		voucher.StartDate = req.StartDate
	}
	if !req.EndDate.IsZero() {
		voucher.EndDate = req.EndDate
	}
	if !voucher.StartDate.Before(voucher.EndDate) {
		return fiber.NewError(fiber.StatusBadRequest, "start date must be before end date")
	}
	if req.MaxIssued > 0 {
		voucher.MaxIssued = req.MaxIssued
	}
	if req.MaxUsesPerUser > 0 {
		voucher.MaxUsesPerUser = req.MaxUsesPerUser
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := h.db.Save(&voucher).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": voucher})
}

// DeleteVoucher removes an unused voucher. Used vouchers can only be
// deactivated, so redeemed orders keep a valid reference.
func (h *VoucherHandler) DeleteVoucher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var voucher models.Voucher
	if err := h.db.First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "voucher not found")
		}
		return err
	}
	if voucher.UsesCount > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cannot delete a voucher that has been used; deactivate it instead")
	}

	if err := h.db.Delete(&voucher).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "voucher deleted"})
}

// VoucherStats returns the voucher overview for the admin dashboard.
func (h *VoucherHandler) VoucherStats(c *fiber.Ctx) error {
	stats, err := h.stats.Vouchers()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
