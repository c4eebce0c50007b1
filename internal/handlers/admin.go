package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// AdminHandler manages the admin order and dashboard endpoints.
type AdminHandler struct {
	db     *gorm.DB
	orders *services.OrderService
	stats  *services.StatsService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, orders *services.OrderService, stats *services.StatsService) *AdminHandler {
	return &AdminHandler{db: db, orders: orders, stats: stats}
}

// Dashboard returns the order and return rollups in one response.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	orderStats, err := h.stats.Orders()
	if err != nil {
		return err
	}
	returnStats, err := h.stats.Returns()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"orders":  orderStats,
			"returns": returnStats,
		},
	})
}

// OrderStats returns the revenue rollup alone.
func (h *AdminHandler) OrderStats(c *fiber.Ctx) error {
	stats, err := h.stats.Orders()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}

// ListAllOrders returns orders across all customers.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if ps := c.Query("payment_status"); ps != "" && ps != "all" {
		query = query.Where("payment_status = ?", ps)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("order_number ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").Preload("User").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrderAdmin returns any order with its items and voucher.
func (h *AdminHandler) GetOrderAdmin(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.Get(id)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

type updateOrderStatusRequest struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
}

// UpdateOrderStatus moves an order through the fulfillment state machine
// and/or flips its payment status.
func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req updateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status == nil && req.PaymentStatus == nil {
		return fiber.NewError(fiber.StatusBadRequest, "status or payment_status is required")
	}

	order, err := h.orders.UpdateStatus(id, req.Status, req.PaymentStatus)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": order})
}

// ListAllUsers returns users for the admin screen.
func (h *AdminHandler) ListAllUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if role := c.Query("role"); role != "" && role != "all" {
		query = query.Where("role = ?", role)
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

	return c.JSON(fiber.Map{
		"success": true,
		"data":    users,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetUserAdmin returns a single user with their orders.
func (h *AdminHandler) GetUserAdmin(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.db.Preload("Orders", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc").Limit(20)
	}).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
