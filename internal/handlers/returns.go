package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/models"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// ReturnHandler manages return request endpoints.
type ReturnHandler struct {
	refunds *services.RefundService
	stats   *services.StatsService
}

// NewReturnHandler constructs ReturnHandler.
func NewReturnHandler(refunds *services.RefundService, stats *services.StatsService) *ReturnHandler {
	return &ReturnHandler{refunds: refunds, stats: stats}
}

type createReturnRequest struct {
	OrderID      string              `json:"order_id"`
	Reason       models.ReturnReason `json:"reason"`
	CustomReason string              `json:"custom_reason"`
}

// CreateReturn opens a return request for a delivered order.
func (h *ReturnHandler) CreateReturn(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createReturnRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid order id")
	}
	if !models.ValidReturnReason(req.Reason) {
		return fiber.NewError(fiber.StatusBadRequest, "unknown return reason")
	}

	request, err := h.refunds.CreateRequest(userID, orderID, req.Reason, req.CustomReason)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": request})
}

// CheckEligibility reports whether an order can still be returned.
func (h *ReturnHandler) CheckEligibility(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	eligibility, err := h.refunds.CheckEligibility(userID, orderID)
	if err != nil {
		return mapServiceError(err)
	}

	data := fiber.Map{
		"can_return": eligibility.CanReturn,
		"is_pending": eligibility.IsPending,
		"returned":   eligibility.Returned,
	}
	if eligibility.Reason != "" {
		data["reason"] = eligibility.Reason
	}
	if eligibility.CanReturn {
		data["hours_remaining"] = int(eligibility.Remaining.Hours())
		data["minutes_remaining"] = int(eligibility.Remaining.Minutes()) % 60
	}

	return c.JSON(fiber.Map{"success": true, "data": data})
}

// ListOwnReturns returns the customer's return requests.
func (h *ReturnHandler) ListOwnReturns(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	requests, err := h.refunds.ListForUser(userID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": requests})
}

// ListReturns returns all return requests for the admin screen.
func (h *ReturnHandler) ListReturns(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)

	requests, total, err := h.refunds.List(models.ReturnStatus(c.Query("status")), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    requests,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

type decideReturnRequest struct {
	AdminNote string `json:"admin_note"`
}

// ApproveReturn approves a pending return request and converts the refund
// into points.
func (h *ReturnHandler) ApproveReturn(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req decideReturnRequest
	_ = c.BodyParser(&req)

	request, err := h.refunds.Approve(id, req.AdminNote)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": request})
}

// RejectReturn rejects a pending return request.
func (h *ReturnHandler) RejectReturn(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req decideReturnRequest
	_ = c.BodyParser(&req)

	request, err := h.refunds.Reject(id, req.AdminNote)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(fiber.Map{"success": true, "data": request})
}

// ReturnStats returns the return-request overview.
func (h *ReturnHandler) ReturnStats(c *fiber.Ctx) error {
	stats, err := h.stats.Returns()
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": stats})
}
