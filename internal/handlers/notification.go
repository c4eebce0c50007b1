package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// NotificationHandler manages in-app notification endpoints.
type NotificationHandler struct {
	notifier *services.Notifier
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifier *services.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// ListNotifications returns the authenticated user's notifications.
func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	pg := utils.ParsePagination(c)
	items, total, err := h.notifier.ListForUser(userID, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    items,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// MarkNotificationRead marks one notification as read.
func (h *NotificationHandler) MarkNotificationRead(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	if err := h.notifier.MarkRead(userID, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "notification marked read"})
}
