package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/middleware"
	"github.com/example/uteshop/internal/models"
	"github.com/example/uteshop/internal/services"
	"github.com/example/uteshop/internal/utils"
)

// ProfileHandler manages the authenticated user's profile.
type ProfileHandler struct {
	db      *gorm.DB
	loyalty *services.LoyaltyService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(db *gorm.DB, loyalty *services.LoyaltyService) *ProfileHandler {
	return &ProfileHandler{db: db, loyalty: loyalty}
}

// GetProfile returns the current user together with their point balance.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	balance, err := h.loyalty.Balance(userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"user":           user,
			"points_balance": balance,
		},
	})
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateProfile updates name, phone and optionally the password.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
		}
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}
