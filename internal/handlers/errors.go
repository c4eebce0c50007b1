package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/uteshop/internal/services"
)

// mapServiceError converts service sentinels into fiber errors so each
// failure reaches the client with its precise reason. Anything unmapped is
// a server error and bubbles up to the recover middleware.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrReturnNotFound),
		errors.Is(err, services.ErrVoucherInvalid):
		return fiber.NewError(fiber.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrVoucherExhausted),
		errors.Is(err, services.ErrInvalidStateTransition),
		errors.Is(err, services.ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())

	case errors.Is(err, services.ErrVoucherExpired),
		errors.Is(err, services.ErrVoucherMinOrderNotMet),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrOrderNotRefundable),
		errors.Is(err, services.ErrReturnWindowExpired),
		errors.Is(err, services.ErrReturnAlreadyRequested),
		errors.Is(err, services.ErrReturnAlreadyProcessed),
		errors.Is(err, services.ErrPaymentFailed):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return err
}
