package services

import "errors"

// Validation errors are client-facing and carry a specific reason so handlers
// can render precise messages. Conflict errors signal an atomic update that
// lost a race and is safe to resubmit.
var (
	ErrVoucherInvalid        = errors.New("voucher not found or inactive")
	ErrVoucherExpired        = errors.New("voucher is not valid at this time")
	ErrVoucherMinOrderNotMet = errors.New("order amount is below the voucher minimum")
	ErrVoucherExhausted      = errors.New("voucher usage limit reached")

	ErrInsufficientPoints = errors.New("insufficient points balance")
	ErrInvalidQuantity    = errors.New("item quantity must be positive")
	ErrInsufficientStock  = errors.New("insufficient product stock")
	ErrProductNotFound    = errors.New("product not found")

	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidStateTransition = errors.New("invalid order status transition")
	ErrOrderNotRefundable     = errors.New("order is not eligible for refund")

	ErrReturnNotFound         = errors.New("return request not found")
	ErrReturnWindowExpired    = errors.New("return window has expired")
	ErrReturnAlreadyRequested = errors.New("order already has an active return request")
	ErrReturnAlreadyProcessed = errors.New("return request has already been processed")

	ErrPaymentFailed = errors.New("payment verification failed")

	ErrConflict = errors.New("concurrent update conflict")
)
