package services

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
)

// VoucherService validates voucher codes and consumes redemption slots.
// Validation is side-effect free; the usage counters only move inside the
// checkout transaction via Consume.
type VoucherService struct {
	db *gorm.DB
}

// NewVoucherService constructs VoucherService.
func NewVoucherService(db *gorm.DB) *VoucherService {
	return &VoucherService{db: db}
}

// DiscountAmount computes the discount a voucher grants on a subtotal.
func DiscountAmount(v *models.Voucher, subtotal float64) float64 {
	switch v.DiscountType {
	case models.DiscountPercentage:
		discount := subtotal * v.DiscountValue / 100
		if v.MaxDiscountAmount > 0 {
			discount = math.Min(discount, v.MaxDiscountAmount)
		}
		return discount
	case models.DiscountFixed:
		return math.Min(v.DiscountValue, subtotal)
	}
	return 0
}

// checkVoucher applies the validation rules against a loaded voucher.
// priorUses is the customer's redemption count for this voucher.
func checkVoucher(v *models.Voucher, now time.Time, subtotal float64, priorUses int) error {
	if !v.IsActive {
		return ErrVoucherInvalid
	}
	if now.Before(v.StartDate) || !now.Before(v.EndDate) {
		return ErrVoucherExpired
	}
	if v.UsesCount >= v.MaxIssued {
		return ErrVoucherExhausted
	}
	if subtotal < v.MinOrderAmount {
		return ErrVoucherMinOrderNotMet
	}
	if priorUses >= v.MaxUsesPerUser {
		return ErrVoucherExhausted
	}
	return nil
}

// Validate resolves a voucher code for a candidate subtotal and customer and
// returns the voucher with its discount amount. No counters are touched.
func (s *VoucherService) Validate(code string, subtotal float64, userID uuid.UUID) (*models.Voucher, float64, error) {
	return s.validate(s.db, code, subtotal, userID)
}

func (s *VoucherService) validate(db *gorm.DB, code string, subtotal float64, userID uuid.UUID) (*models.Voucher, float64, error) {
	var voucher models.Voucher
	err := db.First(&voucher, "code = ?", strings.ToUpper(strings.TrimSpace(code))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrVoucherInvalid
		}
		return nil, 0, err
	}

	priorUses, err := s.userUses(db, voucher.ID, userID)
	if err != nil {
		return nil, 0, err
	}

	if err := checkVoucher(&voucher, time.Now(), subtotal, priorUses); err != nil {
		return nil, 0, err
	}

	return &voucher, DiscountAmount(&voucher, subtotal), nil
}

func (s *VoucherService) userUses(db *gorm.DB, voucherID, userID uuid.UUID) (int, error) {
	var usage models.VoucherUsage
	err := db.First(&usage, "voucher_id = ? AND user_id = ?", voucherID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return usage.UsesCount, nil
}

// Consume takes one redemption slot for the voucher and the customer inside
// the caller's transaction. Both the global counter and the per-user counter
// are moved by conditional updates, so two checkouts racing on the last slot
// cannot both succeed.
func (s *VoucherService) Consume(tx *gorm.DB, voucher *models.Voucher, userID uuid.UUID) error {
	res := tx.Model(&models.Voucher{}).
		Where("id = ? AND is_active AND uses_count < max_issued", voucher.ID).
		UpdateColumn("uses_count", gorm.Expr("uses_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVoucherExhausted
	}

	res = tx.Model(&models.VoucherUsage{}).
		Where("voucher_id = ? AND user_id = ? AND uses_count < ?", voucher.ID, userID, voucher.MaxUsesPerUser).
		UpdateColumn("uses_count", gorm.Expr("uses_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	// Either no usage row exists yet or the per-user cap is reached.
	var existing int64
	if err := tx.Model(&models.VoucherUsage{}).
		Where("voucher_id = ? AND user_id = ?", voucher.ID, userID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return ErrVoucherExhausted
	}
	if voucher.MaxUsesPerUser < 1 {
		return ErrVoucherExhausted
	}

	usage := models.VoucherUsage{VoucherID: voucher.ID, UserID: userID, UsesCount: 1}
	if err := tx.Create(&usage).Error; err != nil {
		// Unique index collision means another checkout created the row
		// mid-flight; surface as a retryable conflict.
		return ErrConflict
	}
	return nil
}
