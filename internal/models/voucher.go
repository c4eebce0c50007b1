package models

import (
	"time"

	"github.com/google/uuid"
)

// DiscountType selects the voucher's discount rule.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Voucher struct {
	BaseModel
	Code          string       `gorm:"uniqueIndex" json:"code"`
	Description   string       `json:"description"`
	DiscountType  DiscountType `gorm:"type:varchar(16)" json:"discount_type"`
	DiscountValue float64      `json:"discount_value"`
	// MaxDiscountAmount caps percentage discounts; ignored for fixed.
	MaxDiscountAmount float64   `json:"max_discount_amount"`
	MinOrderAmount    float64   `json:"min_order_amount"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	// MaxIssued is the global redemption cap; UsesCount is only ever moved
	// by the conditional increment in the checkout transaction.
	MaxIssued      int  `json:"max_issued"`
	UsesCount      int  `json:"uses_count"`
	MaxUsesPerUser int  `gorm:"default:1" json:"max_uses_per_user"`
	IsActive       bool `gorm:"default:true" json:"is_active"`
}

// VoucherUsage is the per-user redemption counter, one row per
// (voucher, user) pair.
type VoucherUsage struct {
	BaseModel
	VoucherID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_voucher_usage_voucher_user" json:"voucher_id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_voucher_usage_voucher_user" json:"user_id"`
	UsesCount int       `json:"uses_count"`
}
