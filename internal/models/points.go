package models

import "github.com/google/uuid"

// PointTransactionType discriminates ledger entries.
type PointTransactionType string

const (
	PointsEarned     PointTransactionType = "EARNED"
	PointsRedeemed   PointTransactionType = "REDEEMED"
	PointsAdjustment PointTransactionType = "ADJUSTMENT"
	PointsExpired    PointTransactionType = "EXPIRED"
)

// PointTransaction is an append-only ledger row. Rows are never updated or
// deleted; corrections are new ADJUSTMENT rows. A customer's balance is the
// sum of Points over their rows.
type PointTransaction struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User   *User     `json:"user,omitempty"`

	Type PointTransactionType `gorm:"type:varchar(16)" json:"type"`
	// Points is a signed delta: positive for EARNED and refund credits,
	// negative for REDEEMED and EXPIRED.
	Points      int    `json:"points"`
	Description string `json:"description"`

	OrderID *uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Order   *Order     `json:"order,omitempty"`
}
