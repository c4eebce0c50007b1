package models

import (
	"time"

	"github.com/google/uuid"
)

// ReturnReason enumerates the accepted return reasons.
type ReturnReason string

const (
	ReturnWrongItem      ReturnReason = "wrong_item"
	ReturnDamaged        ReturnReason = "damaged"
	ReturnNotAsDescribed ReturnReason = "not_as_described"
	ReturnSizeNotFit     ReturnReason = "size_not_fit"
	ReturnQualityIssue   ReturnReason = "quality_issue"
	ReturnChangedMind    ReturnReason = "changed_mind"
	ReturnOther          ReturnReason = "other"
)

// ValidReturnReason reports whether r is one of the enumerated reasons.
func ValidReturnReason(r ReturnReason) bool {
	switch r {
	case ReturnWrongItem, ReturnDamaged, ReturnNotAsDescribed,
		ReturnSizeNotFit, ReturnQualityIssue, ReturnChangedMind, ReturnOther:
		return true
	}
	return false
}

// ReturnStatus is the review state of a return request.
type ReturnStatus string

const (
	ReturnPending  ReturnStatus = "pending"
	ReturnApproved ReturnStatus = "approved"
	ReturnRejected ReturnStatus = "rejected"
)

type ReturnRequest struct {
	BaseModel
	OrderID uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	Order   *Order    `json:"order,omitempty"`
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User    *User     `json:"user,omitempty"`

	Reason       ReturnReason `gorm:"type:varchar(32)" json:"reason"`
	CustomReason string       `json:"custom_reason"`

	Status ReturnStatus `gorm:"type:varchar(16);default:pending" json:"status"`

	RefundAmount  float64 `json:"refund_amount"`
	PointsAwarded int     `json:"points_awarded"`

	AdminNote   string     `json:"admin_note"`
	ProcessedAt *time.Time `json:"processed_at"`
}
