package models

import "github.com/google/uuid"

// Notification is an outbound message to a customer. Rows are written
// fire-and-forget on order events; delivery failure never affects the
// triggering operation.
type Notification struct {
	BaseModel
	UserID  uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Link    string    `json:"link"`
	IsRead  bool      `gorm:"default:false" json:"is_read"`
}
