package services

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
)

// Notifier records outbound customer notifications. Delivery is
// fire-and-forget: the write happens off the request path and a failure is
// logged, never propagated into the operation that triggered it.
type Notifier struct {
	db *gorm.DB
}

// NewNotifier constructs Notifier.
func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// Notify appends a notification row asynchronously.
func (n *Notifier) Notify(userID uuid.UUID, typ, title, message, link string) {
	if n == nil || n.db == nil {
		return
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    link,
	}

	go func() {
		if err := n.db.Create(&notification).Error; err != nil {
			log.Printf("[Notifier] failed to store notification for user %s: %v", userID, err)
		}
	}()
}

// ListForUser returns a page of the customer's notifications, newest first.
func (n *Notifier) ListForUser(userID uuid.UUID, limit, offset int) ([]models.Notification, int64, error) {
	query := n.db.Model(&models.Notification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	if err := query.Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// MarkRead marks one of the customer's notifications as read.
func (n *Notifier) MarkRead(userID, notificationID uuid.UUID) error {
	return n.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}
