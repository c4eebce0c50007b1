package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/uteshop/internal/models"
)

// convertRefund turns an order's paid amount into loyalty points at most
// once. The compare-and-set on refund_converted is the only gate; a second
// invocation finds the flag already set and is a benign no-op.
// Returns the points credited and whether this call performed the conversion.
func convertRefund(tx *gorm.DB, loyalty *LoyaltyService, order *models.Order, description string) (int, bool, error) {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND NOT refund_converted", order.ID).
		UpdateColumns(map[string]interface{}{
			"refund_converted": true,
			"payment_status":   models.PaymentRefunded,
		})
	if res.Error != nil {
		return 0, false, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, false, nil
	}

	order.RefundConverted = true
	order.PaymentStatus = models.PaymentRefunded

	points, err := loyalty.CreditRefund(tx, order, description)
	if err != nil {
		return 0, false, err
	}
	return points, true, nil
}

// RefundService handles return requests and their refund conversions.
type RefundService struct {
	db       *gorm.DB
	loyalty  *LoyaltyService
	notifier *Notifier
	window   time.Duration
}

// NewRefundService constructs RefundService.
func NewRefundService(db *gorm.DB, loyalty *LoyaltyService, notifier *Notifier, window time.Duration) *RefundService {
	return &RefundService{db: db, loyalty: loyalty, notifier: notifier, window: window}
}

// Eligibility describes whether an order can still be returned.
type Eligibility struct {
	CanReturn bool          `json:"can_return"`
	IsPending bool          `json:"is_pending"`
	Returned  bool          `json:"returned"`
	Remaining time.Duration `json:"-"`
	Reason    string        `json:"reason,omitempty"`
}

// returnDeadline is the cutoff for requesting a return on a delivered order.
func returnDeadline(deliveredAt time.Time, window time.Duration) time.Time {
	return deliveredAt.Add(window)
}

// CheckEligibility reports whether the customer can open a return for the order.
func (s *RefundService) CheckEligibility(userID, orderID uuid.UUID) (*Eligibility, error) {
	var order models.Order
	err := s.db.First(&order, "id = ? AND user_id = ?", orderID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if order.Status != models.OrderDelivered || order.DeliveredAt == nil {
		return &Eligibility{Reason: "order has not been delivered"}, nil
	}

	var existing models.ReturnRequest
	err = s.db.First(&existing, "order_id = ? AND status IN ?", orderID,
		[]models.ReturnStatus{models.ReturnPending, models.ReturnApproved}).Error
	if err == nil {
		if existing.Status == models.ReturnApproved {
			return &Eligibility{Returned: true, Reason: "order has already been returned"}, nil
		}
		return &Eligibility{IsPending: true, Reason: "a return request is already under review"}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	deadline := returnDeadline(*order.DeliveredAt, s.window)
	if remaining := time.Until(deadline); remaining > 0 {
		return &Eligibility{CanReturn: true, Remaining: remaining}, nil
	}
	return &Eligibility{Reason: "return window has expired"}, nil
}

// CreateRequest opens a return request for a delivered order inside the
// return window. An order can carry at most one active request.
func (s *RefundService) CreateRequest(userID, orderID uuid.UUID, reason models.ReturnReason, customReason string) (*models.ReturnRequest, error) {
	if !models.ValidReturnReason(reason) {
		return nil, fmt.Errorf("unknown return reason %q", reason)
	}
	if reason != models.ReturnOther {
		customReason = ""
	}

	var request models.ReturnRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := tx.First(&order, "id = ? AND user_id = ?", orderID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status != models.OrderDelivered || order.DeliveredAt == nil {
			return ErrOrderNotRefundable
		}
		if time.Now().After(returnDeadline(*order.DeliveredAt, s.window)) {
			return ErrReturnWindowExpired
		}

		var active int64
		if err := tx.Model(&models.ReturnRequest{}).
			Where("order_id = ? AND status IN ?", orderID,
				[]models.ReturnStatus{models.ReturnPending, models.ReturnApproved}).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return ErrReturnAlreadyRequested
		}

		request = models.ReturnRequest{
			OrderID:      orderID,
			UserID:       userID,
			Reason:       reason,
			CustomReason: customReason,
			Status:       models.ReturnPending,
			RefundAmount: order.TotalPrice,
		}
		return tx.Create(&request).Error
	})
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// Approve accepts a pending return request and performs the refund
// conversion. Approving twice changes nothing: the second call fails the
// pending-status check, and even a racing duplicate is stopped by the
// refund_converted guard.
func (s *RefundService) Approve(requestID uuid.UUID, adminNote string) (*models.ReturnRequest, error) {
	var request models.ReturnRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ?", requestID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			return err
		}
		if request.Status != models.ReturnPending {
			return ErrReturnAlreadyProcessed
		}

		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", request.OrderID).Error; err != nil {
			return err
		}
		if order.Status != models.OrderDelivered {
			return ErrOrderNotRefundable
		}

		description := fmt.Sprintf("Refund for returned order %s", order.OrderNumber)
		points, _, err := convertRefund(tx, s.loyalty, &order, description)
		if err != nil {
			return err
		}

		now := time.Now()
		request.Status = models.ReturnApproved
		request.PointsAwarded = points
		request.AdminNote = adminNote
		request.ProcessedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(request.UserID, "return_approved", "Return approved",
		fmt.Sprintf("Your return request was approved. %d points have been credited.", request.PointsAwarded),
		"/orders/"+request.OrderID.String())

	return &request, nil
}

// Reject declines a pending return request and leaves the order untouched.
func (s *RefundService) Reject(requestID uuid.UUID, adminNote string) (*models.ReturnRequest, error) {
	var request models.ReturnRequest

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&request, "id = ?", requestID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReturnNotFound
			}
			return err
		}
		if request.Status != models.ReturnPending {
			return ErrReturnAlreadyProcessed
		}

		now := time.Now()
		request.Status = models.ReturnRejected
		request.AdminNote = adminNote
		request.ProcessedAt = &now
		return tx.Save(&request).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(request.UserID, "return_rejected", "Return rejected",
		"Your return request was rejected. "+adminNote,
		"/orders/"+request.OrderID.String())

	return &request, nil
}

// ListForUser returns a customer's return requests, newest first.
func (s *RefundService) ListForUser(userID uuid.UUID) ([]models.ReturnRequest, error) {
	var requests []models.ReturnRequest
	err := s.db.Preload("Order").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&requests).Error
	return requests, err
}

// List returns return requests for the admin screen, optionally filtered by status.
func (s *RefundService) List(status models.ReturnStatus, limit, offset int) ([]models.ReturnRequest, int64, error) {
	query := s.db.Model(&models.ReturnRequest{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.ReturnRequest
	if err := query.Preload("Order").Preload("User").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}
