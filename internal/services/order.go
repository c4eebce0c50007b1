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

// transitions is the authoritative order state table. Anything not listed
// here is rejected, including admin requests.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:    {models.OrderProcessing, models.OrderCancelled},
	models.OrderProcessing: {models.OrderPrepared, models.OrderCancelled},
	models.OrderPrepared:   {models.OrderShipped, models.OrderCancelled},
	models.OrderShipped:    {models.OrderDelivered, models.OrderCancelled},
	models.OrderDelivered:  nil,
	models.OrderCancelled:  nil,
}

// CanTransition reports whether the state table allows from -> to.
func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CheckoutInput is a checkout request after authentication.
type CheckoutInput struct {
	Items           []CartItem           `json:"items"`
	VoucherCode     string               `json:"voucher_code"`
	RedeemPoints    int                  `json:"redeem_points"`
	ShippingAddress string               `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod `json:"payment_method"`
	Notes           string               `json:"notes"`
	MomoOrderID     string               `json:"momo_order_id"`
	MomoRequestID   string               `json:"momo_request_id"`
}

// OrderService owns order creation and every status transition. Orders are
// never mutated outside this service once created.
type OrderService struct {
	db       *gorm.DB
	pricing  *PricingService
	vouchers *VoucherService
	loyalty  *LoyaltyService
	notifier *Notifier
	momo     *MomoClient
}

// NewOrderService constructs OrderService.
func NewOrderService(db *gorm.DB, pricing *PricingService, vouchers *VoucherService, loyalty *LoyaltyService, notifier *Notifier, momo *MomoClient) *OrderService {
	return &OrderService{db: db, pricing: pricing, vouchers: vouchers, loyalty: loyalty, notifier: notifier, momo: momo}
}

// Checkout prices the cart and creates the order in one transaction. Stock
// decrements, the voucher slot and the point redemption all commit together
// with the order row; any failure leaves nothing behind.
func (s *OrderService) Checkout(userID uuid.UUID, in CheckoutInput) (*models.Order, error) {
	if in.ShippingAddress == "" {
		return nil, errors.New("shipping address is required")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, fmt.Errorf("unsupported payment method %q", in.PaymentMethod)
	}

	// Online payment verification talks to the gateway, so it happens
	// before the transaction opens. Capture itself is external.
	paymentStatus := models.PaymentUnpaid
	transactionID := ""
	if in.PaymentMethod == models.PaymentMomo && in.MomoOrderID != "" {
		if s.momo == nil {
			return nil, ErrPaymentFailed
		}
		result, err := s.momo.QueryTransaction(in.MomoOrderID, in.MomoRequestID)
		if err != nil {
			return nil, err
		}
		paymentStatus = models.PaymentPaid
		transactionID = result.TransID
	}

	var order models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		quote, err := s.pricing.quote(tx, userID, in.Items, in.VoucherCode, in.RedeemPoints)
		if err != nil {
			return err
		}

		order = models.Order{
			UserID:           userID,
			OrderNumber:      generateOrderNumber(),
			Status:           models.OrderPending,
			Subtotal:         quote.Subtotal,
			VoucherDiscount:  quote.VoucherDiscount,
			PointsRedeemed:   quote.PointsRedeemed,
			UsedPointsAmount: quote.UsedPointsAmount,
			TotalPrice:       quote.TotalPrice,
			PaymentMethod:    in.PaymentMethod,
			PaymentStatus:    paymentStatus,
			TransactionID:    transactionID,
			ShippingAddress:  in.ShippingAddress,
			Notes:            in.Notes,
		}
		if quote.Voucher != nil {
			order.VoucherID = &quote.Voucher.ID
		}
		for _, item := range quote.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:          item.Product.ID,
				ProductName:        item.Product.Name,
				Quantity:           item.Quantity,
				OriginalPrice:      item.OriginalPrice,
				DiscountPercentage: item.DiscountPercentage,
				UnitPrice:          item.UnitPrice,
				LineTotal:          item.LineTotal,
			})
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		// Stock moves via conditional decrements; a concurrent checkout
		// draining the shelf fails the whole transaction.
		for _, item := range quote.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.Product.ID, item.Quantity).
				UpdateColumns(map[string]interface{}{
					"stock":      gorm.Expr("stock - ?", item.Quantity),
					"sold_count": gorm.Expr("sold_count + ?", item.Quantity),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}

		if quote.Voucher != nil {
			if err := s.vouchers.Consume(tx, quote.Voucher, userID); err != nil {
				return err
			}
		}

		if quote.PointsRedeemed > 0 {
			description := fmt.Sprintf("Used %d points on order %s", quote.PointsRedeemed, order.OrderNumber)
			if err := s.loyalty.Redeem(tx, userID, quote.PointsRedeemed, &order.ID, description); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "order_created", "Order placed",
		fmt.Sprintf("Your order %s has been placed.", order.OrderNumber),
		"/orders/"+order.ID.String())

	return &order, nil
}

// UpdateStatus applies an admin partial update of status and payment status.
// Requesting the status the order already has is a no-op success, which makes
// retried requests safe.
func (s *OrderService) UpdateStatus(orderID uuid.UUID, status *models.OrderStatus, paymentStatus *models.PaymentStatus) (*models.Order, error) {
	var (
		order    models.Order
		notified bool
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if status != nil && *status != order.Status {
			if err := s.transition(tx, &order, *status); err != nil {
				return err
			}
			notified = true
		}

		if paymentStatus != nil && *paymentStatus != order.PaymentStatus {
			if err := tx.Model(&models.Order{}).
				Where("id = ?", order.ID).
				Update("payment_status", *paymentStatus).Error; err != nil {
				return err
			}
			order.PaymentStatus = *paymentStatus
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if notified {
		s.notifier.Notify(order.UserID, "order_status_update", "Order updated",
			fmt.Sprintf("Your order %s is now %s.", order.OrderNumber, order.Status),
			"/orders/"+order.ID.String())
	}

	return s.Get(orderID)
}

// transition moves a locked order one step through the state table and runs
// the step's side effects inside the same transaction.
func (s *OrderService) transition(tx *gorm.DB, order *models.Order, to models.OrderStatus) error {
	if !CanTransition(order.Status, to) {
		return ErrInvalidStateTransition
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}

	switch to {
	case models.OrderDelivered:
		if err := s.markDelivered(tx, order); err != nil {
			return err
		}
	case models.OrderCancelled:
		if err := s.cancelEffects(tx, order); err != nil {
			return err
		}
	}

	order.Status = to
	return nil
}

// markDelivered stamps delivered_at and earns points. The conditional update
// on delivered_at makes the earn run exactly once even when the request is
// replayed.
func (s *OrderService) markDelivered(tx *gorm.DB, order *models.Order) error {
	now := time.Now()
	updates := map[string]interface{}{"delivered_at": now}
	if order.PaymentMethod == models.PaymentCOD {
		updates["payment_status"] = models.PaymentPaid
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND delivered_at IS NULL", order.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	order.DeliveredAt = &now
	if order.PaymentMethod == models.PaymentCOD {
		order.PaymentStatus = models.PaymentPaid
	}

	_, err := s.loyalty.EarnForOrder(tx, order)
	return err
}

// cancelEffects restores stock and, for a pending order paid online,
// converts the paid amount into points.
func (s *OrderService) cancelEffects(tx *gorm.DB, order *models.Order) error {
	var items []models.OrderItem
	if err := tx.Find(&items, "order_id = ?", order.ID).Error; err != nil {
		return err
	}
	for _, item := range items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumns(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", item.Quantity),
				"sold_count": gorm.Expr("sold_count - ?", item.Quantity),
			}).Error; err != nil {
			return err
		}
	}

	if order.Status == models.OrderPending &&
		order.PaymentStatus == models.PaymentPaid &&
		order.PaymentMethod != models.PaymentCOD {
		description := fmt.Sprintf("Refund for cancelled order %s", order.OrderNumber)
		if _, _, err := convertRefund(tx, s.loyalty, order, description); err != nil {
			return err
		}
	}

	return nil
}

// Cancel is the customer's self-service cancellation of a pending order.
func (s *OrderService) Cancel(userID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ? AND user_id = ?", orderID, userID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		if order.Status == models.OrderCancelled {
			return nil
		}
		if order.Status != models.OrderPending {
			return ErrInvalidStateTransition
		}

		return s.transition(tx, &order, models.OrderCancelled)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "order_cancelled", "Order cancelled",
		fmt.Sprintf("Your order %s has been cancelled.", order.OrderNumber),
		"/orders/"+order.ID.String())

	return s.Get(orderID)
}

// Get loads an order with its items.
func (s *OrderService) Get(orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Preload("Voucher").
		First(&order, "id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func generateOrderNumber() string {
	return fmt.Sprintf("#%d", time.Now().UnixNano()%1000000000)
}
