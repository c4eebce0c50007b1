package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order. Transitions between
// states are owned by services.OrderService; nothing else mutates Status.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderPrepared   OrderStatus = "prepared"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus tracks whether the order's money has been captured.
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethod values accepted at checkout.
type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "COD"
	PaymentMomo    PaymentMethod = "MOMO"
	PaymentZaloPay PaymentMethod = "ZALOPAY"
	PaymentStripe  PaymentMethod = "STRIPE"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCOD, PaymentMomo, PaymentZaloPay, PaymentStripe:
		return true
	}
	return false
}

type Order struct {
	BaseModel
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User        *User     `json:"user,omitempty"`
	OrderNumber string    `gorm:"uniqueIndex" json:"order_number"`

	Status OrderStatus `gorm:"type:varchar(16);index;default:pending" json:"status"`

	Subtotal         float64    `json:"subtotal"`
	VoucherID        *uuid.UUID `gorm:"type:uuid" json:"voucher_id"`
	Voucher          *Voucher   `json:"voucher,omitempty"`
	VoucherDiscount  float64    `json:"voucher_discount"`
	PointsRedeemed   int        `json:"points_redeemed"`
	UsedPointsAmount float64    `json:"used_points_amount"`
	TotalPrice       float64    `json:"total_price"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(16)" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(16);default:unpaid" json:"payment_status"`
	TransactionID string        `json:"transaction_id"`

	ShippingAddress string `json:"shipping_address"`
	Notes           string `json:"notes"`

	// DeliveredAt doubles as the idempotence guard for point earning: the
	// EARNED transaction is written only by the update that sets it.
	DeliveredAt *time.Time `json:"delivered_at"`
	// RefundConverted guards the refund-to-points conversion so it runs at
	// most once per order.
	RefundConverted bool `gorm:"default:false" json:"refund_converted"`

	Items []OrderItem `json:"items,omitempty"`
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `gorm:"type:uuid;index" json:"order_id"`
	ProductID uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Product   *Product  `json:"product,omitempty"`

	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`

	// Prices captured at order time; later catalog edits never reprice an order.
	OriginalPrice      float64 `json:"original_price"`
	DiscountPercentage float64 `json:"discount_percentage"`
	UnitPrice          float64 `json:"unit_price"`
	LineTotal          float64 `json:"line_total"`
}
