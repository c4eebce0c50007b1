package services

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
)

// CartItem is one requested order line.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// PricedItem is a cart line with prices captured from the catalog.
type PricedItem struct {
	Product            models.Product `json:"product"`
	Quantity           int            `json:"quantity"`
	OriginalPrice      float64        `json:"original_price"`
	DiscountPercentage float64        `json:"discount_percentage"`
	UnitPrice          float64        `json:"unit_price"`
	LineTotal          float64        `json:"line_total"`
}

// Quote is a priced order draft. Producing one has no side effects, so
// pricing can be previewed without committing stock, voucher slots or points.
type Quote struct {
	Items            []PricedItem    `json:"items"`
	Subtotal         float64         `json:"subtotal"`
	Voucher          *models.Voucher `json:"voucher,omitempty"`
	VoucherDiscount  float64         `json:"voucher_discount"`
	PointsRedeemed   int             `json:"points_redeemed"`
	UsedPointsAmount float64         `json:"used_points_amount"`
	TotalPrice       float64         `json:"total_price"`
}

// PricingService turns a cart into a priced order draft.
type PricingService struct {
	db       *gorm.DB
	vouchers *VoucherService
	loyalty  *LoyaltyService
}

// NewPricingService constructs PricingService.
func NewPricingService(db *gorm.DB, vouchers *VoucherService, loyalty *LoyaltyService) *PricingService {
	return &PricingService{db: db, vouchers: vouchers, loyalty: loyalty}
}

// applyRedemption clamps a point-redemption request against the customer's
// balance and the amount remaining after the voucher discount. Points are
// reduced rather than burned when the remainder caps the money value.
func applyRedemption(remainder float64, requested, balance int, redeemValue float64) (points int, amount float64, err error) {
	if requested <= 0 {
		return 0, 0, nil
	}
	if requested > balance {
		return 0, 0, ErrInsufficientPoints
	}
	if redeemValue <= 0 {
		return 0, 0, nil
	}

	points = requested
	if maxPoints := int(math.Floor(remainder / redeemValue)); points > maxPoints {
		points = maxPoints
	}
	return points, float64(points) * redeemValue, nil
}

// Quote prices a cart against the live catalog, the voucher rules and the
// customer's point balance.
func (s *PricingService) Quote(userID uuid.UUID, items []CartItem, voucherCode string, redeemPoints int) (*Quote, error) {
	return s.quote(s.db, userID, items, voucherCode, redeemPoints)
}

// quote runs against the given handle so checkout can price inside its own
// transaction and see a consistent snapshot.
func (s *PricingService) quote(db *gorm.DB, userID uuid.UUID, items []CartItem, voucherCode string, redeemPoints int) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrInvalidQuantity
	}

	q := &Quote{}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		var product models.Product
		err := db.First(&product, "id = ? AND is_active", item.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, err
		}
		if product.Stock < item.Quantity {
			return nil, ErrInsufficientStock
		}

		unit := product.DiscountedPrice()
		line := PricedItem{
			Product:            product,
			Quantity:           item.Quantity,
			OriginalPrice:      product.Price,
			DiscountPercentage: product.DiscountPercentage,
			UnitPrice:          unit,
			LineTotal:          unit * float64(item.Quantity),
		}
		q.Items = append(q.Items, line)
		q.Subtotal += line.LineTotal
	}

	if voucherCode != "" {
		voucher, discount, err := s.vouchers.validate(db, voucherCode, q.Subtotal, userID)
		if err != nil {
			return nil, err
		}
		q.Voucher = voucher
		q.VoucherDiscount = discount
	}

	if redeemPoints > 0 {
		balance, err := ledgerBalance(db, userID)
		if err != nil {
			return nil, err
		}
		points, amount, err := applyRedemption(q.Subtotal-q.VoucherDiscount, redeemPoints, balance, s.loyalty.cfg.RedeemValue)
		if err != nil {
			return nil, err
		}
		q.PointsRedeemed = points
		q.UsedPointsAmount = amount
	}

	q.TotalPrice = math.Max(0, q.Subtotal-q.VoucherDiscount-q.UsedPointsAmount)
	return q, nil
}
