package services

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
)

// LoyaltyConfig carries the point exchange rates and tier thresholds.
// Rates are configuration, never hard-coded at call sites.
type LoyaltyConfig struct {
	// EarnRate is the order amount that earns one point.
	EarnRate float64
	// RedeemValue is the money credited per point redeemed at checkout.
	RedeemValue     float64
	SilverThreshold int
	GoldThreshold   int
}

// LoyaltyService owns the append-only point ledger. A customer's balance is
// always the sum of their transaction rows; it is never stored as a mutable
// counter, so it cannot drift from its audit trail.
type LoyaltyService struct {
	db  *gorm.DB
	cfg LoyaltyConfig
}

// NewLoyaltyService constructs LoyaltyService.
func NewLoyaltyService(db *gorm.DB, cfg LoyaltyConfig) *LoyaltyService {
	return &LoyaltyService{db: db, cfg: cfg}
}

// Config returns the active loyalty configuration.
func (s *LoyaltyService) Config() LoyaltyConfig {
	return s.cfg
}

// PointsForAmount converts an order amount into earned points at the given
// rate, rounding down.
func PointsForAmount(amount, rate float64) int {
	if rate <= 0 || amount <= 0 {
		return 0
	}
	return int(math.Floor(amount / rate))
}

// TierFor maps a balance onto a loyalty tier.
func TierFor(balance int, cfg LoyaltyConfig) string {
	switch {
	case balance >= cfg.GoldThreshold:
		return models.TierGold
	case balance >= cfg.SilverThreshold:
		return models.TierSilver
	default:
		return models.TierBronze
	}
}

// Balance returns the ledger-derived point balance for a customer.
func (s *LoyaltyService) Balance(userID uuid.UUID) (int, error) {
	return ledgerBalance(s.db, userID)
}

func ledgerBalance(db *gorm.DB, userID uuid.UUID) (int, error) {
	var balance int64
	err := db.Model(&models.PointTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&balance).Error
	return int(balance), err
}

// lockCustomer serializes ledger writes for one customer within the current
// transaction. The lock is released at commit or rollback.
func lockCustomer(tx *gorm.DB, userID uuid.UUID) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", userID.String()).Error
}

// EarnForOrder appends an EARNED transaction for a delivered order and
// recomputes the customer's tier. The caller is responsible for the
// delivered-at guard that makes this run once per order.
func (s *LoyaltyService) EarnForOrder(tx *gorm.DB, order *models.Order) (int, error) {
	points := PointsForAmount(order.TotalPrice, s.cfg.EarnRate)
	if points <= 0 {
		return 0, nil
	}

	txn := models.PointTransaction{
		UserID:      order.UserID,
		Type:        models.PointsEarned,
		Points:      points,
		Description: fmt.Sprintf("Points earned from order %s", order.OrderNumber),
		OrderID:     &order.ID,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return 0, err
	}

	return points, s.recomputeTier(tx, order.UserID)
}

// Redeem appends a REDEEMED transaction after re-validating the balance under
// the customer's ledger lock, so concurrent redemptions cannot drive the
// balance negative.
func (s *LoyaltyService) Redeem(tx *gorm.DB, userID uuid.UUID, points int, orderID *uuid.UUID, description string) error {
	if points <= 0 {
		return ErrInsufficientPoints
	}

	if err := lockCustomer(tx, userID); err != nil {
		return err
	}

	balance, err := ledgerBalance(tx, userID)
	if err != nil {
		return err
	}
	if balance < points {
		return ErrInsufficientPoints
	}

	txn := models.PointTransaction{
		UserID:      userID,
		Type:        models.PointsRedeemed,
		Points:      -points,
		Description: description,
		OrderID:     orderID,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return err
	}

	return s.recomputeTier(tx, userID)
}

// CreditRefund appends the refund-conversion credit for a cancelled or
// returned order. The caller holds the refund_converted guard.
func (s *LoyaltyService) CreditRefund(tx *gorm.DB, order *models.Order, description string) (int, error) {
	points := PointsForAmount(order.TotalPrice, s.cfg.EarnRate)
	if points <= 0 {
		return 0, nil
	}

	txn := models.PointTransaction{
		UserID:      order.UserID,
		Type:        models.PointsAdjustment,
		Points:      points,
		Description: description,
		OrderID:     &order.ID,
	}
	if err := tx.Create(&txn).Error; err != nil {
		return 0, err
	}

	return points, s.recomputeTier(tx, order.UserID)
}

// Adjust appends an admin correction of either sign. Negative adjustments
// that would drive the balance below zero are rejected.
func (s *LoyaltyService) Adjust(userID uuid.UUID, points int, description string) (*models.PointTransaction, int, error) {
	var (
		txn     models.PointTransaction
		balance int
	)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockCustomer(tx, userID); err != nil {
			return err
		}

		current, err := ledgerBalance(tx, userID)
		if err != nil {
			return err
		}
		if current+points < 0 {
			return ErrInsufficientPoints
		}

		txn = models.PointTransaction{
			UserID:      userID,
			Type:        models.PointsAdjustment,
			Points:      points,
			Description: description,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		balance = current + points
		return s.recomputeTier(tx, userID)
	})
	if err != nil {
		return nil, 0, err
	}

	return &txn, balance, nil
}

// recomputeTier refreshes the denormalized tier column from the summed
// balance. Runs on every ledger write.
func (s *LoyaltyService) recomputeTier(tx *gorm.DB, userID uuid.UUID) error {
	balance, err := ledgerBalance(tx, userID)
	if err != nil {
		return err
	}
	if balance < 0 {
		// The atomic guards should make this unreachable; do not mask it.
		return fmt.Errorf("ledger balance for user %s is negative (%d)", userID, balance)
	}

	return tx.Model(&models.User{}).
		Where("id = ?", userID).
		Update("tier", TierFor(balance, s.cfg)).Error
}

// History returns a page of ledger rows for a customer, newest first.
func (s *LoyaltyService) History(userID uuid.UUID, limit, offset int) ([]models.PointTransaction, int64, error) {
	query := s.db.Model(&models.PointTransaction{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []models.PointTransaction
	if err := query.Preload("Order").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&txns).Error; err != nil {
		return nil, 0, err
	}

	return txns, total, nil
}
