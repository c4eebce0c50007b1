package services

import (
	"gorm.io/gorm"

	"github.com/example/uteshop/internal/models"
)

// StatsService is the read-only rollup layer behind the admin dashboard.
// It never mutates anything.
type StatsService struct {
	db *gorm.DB
}

// NewStatsService constructs StatsService.
func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{db: db}
}

// OrderStats aggregates orders by status and revenue bucket.
type OrderStats struct {
	TotalOrders    int64            `json:"total_orders"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
	// TotalRevenue and ConfirmedRevenue both sum delivered orders; pending
	// revenue covers orders still moving through fulfillment.
	TotalRevenue     float64 `json:"total_revenue"`
	PendingRevenue   float64 `json:"pending_revenue"`
	ConfirmedRevenue float64 `json:"confirmed_revenue"`
	PaidOrders       int64   `json:"paid_orders"`
	UnpaidOrders     int64   `json:"unpaid_orders"`
}

// Orders computes the revenue rollup in one pass over the order set.
func (s *StatsService) Orders() (*OrderStats, error) {
	stats := &OrderStats{OrdersByStatus: make(map[string]int64)}

	if err := s.db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	if err := s.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}
	for _, sc := range counts {
		stats.OrdersByStatus[sc.Status] = sc.Count
	}

	if err := s.db.Model(&models.Order{}).
		Where("status = ?", models.OrderDelivered).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.ConfirmedRevenue).Error; err != nil {
		return nil, err
	}
	stats.TotalRevenue = stats.ConfirmedRevenue

	if err := s.db.Model(&models.Order{}).
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderProcessing}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&stats.PendingRevenue).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Count(&stats.PaidOrders).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentUnpaid).
		Count(&stats.UnpaidOrders).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// PointsStats aggregates the loyalty program for the admin dashboard.
type PointsStats struct {
	TotalPointsIssued   int64            `json:"total_points_issued"`
	TotalPointsRedeemed int64            `json:"total_points_redeemed"`
	ActiveMembers       int64            `json:"active_members"`
	MembersByTier       map[string]int64 `json:"members_by_tier"`
}

// Points computes ledger-wide issue/redeem totals and the tier distribution.
func (s *StatsService) Points() (*PointsStats, error) {
	stats := &PointsStats{MembersByTier: map[string]int64{
		models.TierBronze: 0,
		models.TierSilver: 0,
		models.TierGold:   0,
	}}

	if err := s.db.Model(&models.PointTransaction{}).
		Where("points > 0").
		Select("COALESCE(SUM(points), 0)").
		Scan(&stats.TotalPointsIssued).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.PointTransaction{}).
		Where("points < 0").
		Select("COALESCE(SUM(-points), 0)").
		Scan(&stats.TotalPointsRedeemed).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.PointTransaction{}).
		Where("points <> 0").
		Distinct("user_id").
		Count(&stats.ActiveMembers).Error; err != nil {
		return nil, err
	}

	type tierCount struct {
		Tier  string
		Count int64
	}
	var tiers []tierCount
	if err := s.db.Model(&models.User{}).
		Where("role = ?", models.RoleCustomer).
		Select("tier, count(*) as count").
		Group("tier").
		Scan(&tiers).Error; err != nil {
		return nil, err
	}
	for _, tc := range tiers {
		stats.MembersByTier[tc.Tier] = tc.Count
	}

	return stats, nil
}

// VoucherStats summarizes the voucher program.
type VoucherStats struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Expired    int64            `json:"expired"`
	TotalUsage int64            `json:"total_usage"`
	Top        []models.Voucher `json:"top_vouchers"`
}

// Vouchers computes the voucher overview.
func (s *StatsService) Vouchers() (*VoucherStats, error) {
	stats := &VoucherStats{}

	if err := s.db.Model(&models.Voucher{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Voucher{}).
		Where("is_active").
		Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Voucher{}).
		Where("end_date < NOW()").
		Count(&stats.Expired).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Voucher{}).
		Select("COALESCE(SUM(uses_count), 0)").
		Scan(&stats.TotalUsage).Error; err != nil {
		return nil, err
	}
	if err := s.db.Order("uses_count desc").
		Limit(5).
		Find(&stats.Top).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// ReturnStats summarizes return requests and refunded points.
type ReturnStats struct {
	Pending       int64 `json:"pending"`
	Approved      int64 `json:"approved"`
	Rejected      int64 `json:"rejected"`
	TotalRefunded int64 `json:"total_refunded_points"`
}

// Returns computes the return-request overview.
func (s *StatsService) Returns() (*ReturnStats, error) {
	stats := &ReturnStats{}

	for status, dest := range map[models.ReturnStatus]*int64{
		models.ReturnPending:  &stats.Pending,
		models.ReturnApproved: &stats.Approved,
		models.ReturnRejected: &stats.Rejected,
	} {
		if err := s.db.Model(&models.ReturnRequest{}).
			Where("status = ?", status).
			Count(dest).Error; err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.ReturnRequest{}).
		Where("status = ?", models.ReturnApproved).
		Select("COALESCE(SUM(points_awarded), 0)").
		Scan(&stats.TotalRefunded).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
