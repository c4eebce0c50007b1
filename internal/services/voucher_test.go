package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/example/uteshop/internal/models"
)

func TestDiscountAmount(t *testing.T) {
	tests := []struct {
		name     string
		voucher  models.Voucher
		subtotal float64
		want     float64
	}{
		{
			name: "percentage discount",
			voucher: models.Voucher{
				DiscountType:  models.DiscountPercentage,
				DiscountValue: 10,
			},
			subtotal: 300000,
			want:     30000,
		},
		{
			name: "percentage discount hits the cap",
			voucher: models.Voucher{
				DiscountType:      models.DiscountPercentage,
				DiscountValue:     10,
				MaxDiscountAmount: 40000,
			},
			subtotal: 500000,
			want:     40000,
		},
		{
			name: "percentage discount under the cap",
			voucher: models.Voucher{
				DiscountType:      models.DiscountPercentage,
				DiscountValue:     10,
				MaxDiscountAmount: 40000,
			},
			subtotal: 300000,
			want:     30000,
		},
		{
			name: "fixed discount",
			voucher: models.Voucher{
				DiscountType:  models.DiscountFixed,
				DiscountValue: 20000,
			},
			subtotal: 100000,
			want:     20000,
		},
		{
			name: "fixed discount never exceeds the subtotal",
			voucher: models.Voucher{
				DiscountType:  models.DiscountFixed,
				DiscountValue: 20000,
			},
			subtotal: 15000,
			want:     15000,
		},
		{
			name: "unknown type grants nothing",
			voucher: models.Voucher{
				DiscountType:  models.DiscountType("bogus"),
				DiscountValue: 20000,
			},
			subtotal: 100000,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DiscountAmount(&tt.voucher, tt.subtotal))
		})
	}
}

func TestCheckVoucher(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	valid := models.Voucher{
		Code:           "SUMMER10",
		DiscountType:   models.DiscountPercentage,
		DiscountValue:  10,
		MinOrderAmount: 50000,
		StartDate:      now.Add(-24 * time.Hour),
		EndDate:        now.Add(24 * time.Hour),
		MaxIssued:      100,
		UsesCount:      10,
		MaxUsesPerUser: 1,
		IsActive:       true,
	}

	tests := []struct {
		name      string
		mutate    func(v *models.Voucher)
		subtotal  float64
		priorUses int
		wantErr   error
	}{
		{
			name:     "valid voucher passes",
			subtotal: 100000,
		},
		{
			name:     "inactive voucher",
			mutate:   func(v *models.Voucher) { v.IsActive = false },
			subtotal: 100000,
			wantErr:  ErrVoucherInvalid,
		},
		{
			name:     "not yet started",
			mutate:   func(v *models.Voucher) { v.StartDate = now.Add(time.Hour) },
			subtotal: 100000,
			wantErr:  ErrVoucherExpired,
		},
		{
			name:     "already ended",
			mutate:   func(v *models.Voucher) { v.EndDate = now.Add(-time.Hour) },
			subtotal: 100000,
			wantErr:  ErrVoucherExpired,
		},
		{
			name:     "end date is exclusive",
			mutate:   func(v *models.Voucher) { v.EndDate = now },
			subtotal: 100000,
			wantErr:  ErrVoucherExpired,
		},
		{
			name:     "issuance exhausted",
			mutate:   func(v *models.Voucher) { v.UsesCount = v.MaxIssued },
			subtotal: 100000,
			wantErr:  ErrVoucherExhausted,
		},
		{
			name:     "below minimum order amount",
			subtotal: 40000,
			wantErr:  ErrVoucherMinOrderNotMet,
		},
		{
			name:      "per-user cap reached",
			subtotal:  100000,
			priorUses: 1,
			wantErr:   ErrVoucherExhausted,
		},
		{
			name: "inactive wins over exhausted",
			mutate: func(v *models.Voucher) {
				v.IsActive = false
				v.UsesCount = v.MaxIssued
			},
			subtotal: 100000,
			wantErr:  ErrVoucherInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid
			if tt.mutate != nil {
				tt.mutate(&v)
			}
			err := checkVoucher(&v, now, tt.subtotal, tt.priorUses)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
