package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRedemption(t *testing.T) {
	tests := []struct {
		name        string
		remainder   float64
		requested   int
		balance     int
		redeemValue float64
		wantPoints  int
		wantAmount  float64
		wantErr     error
	}{
		{
			name:        "zero request is a no-op",
			remainder:   200000,
			requested:   0,
			balance:     300,
			redeemValue: 1000,
		},
		{
			name:        "request above balance is rejected",
			remainder:   200000,
			requested:   500,
			balance:     300,
			redeemValue: 1000,
			wantErr:     ErrInsufficientPoints,
		},
		{
			name:        "redemption within balance and remainder",
			remainder:   200000,
			requested:   100,
			balance:     800,
			redeemValue: 100,
			wantPoints:  100,
			wantAmount:  10000,
		},
		{
			name:        "points clamp to the remainder instead of burning",
			remainder:   5000,
			requested:   50,
			balance:     100,
			redeemValue: 1000,
			wantPoints:  5,
			wantAmount:  5000,
		},
		{
			name:        "fractional remainder rounds the clamp down",
			remainder:   5500,
			requested:   50,
			balance:     100,
			redeemValue: 1000,
			wantPoints:  5,
			wantAmount:  5000,
		},
		{
			name:        "zero remainder uses no points",
			remainder:   0,
			requested:   50,
			balance:     100,
			redeemValue: 1000,
			wantPoints:  0,
			wantAmount:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, amount, err := applyRedemption(tt.remainder, tt.requested, tt.balance, tt.redeemValue)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPoints, points)
			assert.Equal(t, tt.wantAmount, amount)
		})
	}
}

func TestRedemptionNeverExceedsOrderValue(t *testing.T) {
	// Order of 200,000 with 100 points at 100 each leaves 190,000 to pay.
	points, amount, err := applyRedemption(200000, 100, 800, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, points)
	assert.Equal(t, float64(190000), 200000-amount)
}
