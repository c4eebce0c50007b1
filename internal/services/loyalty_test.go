package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/uteshop/internal/models"
)

func TestPointsForAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		rate   float64
		want   int
	}{
		{"exact multiple", 1000000, 1000, 1000},
		{"rounds down", 250999, 1000, 250},
		{"below one point", 999, 1000, 0},
		{"zero amount", 0, 1000, 0},
		{"negative amount", -5000, 1000, 0},
		{"zero rate earns nothing", 1000000, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PointsForAmount(tt.amount, tt.rate))
		})
	}
}

func TestTierFor(t *testing.T) {
	cfg := LoyaltyConfig{SilverThreshold: 1000, GoldThreshold: 5000}

	tests := []struct {
		name    string
		balance int
		want    string
	}{
		{"zero balance is bronze", 0, models.TierBronze},
		{"just below silver", 999, models.TierBronze},
		{"silver threshold is inclusive", 1000, models.TierSilver},
		{"between silver and gold", 4999, models.TierSilver},
		{"gold threshold is inclusive", 5000, models.TierGold},
		{"far above gold", 100000, models.TierGold},
		{"negative balance is bronze", -50, models.TierBronze},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(tt.balance, cfg))
		})
	}
}
