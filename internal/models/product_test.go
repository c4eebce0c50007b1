package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiscountedPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		discount float64
		want     float64
	}{
		{"no discount", 100000, 0, 100000},
		{"ten percent off", 100000, 10, 90000},
		{"half off", 250000, 50, 125000},
		{"full discount", 100000, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, DiscountPercentage: tt.discount}
			assert.Equal(t, tt.want, p.DiscountedPrice())
		})
	}
}
