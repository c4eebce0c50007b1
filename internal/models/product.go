package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Product struct {
	BaseModel
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	Price              float64        `json:"price"`
	DiscountPercentage float64        `json:"discount_percentage"`
	Stock              int            `json:"stock"`
	SoldCount          int            `json:"sold_count"`
	ViewCount          int            `json:"view_count"`
	Images             pq.StringArray `gorm:"type:text[]" json:"images"`
	CategoryID         *uuid.UUID     `gorm:"type:uuid" json:"category_id"`
	Category           *Category      `json:"category,omitempty"`
	BrandID            *uuid.UUID     `gorm:"type:uuid" json:"brand_id"`
	Brand              *Brand         `json:"brand,omitempty"`
	IsActive           bool           `gorm:"default:true" json:"is_active"`
}

// DiscountedPrice is the unit price after the product's own discount,
// captured onto order items at checkout time.
func (p *Product) DiscountedPrice() float64 {
	return p.Price * (1 - p.DiscountPercentage/100)
}
