package models

// Loyalty tiers derived from the customer's point balance.
const (
	TierBronze = "BRONZE"
	TierSilver = "SILVER"
	TierGold   = "GOLD"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User represents a registered customer or administrator.
type User struct {
	BaseModel
	Name         string `json:"name"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	Role         string `gorm:"default:customer" json:"role"`
	// Tier is a denormalized read model; the authoritative balance is always
	// derived from the point transaction stream.
	Tier   string  `gorm:"default:BRONZE" json:"tier"`
	Orders []Order `json:"orders,omitempty"`
}
