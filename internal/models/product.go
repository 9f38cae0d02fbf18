package models

import "github.com/shopspring/decimal"

// Product represents a sellable catalog item.
// The ledger owns Stock; it only changes through stock adjustments and checkout.
type Product struct {
	// ID is the unique numeric identifier of the product.
	ID int `json:"id" validate:"gt=0"`

	// Name is the display name printed on receipts.
	Name string `json:"name" validate:"required"`

	// Price is the unit price. Never negative.
	Price decimal.Decimal `json:"price"`

	// Category groups products in the catalog (e.g., "Tea", "Snacks").
	Category string `json:"category"`

	// Stock is the quantity on hand. Never negative.
	Stock int `json:"stock" validate:"gte=0"`

	// Image is an optional picture URL.
	Image string `json:"image,omitempty" validate:"omitempty,uri"`
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}
