package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is a product snapshot with a quantity.
// It is copied verbatim into Sale.Items at checkout.
type CartLine struct {
	ProductID int             `json:"id" validate:"gt=0"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity" validate:"gte=1"`
}

// LineFromProduct snapshots the product's descriptive fields into a cart line.
func LineFromProduct(p Product, quantity int) CartLine {
	return CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Category:  p.Category,
		Image:     p.Image,
		Quantity:  quantity,
	}
}

// Amount returns price × quantity.
func (l CartLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Sale is the immutable record of a committed checkout.
type Sale struct {
	// ID is time-derived and unique (base36 snowflake).
	ID ID `json:"id" validate:"required"`

	// Date is when the checkout committed (UTC).
	Date time.Time `json:"date"`

	// Items are the cart lines in the order they were added.
	Items []CartLine `json:"items" validate:"min=1,dive"`

	// Total is Σ price × quantity over Items.
	Total decimal.Decimal `json:"total"`

	// Cashier is the display name of the user who rang up the sale.
	Cashier string `json:"cashier"`

	// CashierID is the user who rang up the sale. Zero on sales recorded
	// before user IDs were kept.
	CashierID int `json:"cashierId,omitempty"`
}

// BillNo is the short bill number printed on receipts: the last six
// characters of the sale ID.
func (s Sale) BillNo() string {
	id := string(s.ID)
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// ItemCount returns the number of units sold.
func (s Sale) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}
