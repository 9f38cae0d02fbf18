package export

import (
	"time"

	"github.com/mmynk/glasspos/internal/models"
)

// Range is a half-open time window [From, To). A zero bound is unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

func (r Range) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// FilterStockLog returns the entries inside r, preserving order.
func FilterStockLog(entries []models.StockLogEntry, r Range) []models.StockLogEntry {
	out := make([]models.StockLogEntry, 0, len(entries))
	for _, e := range entries {
		if r.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// FilterSales returns the sales inside r, preserving order.
func FilterSales(sales []models.Sale, r Range) []models.Sale {
	out := make([]models.Sale, 0, len(sales))
	for _, s := range sales {
		if r.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}
