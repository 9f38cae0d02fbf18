package models

import "time"

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockLogEntry is one row of the stock movement audit trail.
// Entries are never edited or removed once written.
type StockLogEntry struct {
	ID          ID           `json:"id" validate:"required"`
	Date        time.Time    `json:"date"`
	Type        MovementType `json:"type" validate:"oneof=IN OUT"`
	ProductName string       `json:"prodName" validate:"required"`
	Qty         int          `json:"qty" validate:"gt=0"`
	Reason      string       `json:"reason"`
}

// MovementFor returns IN for positive deltas and OUT otherwise.
func MovementFor(delta int) MovementType {
	if delta > 0 {
		return MovementIn
	}
	return MovementOut
}
