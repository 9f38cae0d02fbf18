package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

// Total computes Σ price × quantity over the given lines.
// It is recomputed on every call; callers never cache it.
func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount())
	}
	return total
}

// ItemCount returns the number of units across all lines.
func ItemCount(lines []models.CartLine) int {
	n := 0
	for _, line := range lines {
		n += line.Quantity
	}
	return n
}

// QuantitiesByProduct sums line quantities per product ID.
// Lines are expected to be unique per product, but duplicates are tolerated.
func QuantitiesByProduct(lines []models.CartLine) (map[int]int, error) {
	qty := make(map[int]int, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line %q has non-positive quantity %d", line.Name, line.Quantity)
		}
		qty[line.ProductID] += line.Quantity
	}
	return qty, nil
}
