package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

func line(id int, name, price string, qty int) models.CartLine {
	return models.CartLine{ProductID: id, Name: name, Price: decimal.RequireFromString(price), Quantity: qty}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.CartLine
		want  string
	}{
		{"empty", nil, "0"},
		{"single", []models.CartLine{line(1, "Chai", "15", 2)}, "30"},
		{"mixed", []models.CartLine{line(1, "Chai", "15", 2), line(2, "Coffee", "25", 1)}, "55"},
		{"fractional", []models.CartLine{line(1, "Bun", "0.10", 3), line(2, "Jam", "0.20", 1)}, "0.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(tt.lines)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Total() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestItemCount(t *testing.T) {
	lines := []models.CartLine{line(1, "Chai", "15", 2), line(2, "Coffee", "25", 3)}
	if got := ItemCount(lines); got != 5 {
		t.Errorf("ItemCount() = %d, want 5", got)
	}
}

func TestQuantitiesByProduct(t *testing.T) {
	got, err := QuantitiesByProduct([]models.CartLine{line(1, "Chai", "15", 2), line(2, "Coffee", "25", 1), line(1, "Chai", "15", 1)})
	if err != nil {
		t.Fatalf("QuantitiesByProduct() error = %v", err)
	}
	if got[1] != 3 || got[2] != 1 {
		t.Errorf("QuantitiesByProduct() = %v, want map[1:3 2:1]", got)
	}

	if _, err := QuantitiesByProduct([]models.CartLine{line(1, "Chai", "15", 0)}); err == nil {
		t.Error("expected error for zero quantity")
	}
}
