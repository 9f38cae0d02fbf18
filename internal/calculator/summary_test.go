package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

func sale(id string, lines ...models.CartLine) models.Sale {
	return models.Sale{ID: models.ID(id), Items: lines, Total: Total(lines)}
}

func TestSummarize(t *testing.T) {
	sales := []models.Sale{
		sale("S3", line(1, "Masala Chai", "15", 2), line(2, "Filter Coffee", "25", 1)), // 55
		sale("S2", line(3, "Samosa", "20", 1)),                                         // 20
		sale("S1", line(1, "Masala Chai", "15", 1), line(3, "Samosa", "20", 1)),        // 35
	}

	got, err := Summarize(sales)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	if got.Count != 3 {
		t.Errorf("Count = %d, want 3", got.Count)
	}
	if !got.Revenue.Equal(decimal.NewFromInt(110)) {
		t.Errorf("Revenue = %s, want 110", got.Revenue)
	}
	if got.ItemsSold != 6 {
		t.Errorf("ItemsSold = %d, want 6", got.ItemsSold)
	}
	if got.MedianTicket != 35 {
		t.Errorf("MedianTicket = %v, want 35", got.MedianTicket)
	}
	if got.LargestSale != 55 {
		t.Errorf("LargestSale = %v, want 55", got.LargestSale)
	}
	if diff := got.MeanTicket - 110.0/3; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("MeanTicket = %v, want %v", got.MeanTicket, 110.0/3)
	}

	wantOrder := []string{"Masala Chai", "Samosa", "Filter Coffee"}
	if len(got.ByProduct) != len(wantOrder) {
		t.Fatalf("ByProduct has %d entries, want %d", len(got.ByProduct), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got.ByProduct[i].Name != name {
			t.Errorf("ByProduct[%d] = %s, want %s", i, got.ByProduct[i].Name, name)
		}
	}
	if got.ByProduct[0].Quantity != 3 || !got.ByProduct[0].Revenue.Equal(decimal.NewFromInt(45)) {
		t.Errorf("Masala Chai = %+v, want qty 3 revenue 45", got.ByProduct[0])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got, err := Summarize(nil)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Count != 0 || !got.Revenue.IsZero() || len(got.ByProduct) != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero summary", got)
	}
}
