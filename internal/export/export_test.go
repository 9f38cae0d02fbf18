package export

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func testSale() models.Sale {
	chai := models.Product{ID: 1, Name: "Masala Chai", Price: decimal.NewFromInt(15), Category: "Tea"}
	samosa := models.Product{ID: 3, Name: "Samosa", Price: decimal.NewFromInt(20), Category: "Snacks"}
	return models.Sale{
		ID:      "1RQ7ZK4A9B2C",
		Date:    time.Date(2024, 3, 1, 4, 30, 0, 0, time.UTC),
		Items:   []models.CartLine{models.LineFromProduct(chai, 1), models.LineFromProduct(samosa, 2)},
		Total:   decimal.NewFromInt(55),
		Cashier: "Staff Member",
	}
}

func TestMoney(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"55", "55.00"},
		{"1234.5", "1,234.50"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Money(decimal.RequireFromString(tt.in)); got != tt.want {
				t.Errorf("Money(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteReceipt(t *testing.T) {
	profile := models.BusinessProfile{Name: "Prasad coffee shop", Address: "Raichur", Phone: "9353437302", GST: "0001111"}
	var buf bytes.Buffer
	if err := WriteReceipt(&buf, testSale(), profile, ist); err != nil {
		t.Fatalf("WriteReceipt() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Prasad coffee shop",
		"Tel: 9353437302",
		"GST: 0001111",
		"Bill: 4A9B2C",
		"01/03/2024",
		"10:00:00",
		"Cashier: Staff Member",
		"Masala Chai",
		"40.00",
		"Rs. 55.00",
		"Thank you! Visit Again.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len([]rune(line)) > ReceiptWidth {
			t.Errorf("line %q exceeds %d columns", line, ReceiptWidth)
		}
	}
}

func TestWriteReceiptDefaults(t *testing.T) {
	sale := testSale()
	sale.Items[0].Name = "Extra Large Special Masala Chai"
	var buf bytes.Buffer
	if err := WriteReceipt(&buf, sale, models.BusinessProfile{}, nil); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Glass POS") {
		t.Errorf("receipt missing default name:\n%s", out)
	}
	if strings.Contains(out, "Tel:") || strings.Contains(out, "GST:") {
		t.Errorf("receipt prints empty profile fields:\n%s", out)
	}
	if !strings.Contains(out, "Extra Large Specia") || strings.Contains(out, "Special Masala") {
		t.Errorf("long item name not truncated:\n%s", out)
	}
}

func TestRangeContains(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	tests := []struct {
		name string
		r    Range
		at   time.Time
		want bool
	}{
		{"unbounded", Range{}, from, true},
		{"at start", Range{From: from, To: to}, from, true},
		{"before start", Range{From: from, To: to}, from.Add(-time.Second), false},
		{"at end", Range{From: from, To: to}, to, false},
		{"open end", Range{From: from}, to.AddDate(1, 0, 0), true},
		{"open start", Range{To: to}, from.AddDate(-1, 0, 0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.at); got != tt.want {
				t.Errorf("Contains() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilters(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.StockLogEntry{
		{ID: "c", Date: day.Add(48 * time.Hour), Type: models.MovementIn, ProductName: "Samosa", Qty: 5},
		{ID: "b", Date: day.Add(12 * time.Hour), Type: models.MovementOut, ProductName: "Samosa", Qty: 2},
		{ID: "a", Date: day.Add(2 * time.Hour), Type: models.MovementIn, ProductName: "Chai", Qty: 1},
	}
	got := FilterStockLog(entries, Range{From: day, To: day.AddDate(0, 0, 1)})
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("FilterStockLog() = %+v", got)
	}

	sales := []models.Sale{{ID: "S2", Date: day.Add(30 * time.Hour)}, {ID: "S1", Date: day.Add(time.Hour)}}
	if got := FilterSales(sales, Range{From: day.AddDate(0, 0, 1)}); len(got) != 1 || got[0].ID != "S2" {
		t.Errorf("FilterSales() = %+v", got)
	}
	if got := FilterSales(nil, Range{}); got == nil || len(got) != 0 {
		t.Errorf("FilterSales(nil) = %#v, want empty slice", got)
	}
}

func TestWriteStockReport(t *testing.T) {
	entries := []models.StockLogEntry{
		{ID: "2", Date: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC), Type: models.MovementOut, ProductName: "Samosa", Qty: 2, Reason: "Sale #4A9B2C"},
		{ID: "1", Date: time.Date(2024, 3, 1, 5, 0, 0, 0, time.UTC), Type: models.MovementIn, ProductName: "Samosa, large", Qty: 10, Reason: "Restock"},
	}
	var buf bytes.Buffer
	if err := WriteStockReport(&buf, entries, ist); err != nil {
		t.Fatalf("WriteStockReport() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Date,Type,Item,Qty,Reason",
		"2024-03-01 11:30,OUT,Samosa,2,Sale #4A9B2C",
		`2024-03-01 10:30,IN,"Samosa, large",10,Restock`,
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestInventoryRoundTrip(t *testing.T) {
	products := models.DefaultSnapshot().Products
	products[0].Price = decimal.RequireFromString("15.5")
	products[1].Image = "https://example.com/coffee.png"

	var buf bytes.Buffer
	if err := WriteInventory(&buf, products); err != nil {
		t.Fatalf("WriteInventory() error = %v", err)
	}
	got, err := ReadInventory(&buf)
	if err != nil {
		t.Fatalf("ReadInventory() error = %v", err)
	}
	if len(got) != len(products) {
		t.Fatalf("got %d products, want %d", len(got), len(products))
	}
	for i, p := range products {
		g := got[i]
		if g.ID != p.ID || g.Name != p.Name || !g.Price.Equal(p.Price) ||
			g.Category != p.Category || g.Stock != p.Stock || g.Image != p.Image {
			t.Errorf("product %d = %+v, want %+v", i, g, p)
		}
	}
}

func TestWriteSales(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSales(&buf, []models.Sale{testSale()}, ist); err != nil {
		t.Fatalf("WriteSales() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	rows := f.GetRows(SalesSheet)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	row := rows[1]
	if row[0] != "4A9B2C" || row[2] != "Staff Member" || row[4] != "3" || row[5] != "55" {
		t.Errorf("sales row = %q", row)
	}
	if row[3] != "Masala Chai x1, Samosa x2" {
		t.Errorf("items cell = %q", row[3])
	}
}

// workbook builds an xlsx on the default sheet from literal cell text.
func workbook(t *testing.T, rows ...[]string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	for r, row := range rows {
		for c, v := range row {
			f.SetCellStr("Sheet1", cell(c, r+1), v)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func TestReadInventoryFirstSheet(t *testing.T) {
	buf := workbook(t,
		[]string{"name", "STOCK", "Price", "id"},
		[]string{"Kesari Bath", "12.0", "35", ""},
		[]string{"", "", "", ""},
		[]string{"Masala Chai", "90", "18", "1"},
	)
	got, err := ReadInventory(buf)
	if err != nil {
		t.Fatalf("ReadInventory() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d products, want 2: %+v", len(got), got)
	}
	if got[0].ID != 0 || got[0].Name != "Kesari Bath" || got[0].Stock != 12 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].ID != 1 || got[1].Stock != 90 || !got[1].Price.Equal(decimal.NewFromInt(18)) {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestReadInventoryErrors(t *testing.T) {
	header := []string{"ID", "Name", "Price", "Stock"}
	tests := []struct {
		name    string
		rows    [][]string
		wantRow int
		wantCol string
	}{
		{"missing header", [][]string{{"ID", "Name", "Stock"}}, 1, "price"},
		{"bad price", [][]string{header, {"1", "Chai", "cheap", "3"}}, 2, "Price"},
		{"fractional stock", [][]string{header, {"1", "Chai", "15", "2.5"}}, 2, "Stock"},
		{"bad id", [][]string{header, {"1", "Chai", "15", "3"}, {"x", "Tea", "15", "3"}}, 3, "ID"},
		{"missing name", [][]string{header, {"1", "", "15", "3"}}, 2, "Name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadInventory(workbook(t, tt.rows...))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ReadInventory() error = %v, want *ParseError", err)
			}
			if pe.Row != tt.wantRow || pe.Column != tt.wantCol {
				t.Errorf("ParseError at row %d column %s, want row %d column %s", pe.Row, pe.Column, tt.wantRow, tt.wantCol)
			}
		})
	}
}

func TestReadInventoryNotWorkbook(t *testing.T) {
	_, err := ReadInventory(strings.NewReader("id,name\n1,chai\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Errorf("ReadInventory() error = %v, want *ParseError", err)
	}
}
