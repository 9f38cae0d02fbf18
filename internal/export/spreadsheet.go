package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

const (
	InventorySheet = "Inventory"
	SalesSheet     = "Sales"
	defaultSheet   = "Sheet1"
)

var (
	inventoryHeader = []string{"ID", "Name", "Price", "Category", "Stock", "Image"}
	salesHeader     = []string{"Bill No", "Date", "Cashier", "Items", "Qty", "Total"}
)

// ParseError reports the first malformed cell of an imported workbook.
type ParseError struct {
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("inventory sheet: %v", e.Err)
	}
	return fmt.Sprintf("inventory sheet row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func cell(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for col, v := range values {
		f.SetCellValue(sheet, cell(col, row), v)
	}
}

func newWorkbook(sheet string) *excelize.File {
	f := excelize.NewFile()
	f.SetSheetName(defaultSheet, sheet)
	return f
}

// WriteInventory writes one row per product under the ID, Name, Price,
// Category, Stock, Image header.
func WriteInventory(w io.Writer, products []models.Product) error {
	f := newWorkbook(InventorySheet)
	header := make([]any, len(inventoryHeader))
	for i, h := range inventoryHeader {
		header[i] = h
	}
	writeRow(f, InventorySheet, 1, header...)
	for i, p := range products {
		writeRow(f, InventorySheet, i+2,
			p.ID, p.Name, p.Price.InexactFloat64(), p.Category, p.Stock, p.Image)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write inventory workbook: %w", err)
	}
	return nil
}

// WriteSales writes one row per sale, most recent first as given.
func WriteSales(w io.Writer, sales []models.Sale, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	f := newWorkbook(SalesSheet)
	header := make([]any, len(salesHeader))
	for i, h := range salesHeader {
		header[i] = h
	}
	writeRow(f, SalesSheet, 1, header...)
	for i, s := range sales {
		names := make([]string, 0, len(s.Items))
		for _, item := range s.Items {
			names = append(names, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		}
		writeRow(f, SalesSheet, i+2,
			s.BillNo(), s.Date.In(loc).Format("2006-01-02 15:04:05"), s.Cashier,
			strings.Join(names, ", "), s.ItemCount(), s.Total.InexactFloat64())
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write sales workbook: %w", err)
	}
	return nil
}

// ReadInventory parses an inventory workbook. It reads the sheet named
// Inventory, or the first sheet if none has that name. Columns are located
// by header name; ID, Name, Price and Stock are required. A blank ID marks
// a new product. Fully blank rows are skipped. Nothing is returned on the
// first malformed cell.
func ReadInventory(r io.Reader) ([]models.Product, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("not a workbook: %w", err)}
	}

	sheet := InventorySheet
	if f.GetSheetIndex(sheet) == 0 {
		sheet = f.GetSheetName(1)
	}
	rows := f.GetRows(sheet)
	if len(rows) == 0 {
		return nil, &ParseError{Err: fmt.Errorf("sheet %q is empty", sheet)}
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name", "price", "stock"} {
		if _, ok := cols[required]; !ok {
			return nil, &ParseError{Row: 1, Column: required, Err: fmt.Errorf("missing header")}
		}
	}

	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	products := make([]models.Product, 0, len(rows)-1)
	for n, row := range rows[1:] {
		line := n + 2
		if blank(row) {
			continue
		}

		var p models.Product
		if v := get(row, "id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				return nil, &ParseError{Row: line, Column: "ID", Err: err}
			}
			p.ID = id
		}
		p.Name = get(row, "name")
		if p.Name == "" {
			return nil, &ParseError{Row: line, Column: "Name", Err: fmt.Errorf("name is required")}
		}
		price, err := decimal.NewFromString(get(row, "price"))
		if err != nil {
			return nil, &ParseError{Row: line, Column: "Price", Err: err}
		}
		p.Price = price
		stock, err := parseCount(get(row, "stock"))
		if err != nil {
			return nil, &ParseError{Row: line, Column: "Stock", Err: err}
		}
		p.Stock = stock
		p.Category = get(row, "category")
		p.Image = get(row, "image")
		products = append(products, p)
	}
	return products, nil
}

// parseCount accepts integer cells that a spreadsheet may render as "12.0".
func parseCount(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(d.IntPart()), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
