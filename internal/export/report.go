package export

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/mmynk/glasspos/internal/models"
)

type stockReportRow struct {
	Date   string `csv:"Date"`
	Type   string `csv:"Type"`
	Item   string `csv:"Item"`
	Qty    int    `csv:"Qty"`
	Reason string `csv:"Reason"`
}

// WriteStockReport writes the stock movement log as CSV, one row per entry,
// in the order given.
func WriteStockReport(w io.Writer, entries []models.StockLogEntry, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	rows := make([]*stockReportRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, &stockReportRow{
			Date:   e.Date.In(loc).Format("2006-01-02 15:04"),
			Type:   string(e.Type),
			Item:   e.ProductName,
			Qty:    e.Qty,
			Reason: e.Reason,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write stock report: %w", err)
	}
	return nil
}
