package service

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"

	"github.com/mmynk/glasspos/internal/calculator"
	"github.com/mmynk/glasspos/internal/export"
)

// dateRange reads the optional from and to query parameters. Any common
// date format is accepted. A to value without a time of day includes that
// whole day.
func (s *Server) dateRange(c *gin.Context) (export.Range, error) {
	var r export.Range
	if v := c.Query("from"); v != "" {
		t, err := dateparse.ParseIn(v, s.loc)
		if err != nil {
			return r, fmt.Errorf("invalid from date: %w", err)
		}
		r.From = t
	}
	if v := c.Query("to"); v != "" {
		t, err := dateparse.ParseIn(v, s.loc)
		if err != nil {
			return r, fmt.Errorf("invalid to date: %w", err)
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			t = t.AddDate(0, 0, 1)
		}
		r.To = t
	}
	if !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To) {
		return r, fmt.Errorf("from must be before to")
	}
	return r, nil
}

func (s *Server) listSales(c *gin.Context) {
	r, err := s.dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": export.FilterSales(s.ledger.Sales(), r)})
}

func (s *Server) salesSummary(c *gin.Context) {
	r, err := s.dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	summary, err := calculator.Summarize(export.FilterSales(s.ledger.Sales(), r))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) exportSales(c *gin.Context) {
	r, err := s.dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteSales(&buf, export.FilterSales(s.ledger.Sales(), r), s.loc); err != nil {
		s.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="sales.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) stockLog(c *gin.Context) {
	r, err := s.dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": export.FilterStockLog(s.ledger.StockLog(), r)})
}

func (s *Server) stockReport(c *gin.Context) {
	r, err := s.dateRange(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteStockReport(&buf, export.FilterStockLog(s.ledger.StockLog(), r), s.loc); err != nil {
		s.writeError(c, err)
		return
	}
	name := fmt.Sprintf("stock_report_%s.csv", time.Now().In(s.loc).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
