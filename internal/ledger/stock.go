package ledger

import (
	"context"

	"github.com/mmynk/glasspos/internal/metrics"
	"github.com/mmynk/glasspos/internal/models"
)

// Reasons recorded on stock log entries.
const (
	ReasonManual  = "Manual Adjustment"
	ReasonNewItem = "New Item"
	ReasonRestock = "Stock Restock"
	ReasonSale    = "Sale"
	ReasonImport  = "Import"
)

// AdjustStock applies delta to the product's stock and records one log
// entry (IN for positive deltas, OUT otherwise). An empty reason defaults to
// ReasonManual.
//
// The adjustment is rejected, with no state change, when the product does
// not exist (ErrProductNotFound), delta is zero (ErrInvalidDelta) or the
// resulting stock would be negative (ErrNegativeStock).
func (s *Store) AdjustStock(ctx context.Context, productID, delta int, reason string) (models.StockLogEntry, error) {
	if reason == "" {
		reason = ReasonManual
	}

	var entry models.StockLogEntry
	err := s.mutate(ctx, "adjust_stock", func(next *models.Snapshot) error {
		i := next.ProductIndex(productID)
		if i < 0 {
			return ErrProductNotFound
		}
		var err error
		entry, err = s.applyAdjustment(next, i, delta, reason)
		return err
	}, nil)

	switch {
	case err == nil:
		metrics.StockAdjustments.WithLabelValues("accepted").Inc()
		s.logger.Info("Stock adjusted",
			"product_id", productID,
			"delta", delta,
			"reason", reason,
		)
	case IsRejection(err):
		metrics.StockAdjustments.WithLabelValues("rejected").Inc()
		s.logger.Debug("Stock adjustment rejected", "product_id", productID, "delta", delta, "error", err)
	default:
		metrics.StockAdjustments.WithLabelValues("error").Inc()
	}
	return entry, err
}

// applyAdjustment mutates next.Products[i] and prepends the log entry.
func (s *Store) applyAdjustment(next *models.Snapshot, i, delta int, reason string) (models.StockLogEntry, error) {
	if delta == 0 {
		return models.StockLogEntry{}, ErrInvalidDelta
	}
	p := &next.Products[i]
	if p.Stock+delta < 0 {
		return models.StockLogEntry{}, ErrNegativeStock
	}
	p.Stock += delta

	entry := s.newLogEntry(p.Name, delta, reason)
	next.StockLog = append([]models.StockLogEntry{entry}, next.StockLog...)
	return entry, nil
}
