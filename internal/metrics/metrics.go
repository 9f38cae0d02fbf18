// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkouts_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"result"})

	Revenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_revenue_total",
		Help: "Sum of committed sale totals.",
	})

	StockAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_stock_adjustments_total",
		Help: "Stock adjustment calls by outcome.",
	}, []string{"result"})

	SyncPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_sync_pushes_total",
		Help: "Remote pushes by trigger and outcome.",
	}, []string{"trigger", "result"})

	// SyncState is 0 idle, 1 syncing, 2 error.
	SyncState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pos_sync_state",
		Help: "Current remote sync state (0 idle, 1 syncing, 2 error).",
	})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Result maps an error to an "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
