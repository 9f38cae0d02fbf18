package calculator

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

// ProductQuantity is the number of units sold for one product name.
type ProductQuantity struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesSummary aggregates a set of sales for the reports screen.
type SalesSummary struct {
	Count        int               `json:"count"`
	Revenue      decimal.Decimal   `json:"revenue"`
	ItemsSold    int               `json:"itemsSold"`
	MeanTicket   float64           `json:"meanTicket"`
	MedianTicket float64           `json:"medianTicket"`
	LargestSale  float64           `json:"largestSale"`
	ByProduct    []ProductQuantity `json:"byProduct"`
}

// Summarize computes revenue, ticket statistics and per-product quantities.
// Products are ordered by quantity sold (descending), then by name.
func Summarize(sales []models.Sale) (*SalesSummary, error) {
	summary := &SalesSummary{Revenue: decimal.Zero, ByProduct: []ProductQuantity{}}
	if len(sales) == 0 {
		return summary, nil
	}

	tickets := make(stats.Float64Data, 0, len(sales))
	byName := make(map[string]*ProductQuantity)
	for _, sale := range sales {
		summary.Count++
		summary.Revenue = summary.Revenue.Add(sale.Total)
		tickets = append(tickets, sale.Total.InexactFloat64())
		for _, item := range sale.Items {
			summary.ItemsSold += item.Quantity
			pq, ok := byName[item.Name]
			if !ok {
				pq = &ProductQuantity{Name: item.Name, Revenue: decimal.Zero}
				byName[item.Name] = pq
			}
			pq.Quantity += item.Quantity
			pq.Revenue = pq.Revenue.Add(item.Amount())
		}
	}

	var err error
	if summary.MeanTicket, err = tickets.Mean(); err != nil {
		return nil, fmt.Errorf("failed to compute mean ticket: %w", err)
	}
	if summary.MedianTicket, err = tickets.Median(); err != nil {
		return nil, fmt.Errorf("failed to compute median ticket: %w", err)
	}
	if summary.LargestSale, err = tickets.Max(); err != nil {
		return nil, fmt.Errorf("failed to compute largest sale: %w", err)
	}

	for _, pq := range byName {
		summary.ByProduct = append(summary.ByProduct, *pq)
	}
	sort.Slice(summary.ByProduct, func(i, j int) bool {
		a, b := summary.ByProduct[i], summary.ByProduct[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})

	return summary, nil
}
