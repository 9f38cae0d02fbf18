package cloudsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/mmynk/glasspos/internal/models"
)

// SheetsStore pushes a flattened projection to a spreadsheet-backed script
// endpoint. Pushes are fire-and-forget: the response is opaque and only
// transport failures are reported. The endpoint cannot return a whole
// snapshot, only an inventory projection.
type SheetsStore struct {
	client   *http.Client
	endpoint string
}

var (
	_ Remote          = (*SheetsStore)(nil)
	_ InventorySource = (*SheetsStore)(nil)
)

// NewSheetsStore creates a remote for the given script endpoint URL.
func NewSheetsStore(client *http.Client, endpoint string) *SheetsStore {
	if client == nil {
		client = http.DefaultClient
	}
	return &SheetsStore{client: client, endpoint: endpoint}
}

type sheetSale struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Cashier string  `json:"cashier"`
	Items   string  `json:"items"`
	Total   float64 `json:"total"`
}

type sheetProduct struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Stock    int     `json:"stock"`
}

type sheetPayload struct {
	Sales     []sheetSale    `json:"sales"`
	Inventory []sheetProduct `json:"inventory"`
}

// Project flattens a snapshot into the {sales, inventory} rows the sheet expects.
func Project(snap *models.Snapshot) sheetPayload {
	payload := sheetPayload{
		Sales:     make([]sheetSale, 0, len(snap.Sales)),
		Inventory: make([]sheetProduct, 0, len(snap.Products)),
	}
	for _, sale := range snap.Sales {
		items := make([]string, 0, len(sale.Items))
		for _, item := range sale.Items {
			items = append(items, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		}
		payload.Sales = append(payload.Sales, sheetSale{
			ID:      string(sale.ID),
			Date:    sale.Date.Format("2006-01-02 15:04:05"),
			Cashier: sale.Cashier,
			Items:   strings.Join(items, ", "),
			Total:   sale.Total.InexactFloat64(),
		})
	}
	for _, p := range snap.Products {
		payload.Inventory = append(payload.Inventory, sheetProduct{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price.InexactFloat64(),
			Category: p.Category,
			Stock:    p.Stock,
		})
	}
	return payload
}

// Push posts the projection and discards the response.
func (s *SheetsStore) Push(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(Project(snap))
	if err != nil {
		return fmt.Errorf("failed to encode sheet payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	// text/plain avoids a CORS preflight on script endpoints
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach sheet endpoint: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// Pull is unsupported: the sheet holds a projection, not a snapshot.
func (s *SheetsStore) Pull(context.Context) (*models.Snapshot, error) {
	return nil, ErrUnsupported
}

// PullInventory fetches {inventory: [...]} and converts loosely typed sheet
// cells into products.
func (s *SheetsStore) PullInventory(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach sheet endpoint: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, rejected(resp.StatusCode, "")
	}

	var body struct {
		Inventory []map[string]any `json:"inventory"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrCorruptData, err)
	}

	products := make([]models.Product, 0, len(body.Inventory))
	for i, row := range body.Inventory {
		p, err := productFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: inventory row %d: %v", models.ErrCorruptData, i+1, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func productFromRow(row map[string]any) (models.Product, error) {
	var p models.Product
	var err error
	if v, ok := row["id"]; ok && v != "" {
		if p.ID, err = cast.ToIntE(v); err != nil {
			return p, fmt.Errorf("id: %w", err)
		}
	}
	if p.Name, err = cast.ToStringE(row["name"]); err != nil {
		return p, fmt.Errorf("name: %w", err)
	}
	if p.Category, err = cast.ToStringE(row["category"]); err != nil {
		return p, fmt.Errorf("category: %w", err)
	}
	priceText, err := cast.ToStringE(row["price"])
	if err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	if p.Price, err = decimal.NewFromString(strings.TrimSpace(priceText)); err != nil {
		return p, fmt.Errorf("price: %w", err)
	}
	if p.Stock, err = cast.ToIntE(row["stock"]); err != nil {
		return p, fmt.Errorf("stock: %w", err)
	}
	return p, nil
}
