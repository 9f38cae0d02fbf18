package cloudsync

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

func TestSheetsPushPostsProjection(t *testing.T) {
	var mu sync.Mutex
	var got sheetPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		mu.Lock()
		defer mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	snap := models.DefaultSnapshot()
	snap.Sales = []models.Sale{{
		ID:      "ABC123",
		Date:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		Items:   []models.CartLine{models.LineFromProduct(snap.Products[0], 2)},
		Total:   decimal.NewFromInt(30),
		Cashier: "Staff Member",
	}}

	s := NewSheetsStore(srv.Client(), srv.URL)
	if err := s.Push(context.Background(), snap); err != nil {
		t.Fatalf("Push() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got.Inventory) != 4 || got.Inventory[0].Name != "Masala Chai" || got.Inventory[0].Price != 15 {
		t.Errorf("inventory = %+v", got.Inventory)
	}
	if len(got.Sales) != 1 || got.Sales[0].Items != "Masala Chai x2" || got.Sales[0].Total != 30 {
		t.Errorf("sales = %+v", got.Sales)
	}
}

func TestSheetsPullUnsupported(t *testing.T) {
	s := NewSheetsStore(nil, "http://unused.invalid")
	if _, err := s.Pull(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Pull() error = %v, want ErrUnsupported", err)
	}
}

func TestSheetsPullInventory(t *testing.T) {
	body := `{"inventory":[
		{"id": 1, "name": "Masala Chai", "price": 18, "category": "Tea", "stock": "90"},
		{"id": "", "name": "Kesari Bath", "price": "35.5", "category": "Sweets", "stock": 12}
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	products, err := NewSheetsStore(srv.Client(), srv.URL).PullInventory(context.Background())
	if err != nil {
		t.Fatalf("PullInventory() error = %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("got %d products, want 2", len(products))
	}
	if products[0].ID != 1 || products[0].Stock != 90 || !products[0].Price.Equal(decimal.NewFromInt(18)) {
		t.Errorf("products[0] = %+v", products[0])
	}
	if products[1].ID != 0 || !products[1].Price.Equal(decimal.RequireFromString("35.5")) || products[1].Stock != 12 {
		t.Errorf("products[1] = %+v", products[1])
	}
}

func TestSheetsPullInventoryRejectsBadRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inventory":[{"id":1,"name":"A","price":"cheap","stock":1}]}`))
	}))
	defer srv.Close()

	_, err := NewSheetsStore(srv.Client(), srv.URL).PullInventory(context.Background())
	if !errors.Is(err, models.ErrCorruptData) {
		t.Errorf("PullInventory() error = %v, want ErrCorruptData", err)
	}
}

func TestImportInventoryThroughAdapter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"inventory":[{"id":1,"name":"Masala Chai","price":15,"category":"Tea","stock":120}]}`))
	}))
	defer srv.Close()

	cfg := &models.RemoteSyncConfig{Provider: models.ProviderSheets, EndpointURL: srv.URL}
	f := newFixture(t, cfg, time.Hour)

	n, err := f.adapter.ImportInventory(context.Background())
	if err != nil {
		t.Fatalf("ImportInventory() error = %v", err)
	}
	if n != 1 {
		t.Errorf("changed = %d, want 1", n)
	}
	if p, _ := f.ledger.Product(1); p.Stock != 120 {
		t.Errorf("stock = %d, want 120", p.Stock)
	}
	log := f.ledger.StockLog()
	if len(log) != 1 || log[0].Reason != "Import" || log[0].Qty != 20 {
		t.Errorf("log = %+v", log)
	}

	if err := f.adapter.Pull(context.Background(), true); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Pull() on sheets error = %v, want ErrUnsupported", err)
	}
}

func TestImportInventoryUnsupportedForGist(t *testing.T) {
	f := newFixture(t, gistConfig, time.Hour)
	if _, err := f.adapter.ImportInventory(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("ImportInventory() error = %v, want ErrUnsupported", err)
	}
}
