package cart

import (
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
)

var (
	chai    = models.Product{ID: 1, Name: "Masala Chai", Price: decimal.NewFromInt(15), Category: "Tea", Stock: 100}
	coffee  = models.Product{ID: 2, Name: "Filter Coffee", Price: decimal.NewFromInt(25), Category: "Coffee", Stock: 80}
	soldOut = models.Product{ID: 3, Name: "Samosa", Price: decimal.NewFromInt(20), Category: "Snacks", Stock: 0}
)

func TestAddOrIncrement(t *testing.T) {
	s := NewSession()

	for _, p := range []models.Product{chai, coffee, chai} {
		if err := s.AddOrIncrement(p); err != nil {
			t.Fatalf("AddOrIncrement(%s) error = %v", p.Name, err)
		}
	}

	lines := s.Lines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].ProductID != 1 || lines[0].Quantity != 2 {
		t.Errorf("first line = %+v, want chai x2", lines[0])
	}
	if lines[1].ProductID != 2 || lines[1].Quantity != 1 {
		t.Errorf("second line = %+v, want coffee x1", lines[1])
	}
	if !s.Total().Equal(decimal.NewFromInt(55)) {
		t.Errorf("Total() = %s, want 55", s.Total())
	}
	if s.ItemCount() != 3 {
		t.Errorf("ItemCount() = %d, want 3", s.ItemCount())
	}
}

func TestAddOrIncrementRejectsOutOfStock(t *testing.T) {
	s := NewSession()
	if err := s.AddOrIncrement(soldOut); !errors.Is(err, ErrOutOfStock) {
		t.Errorf("AddOrIncrement() error = %v, want ErrOutOfStock", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestUpdateQuantity(t *testing.T) {
	tests := []struct {
		name     string
		start    int
		targetID int
		delta    int
		wantQty  int // 0 means the line is gone
		wantErr  error
	}{
		{"increment", 1, 1, 3, 4, nil},
		{"decrement", 2, 1, -1, 1, nil},
		{"reaching zero removes line", 1, 1, -1, 0, nil},
		{"below zero removes line", 1, 1, -5, 0, nil},
		{"missing line", 1, 99, 1, 1, ErrLineNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession()
			for range tt.start {
				_ = s.AddOrIncrement(chai)
			}

			err := s.UpdateQuantity(tt.targetID, tt.delta)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateQuantity() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantQty == 0 {
				if s.Len() != 0 {
					t.Errorf("Len() = %d, want 0", s.Len())
				}
				return
			}
			if got := s.Lines()[0].Quantity; got != tt.wantQty {
				t.Errorf("quantity = %d, want %d", got, tt.wantQty)
			}
		})
	}
}

func TestRemoveAndClear(t *testing.T) {
	s := NewSession()
	_ = s.AddOrIncrement(chai)
	_ = s.AddOrIncrement(coffee)

	if err := s.Remove(1); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := s.Remove(1); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("second Remove() error = %v, want ErrLineNotFound", err)
	}
	if s.Len() != 1 || s.Lines()[0].ProductID != 2 {
		t.Errorf("lines after remove = %+v", s.Lines())
	}

	s.Clear()
	if s.Len() != 0 || !s.Total().IsZero() {
		t.Errorf("after Clear: Len() = %d, Total() = %s", s.Len(), s.Total())
	}
	if lines := s.Lines(); lines == nil {
		t.Error("Lines() returned nil, want empty slice")
	}
}

func TestLinesReturnsCopy(t *testing.T) {
	s := NewSession()
	_ = s.AddOrIncrement(chai)
	lines := s.Lines()
	lines[0].Quantity = 50
	if s.Lines()[0].Quantity != 1 {
		t.Error("mutating Lines() result changed the session")
	}
}

func TestCartLineSnapshotsProduct(t *testing.T) {
	s := NewSession()
	p := chai
	_ = s.AddOrIncrement(p)
	p.Price = decimal.NewFromInt(99)
	_ = s.AddOrIncrement(p)

	if got := s.Lines()[0].Price; !got.Equal(decimal.NewFromInt(15)) {
		t.Errorf("line price = %s, want the price captured on first add", got)
	}
}

func TestConcurrentAdds(t *testing.T) {
	s := NewSession()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.AddOrIncrement(chai)
		}()
	}
	wg.Wait()
	if s.ItemCount() != 50 {
		t.Errorf("ItemCount() = %d, want 50", s.ItemCount())
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := r.Get(1)
	_ = a.AddOrIncrement(chai)

	if r.Get(1) != a {
		t.Error("Get returned a different session for the same user")
	}
	if r.Get(2).Len() != 0 {
		t.Error("sessions leak between users")
	}

	r.Drop(1)
	if r.Get(1).Len() != 0 {
		t.Error("Drop did not discard the session")
	}

	_ = r.Get(2).AddOrIncrement(coffee)
	r.Reset()
	if r.Get(2).Len() != 0 {
		t.Error("Reset did not discard every session")
	}
}
