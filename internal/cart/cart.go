// Package cart holds the ephemeral per-login working set of line items.
// A session never touches ledger stock; stock moves only at checkout.
package cart

import (
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/calculator"
	"github.com/mmynk/glasspos/internal/models"
)

var (
	ErrOutOfStock   = errors.New("cart: product out of stock")
	ErrLineNotFound = errors.New("cart: line not found")
)

// Session is one operator's cart. Lines are kept in insertion order and
// every line has a quantity of at least one.
type Session struct {
	mu    sync.Mutex
	lines []models.CartLine
}

// NewSession returns an empty cart.
func NewSession() *Session {
	return &Session{}
}

// AddOrIncrement adds one unit of the product. An existing line is
// incremented; otherwise a new line with quantity 1 is appended.
// Products with no stock are rejected with ErrOutOfStock.
func (s *Session) AddOrIncrement(p models.Product) error {
	if !p.InStock() {
		return ErrOutOfStock
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == p.ID {
			s.lines[i].Quantity++
			return nil
		}
	}
	s.lines = append(s.lines, models.LineFromProduct(p, 1))
	return nil
}

// UpdateQuantity applies delta to the line for productID. The result is
// clamped at zero and a line reaching zero is removed.
func (s *Session) UpdateQuantity(productID, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID != productID {
			continue
		}
		qty := s.lines[i].Quantity + delta
		if qty <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
		s.lines[i].Quantity = qty
		return nil
	}
	return ErrLineNotFound
}

// Remove drops the line for productID entirely.
func (s *Session) Remove(productID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Clear empties the session.
func (s *Session) Clear() {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()
}

// Lines returns a copy of the current lines.
func (s *Session) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(make([]models.CartLine, 0, len(s.lines)), s.lines...)
}

// Len returns the number of distinct lines.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Total returns Σ price × quantity, computed fresh on every call.
func (s *Session) Total() decimal.Decimal {
	return calculator.Total(s.Lines())
}

// ItemCount returns the number of units in the cart.
func (s *Session) ItemCount() int {
	return calculator.ItemCount(s.Lines())
}
