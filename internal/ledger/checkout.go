package ledger

import (
	"context"
	"fmt"

	"github.com/mmynk/glasspos/internal/calculator"
	"github.com/mmynk/glasspos/internal/metrics"
	"github.com/mmynk/glasspos/internal/models"
)

// CheckoutState is the state of a checkout transaction.
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateCommitting
	StateCommitted
	StateRejected
)

func (s CheckoutState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCommitting:
		return "committing"
	case StateCommitted:
		return "committed"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("CheckoutState(%d)", int(s))
	}
}

// Cart is the session a checkout consumes.
type Cart interface {
	Lines() []models.CartLine
	Clear()
}

// Cashier is the user ringing up a sale.
type Cashier struct {
	UserID int
	Name   string
}

// Checkout converts one cart into one sale. A Checkout is single-use.
type Checkout struct {
	store   *Store
	cart    Cart
	cashier Cashier
	state   CheckoutState
	sale    *models.Sale
	err     error
}

// NewCheckout prepares a checkout of cart rung up by cashier.
func (s *Store) NewCheckout(cart Cart, cashier Cashier) *Checkout {
	return &Checkout{store: s, cart: cart, cashier: cashier}
}

// Checkout commits the cart in one step.
func (s *Store) Checkout(ctx context.Context, cart Cart, cashier Cashier) (*models.Sale, error) {
	return s.NewCheckout(cart, cashier).Commit(ctx)
}

// State returns the current state.
func (c *Checkout) State() CheckoutState {
	return c.state
}

// Sale returns the committed sale, or nil.
func (c *Checkout) Sale() *models.Sale {
	return c.sale
}

// Commit runs Idle → Committing → Committed (or Rejected).
//
// Under the ledger lock it reads the cart, computes the total, allocates the
// sale ID, decrements stock for every line, records one OUT entry per line
// with reason "Sale", prepends the sale, persists, and clears the cart. The
// mutation event fires only after the cart is cleared.
//
// An empty cart is rejected with ErrEmptyCart. A line whose product is gone
// or whose quantity exceeds current stock rejects the whole checkout.
func (c *Checkout) Commit(ctx context.Context) (*models.Sale, error) {
	if c.state != StateIdle {
		return c.sale, ErrCheckoutFinished
	}
	c.state = StateCommitting
	s := c.store

	var sale models.Sale
	err := s.mutate(ctx, "checkout", func(next *models.Snapshot) error {
		lines := c.cart.Lines()
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		wanted, err := calculator.QuantitiesByProduct(lines)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProduct, err)
		}
		for id, qty := range wanted {
			i := next.ProductIndex(id)
			if i < 0 {
				return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
			}
			if next.Products[i].Stock < qty {
				return fmt.Errorf("%w: %s has %d, cart wants %d",
					ErrInsufficientStock, next.Products[i].Name, next.Products[i].Stock, qty)
			}
		}

		now := s.now().UTC()
		sale = models.Sale{
			ID:        s.newSaleID(),
			Date:      now,
			Items:     lines,
			Total:     calculator.Total(lines),
			Cashier:   c.cashier.Name,
			CashierID: c.cashier.UserID,
		}

		logs := make([]models.StockLogEntry, 0, len(lines))
		for _, line := range lines {
			i := next.ProductIndex(line.ProductID)
			next.Products[i].Stock -= line.Quantity
			entry := s.newLogEntry(line.Name, -line.Quantity, ReasonSale)
			entry.Date = now
			logs = append(logs, entry)
		}
		next.StockLog = append(logs, next.StockLog...)
		next.Sales = append([]models.Sale{sale}, next.Sales...)
		return nil
	}, c.cart.Clear)

	if err != nil {
		c.state = StateRejected
		c.err = err
		result := "error"
		if IsRejection(err) {
			result = "rejected"
		}
		metrics.Checkouts.WithLabelValues(result).Inc()
		s.logger.Warn("Checkout rejected", "cashier_id", c.cashier.UserID, "error", err)
		return nil, err
	}

	c.state = StateCommitted
	metrics.Checkouts.WithLabelValues("committed").Inc()
	metrics.Revenue.Add(sale.Total.InexactFloat64())
	s.logger.Info("Checkout committed",
		"sale_id", sale.ID,
		"total", sale.Total.StringFixed(2),
		"lines", len(sale.Items),
		"cashier_id", c.cashier.UserID,
	)

	out := sale
	out.Items = append([]models.CartLine(nil), sale.Items...)
	c.sale = &out
	return c.sale, nil
}

// Err returns the rejection reason, if any.
func (c *Checkout) Err() error {
	return c.err
}
