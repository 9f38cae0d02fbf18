// Package ledger holds the authoritative point-of-sale state and the only
// code paths allowed to mutate it: stock adjustments, checkout, and the
// catalog/user/profile edits.
//
// Every mutation is applied to a clone of the current snapshot, persisted as
// a whole document, and only then swapped in. Readers never observe a
// partially applied mutation, and a failed persist leaves the previous state
// in place. After each committed mutation the store publishes TopicMutated on
// its event bus; the remote sync adapter listens there.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"

	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

// TopicMutated is published with the operation name after every committed mutation.
const TopicMutated = "ledger:mutated"

// Field names a whole top-level section of the snapshot for Replace.
type Field string

const (
	FieldProducts Field = "products"
	FieldUsers    Field = "users"
	FieldSales    Field = "sales"
	FieldStockLog Field = "stockLog"
	FieldProfile  Field = "profile"
)

// Store is the Ledger Store.
type Store struct {
	mu      sync.RWMutex
	snap    *models.Snapshot
	backend storage.Store
	bus     EventBus.Bus
	node    *snowflake.Node
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithBus sets the event bus mutations are published on.
func WithBus(bus EventBus.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

// WithNode sets the snowflake node used to allocate sale IDs.
func WithNode(node *snowflake.Node) Option {
	return func(s *Store) { s.node = node }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the ledger from backend, seeding the default document on first
// run. Legacy plaintext credentials are hashed and written back.
// A corrupt stored document is returned as an error wrapping models.ErrCorruptData.
func Open(ctx context.Context, backend storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bus == nil {
		s.bus = EventBus.New()
	}
	if s.node == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, fmt.Errorf("failed to create id node: %w", err)
		}
		s.node = node
	}

	snap, err := backend.LoadSnapshot(ctx)
	seeded := false
	switch {
	case errors.Is(err, storage.ErrNotFound):
		snap = models.DefaultSnapshot()
		seeded = true
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	upgraded, err := snap.UpgradeCredentials()
	if err != nil {
		return nil, err
	}
	if seeded || upgraded {
		if err := backend.SaveSnapshot(ctx, snap); err != nil {
			return nil, fmt.Errorf("failed to persist ledger: %w", err)
		}
	}

	s.snap = snap
	s.logger.Info("Ledger opened",
		"seeded", seeded,
		"products", len(snap.Products),
		"sales", len(snap.Sales),
	)
	return s, nil
}

// Bus returns the event bus mutations are published on.
func (s *Store) Bus() EventBus.Bus {
	return s.bus
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Products returns a copy of the catalog.
func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.Product, 0, len(s.snap.Products)), s.snap.Products...)
}

// Product looks up a product by ID.
func (s *Store) Product(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.snap.ProductIndex(id); i >= 0 {
		return s.snap.Products[i], true
	}
	return models.Product{}, false
}

// Sales returns the sales, most recent first.
func (s *Store) Sales() []models.Sale {
	return s.Snapshot().Sales
}

// Sale looks up a sale by ID.
func (s *Store) Sale(id string) (models.Sale, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sale := range s.snap.Sales {
		if sale.ID == models.ID(id) {
			sale.Items = append([]models.CartLine(nil), sale.Items...)
			return sale, true
		}
	}
	return models.Sale{}, false
}

// StockLog returns the movement log, most recent first.
func (s *Store) StockLog() []models.StockLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(make([]models.StockLogEntry, 0, len(s.snap.StockLog)), s.snap.StockLog...)
}

// Profile returns the business profile.
func (s *Store) Profile() models.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Profile
}

// Replace overwrites one whole top-level field. The value must have the
// field's exact type and the resulting snapshot must validate.
func (s *Store) Replace(ctx context.Context, field Field, value any) error {
	return s.mutate(ctx, "replace:"+string(field), func(next *models.Snapshot) error {
		ok := false
		switch field {
		case FieldProducts:
			var v []models.Product
			if v, ok = value.([]models.Product); ok {
				next.Products = append([]models.Product{}, v...)
			}
		case FieldUsers:
			var v []models.User
			if v, ok = value.([]models.User); ok {
				next.Users = append([]models.User{}, v...)
			}
		case FieldSales:
			var v []models.Sale
			if v, ok = value.([]models.Sale); ok {
				next.Sales = append([]models.Sale{}, v...)
			}
		case FieldStockLog:
			var v []models.StockLogEntry
			if v, ok = value.([]models.StockLogEntry); ok {
				next.StockLog = append([]models.StockLogEntry{}, v...)
			}
		case FieldProfile:
			var v models.BusinessProfile
			if v, ok = value.(models.BusinessProfile); ok {
				next.Profile = v
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s=%T", ErrInvalidField, field, value)
		}
		_, err := next.UpgradeCredentials()
		return err
	}, nil)
}

// ReplaceAll overwrites the entire ledger with snap. This is the destructive
// whole-document overwrite used by remote pull; there is no merge.
func (s *Store) ReplaceAll(ctx context.Context, snap *models.Snapshot) error {
	incoming := snap.Clone()
	if _, err := incoming.UpgradeCredentials(); err != nil {
		return err
	}
	if err := incoming.Validate(); err != nil {
		return fmt.Errorf("%w: %w", models.ErrCorruptData, err)
	}
	return s.mutate(ctx, "replace_all", func(next *models.Snapshot) error {
		*next = *incoming
		return nil
	}, nil)
}

// mutate applies fn to a clone of the current snapshot, validates and
// persists the clone, swaps it in and runs committed, all under the lock.
// The mutation is published after the lock is released so subscribers may
// read the store. If any step fails nothing changes, so the stored document
// always decodes.
func (s *Store) mutate(ctx context.Context, op string, fn func(next *models.Snapshot) error, committed func()) error {
	if err := s.commit(ctx, op, fn, committed); err != nil {
		return err
	}
	s.bus.Publish(TopicMutated, op)
	return nil
}

func (s *Store) commit(ctx context.Context, op string, fn func(next *models.Snapshot) error, committed func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.snap.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidField, err)
	}
	if err := s.backend.SaveSnapshot(ctx, next); err != nil {
		s.logger.Error("Failed to persist ledger", "op", op, "error", err)
		return fmt.Errorf("failed to persist ledger: %w", err)
	}
	s.snap = next
	if committed != nil {
		committed()
	}
	return nil
}

// newLogEntry builds a stock log entry stamped with the store clock.
func (s *Store) newLogEntry(productName string, delta int, reason string) models.StockLogEntry {
	qty := delta
	if qty < 0 {
		qty = -qty
	}
	return models.StockLogEntry{
		ID:          models.ID(uuid.NewString()),
		Date:        s.now().UTC(),
		Type:        models.MovementFor(delta),
		ProductName: productName,
		Qty:         qty,
		Reason:      reason,
	}
}

// newSaleID allocates a time-derived, collision-free sale ID.
func (s *Store) newSaleID() models.ID {
	return models.ID(strings.ToUpper(s.node.Generate().Base36()))
}
