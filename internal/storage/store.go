// Package storage provides abstractions for local durable storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/glasspos/internal/models"
)

// Keys under which the two durable documents are stored.
const (
	KeyLedger     = "pos_data"
	KeySyncConfig = "sync_config"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: not found")

// Store defines the interface for local durable storage.
// The ledger is stored as one whole document; there is no partial write.
// This abstraction allows swapping backends (SQLite, bbolt, memory)
// without changing the ledger.
type Store interface {
	// LoadSnapshot reads and validates the ledger document.
	// Returns ErrNotFound if nothing was saved yet, or an error wrapping
	// models.ErrCorruptData if the stored document is malformed.
	LoadSnapshot(ctx context.Context) (*models.Snapshot, error)

	// SaveSnapshot replaces the stored ledger document.
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error

	// LoadSyncConfig reads the remote sync configuration.
	// Returns ErrNotFound if sync was never configured.
	LoadSyncConfig(ctx context.Context) (*models.RemoteSyncConfig, error)

	// SaveSyncConfig replaces the remote sync configuration.
	SaveSyncConfig(ctx context.Context, cfg *models.RemoteSyncConfig) error

	// Close releases any resources held by the store.
	Close() error
}
