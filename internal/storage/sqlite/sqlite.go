// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using a single key/value table.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every mutation rewrites the document; WAL keeps readers unblocked.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadSnapshot reads the ledger document.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	data, err := s.get(ctx, storage.KeyLedger)
	if err != nil {
		return nil, err
	}
	return models.DecodeSnapshot(data)
}

// SaveSnapshot writes the whole ledger document.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	data, err := models.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.put(ctx, storage.KeyLedger, data)
}

// LoadSyncConfig reads the remote sync configuration.
func (s *SQLiteStore) LoadSyncConfig(ctx context.Context) (*models.RemoteSyncConfig, error) {
	data, err := s.get(ctx, storage.KeySyncConfig)
	if err != nil {
		return nil, err
	}
	return models.DecodeSyncConfig(data)
}

// SaveSyncConfig writes the remote sync configuration.
func (s *SQLiteStore) SaveSyncConfig(ctx context.Context, cfg *models.RemoteSyncConfig) error {
	data, err := models.EncodeSyncConfig(cfg)
	if err != nil {
		return err
	}
	return s.put(ctx, storage.KeySyncConfig, data)
}

func (s *SQLiteStore) get(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM documents WHERE key = ?",
		key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (s *SQLiteStore) put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}
