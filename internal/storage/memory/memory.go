// Package memory provides an in-process storage.Store. Documents are kept in
// their encoded form so loads go through the same validation as disk stores.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type Store struct {
	mu    sync.RWMutex
	docs  map[string][]byte
	saves int
}

func New() *Store {
	return &Store{docs: make(map[string][]byte)}
}

func (s *Store) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	data, err := s.get(storage.KeyLedger)
	if err != nil {
		return nil, err
	}
	return models.DecodeSnapshot(data)
}

func (s *Store) SaveSnapshot(_ context.Context, snap *models.Snapshot) error {
	data, err := models.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[storage.KeyLedger] = data
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *Store) LoadSyncConfig(_ context.Context) (*models.RemoteSyncConfig, error) {
	data, err := s.get(storage.KeySyncConfig)
	if err != nil {
		return nil, err
	}
	return models.DecodeSyncConfig(data)
}

func (s *Store) SaveSyncConfig(_ context.Context, cfg *models.RemoteSyncConfig) error {
	data, err := models.EncodeSyncConfig(cfg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[storage.KeySyncConfig] = data
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }

// Raw returns the encoded document stored under key.
func (s *Store) Raw(key string) []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]byte(nil), s.docs[key]...)
}

// SetRaw stores bytes under key without validation.
func (s *Store) SetRaw(key string, data []byte) {
	s.mu.Lock()
	s.docs[key] = append([]byte(nil), data...)
	s.mu.Unlock()
}

// Saves returns how many times the ledger document was written.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func (s *Store) get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.docs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}
