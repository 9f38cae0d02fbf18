// Package bolt provides a bbolt-backed implementation of the storage.Store interface.
package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

var _ storage.Store = (*BoltStore)(nil)

var bucketName = []byte("pos")

// BoltStore keeps each document as one key in a single bucket.
type BoltStore struct {
	db *bolt.DB
}

// New opens (or creates) the bbolt file at path.
func New(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	data, err := s.get(storage.KeyLedger)
	if err != nil {
		return nil, err
	}
	return models.DecodeSnapshot(data)
}

func (s *BoltStore) SaveSnapshot(_ context.Context, snap *models.Snapshot) error {
	data, err := models.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.put(storage.KeyLedger, data)
}

func (s *BoltStore) LoadSyncConfig(_ context.Context) (*models.RemoteSyncConfig, error) {
	data, err := s.get(storage.KeySyncConfig)
	if err != nil {
		return nil, err
	}
	return models.DecodeSyncConfig(data)
}

func (s *BoltStore) SaveSyncConfig(_ context.Context, cfg *models.RemoteSyncConfig) error {
	data, err := models.EncodeSyncConfig(cfg)
	if err != nil {
		return err
	}
	return s.put(storage.KeySyncConfig, data)
}

func (s *BoltStore) get(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v == nil {
			return storage.ErrNotFound
		}
		// v is only valid inside the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *BoltStore) put(key string, data []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}
