// Package storagetest holds behavior tests shared by every storage.Store
// implementation.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

// Run exercises store against the storage.Store contract. putRaw writes
// bytes under a key without validation, used to plant corrupt documents.
func Run(t *testing.T, store storage.Store, putRaw func(key string, data []byte)) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty store reports not found", func(t *testing.T) {
		if _, err := store.LoadSnapshot(ctx); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("LoadSnapshot() error = %v, want ErrNotFound", err)
		}
		if _, err := store.LoadSyncConfig(ctx); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("LoadSyncConfig() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("snapshot survives a save and load", func(t *testing.T) {
		snap := models.DefaultSnapshot()
		snap.Products[0].Stock = 7
		snap.Products[0].Price = decimal.RequireFromString("15.50")
		if _, err := snap.UpgradeCredentials(); err != nil {
			t.Fatalf("UpgradeCredentials() error = %v", err)
		}

		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
		got, err := store.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("LoadSnapshot() error = %v", err)
		}

		if len(got.Products) != len(snap.Products) {
			t.Fatalf("loaded %d products, want %d", len(got.Products), len(snap.Products))
		}
		if got.Products[0].Stock != 7 {
			t.Errorf("stock = %d, want 7", got.Products[0].Stock)
		}
		if !got.Products[0].Price.Equal(snap.Products[0].Price) {
			t.Errorf("price = %s, want %s", got.Products[0].Price, snap.Products[0].Price)
		}
		if got.Profile != snap.Profile {
			t.Errorf("profile = %+v, want %+v", got.Profile, snap.Profile)
		}
	})

	t.Run("save replaces the whole document", func(t *testing.T) {
		snap := models.DefaultSnapshot()
		snap.Products = snap.Products[:1]
		if _, err := snap.UpgradeCredentials(); err != nil {
			t.Fatal(err)
		}
		if err := store.SaveSnapshot(ctx, snap); err != nil {
			t.Fatalf("SaveSnapshot() error = %v", err)
		}
		got, err := store.LoadSnapshot(ctx)
		if err != nil {
			t.Fatalf("LoadSnapshot() error = %v", err)
		}
		if len(got.Products) != 1 {
			t.Errorf("loaded %d products, want 1", len(got.Products))
		}
	})

	t.Run("sync config is stored separately", func(t *testing.T) {
		cfg := &models.RemoteSyncConfig{Provider: models.ProviderGist, Token: "tok", GistID: "abc"}
		if err := store.SaveSyncConfig(ctx, cfg); err != nil {
			t.Fatalf("SaveSyncConfig() error = %v", err)
		}
		got, err := store.LoadSyncConfig(ctx)
		if err != nil {
			t.Fatalf("LoadSyncConfig() error = %v", err)
		}
		if *got != *cfg {
			t.Errorf("LoadSyncConfig() = %+v, want %+v", got, cfg)
		}
		if _, err := store.LoadSnapshot(ctx); err != nil {
			t.Errorf("ledger document affected by sync config write: %v", err)
		}
	})

	t.Run("corrupt document is reported", func(t *testing.T) {
		putRaw(storage.KeyLedger, []byte(`{"products": "not a list"`))
		_, err := store.LoadSnapshot(ctx)
		if !errors.Is(err, models.ErrCorruptData) {
			t.Errorf("LoadSnapshot() error = %v, want ErrCorruptData", err)
		}
	})

	t.Run("document failing validation is reported", func(t *testing.T) {
		putRaw(storage.KeyLedger, []byte(`{"products":[{"id":1,"name":"A","price":"1","stock":-3}],"users":[],"sales":[],"stockLog":[],"profile":{}}`))
		_, err := store.LoadSnapshot(ctx)
		if !errors.Is(err, models.ErrCorruptData) {
			t.Errorf("LoadSnapshot() error = %v, want ErrCorruptData", err)
		}
	})
}
