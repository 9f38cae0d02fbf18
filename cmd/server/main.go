package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/glasspos/internal/auth"
	"github.com/mmynk/glasspos/internal/cart"
	"github.com/mmynk/glasspos/internal/cloudsync"
	"github.com/mmynk/glasspos/internal/config"
	"github.com/mmynk/glasspos/internal/ledger"
	"github.com/mmynk/glasspos/internal/service"
	"github.com/mmynk/glasspos/internal/storage"
	"github.com/mmynk/glasspos/internal/storage/bolt"
	"github.com/mmynk/glasspos/internal/storage/memory"
	"github.com/mmynk/glasspos/internal/storage/sqlite"
	"github.com/mmynk/glasspos/pkg/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("POS_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logFile := logging.SetupWithOptions(logging.Options{
		Level: logging.ParseLevel(cfg.Log.Level),
		File:  cfg.Log.File,
	})
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		logFile.Close()
		os.Exit(1)
	}
}

func openStorage(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Path)
	case config.DriverBolt:
		return bolt.New(cfg.Path)
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func jwtSecret(configured string) string {
	if configured != "" {
		return configured
	}
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	slog.Warn("POS_JWT_SECRET not set, using a random secret; sessions end on restart")
	return hex.EncodeToString(buf)
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver, "path", cfg.Storage.Path)

	node, err := snowflake.NewNode(cfg.NodeID)
	if err != nil {
		return fmt.Errorf("failed to create id node: %w", err)
	}

	// A corrupt local document stops startup rather than being overwritten.
	ledgerStore, err := ledger.Open(ctx, store, ledger.WithNode(node))
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}

	adapter, err := cloudsync.New(ctx, ledgerStore, store,
		cloudsync.WithDebounce(cfg.Sync.Debounce),
		cloudsync.WithWorkers(cfg.Sync.Workers),
		cloudsync.WithGistAPI(cfg.Sync.GistAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	defer adapter.Close()
	if err := adapter.Attach(ledgerStore.Bus()); err != nil {
		return fmt.Errorf("failed to attach sync: %w", err)
	}
	slog.Info("Sync adapter ready", "provider", adapter.Config().Provider, "enabled", adapter.Config().Enabled())

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := service.NewServer(service.Deps{
		Ledger:        ledgerStore,
		Carts:         cart.NewRegistry(),
		Authenticator: auth.NewPasswordAuthenticator(ledgerStore),
		JWTManager:    auth.NewJWTManager(jwtSecret(cfg.Auth.JWTSecret), cfg.Auth.TokenTTL),
		Sync:          adapter,
		Location:      loc,
		Logger:        slog.Default(),
	})

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(srv.Routes(), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("HTTP server starting", "address", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
