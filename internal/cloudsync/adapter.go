package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"

	"github.com/mmynk/glasspos/internal/ledger"
	"github.com/mmynk/glasspos/internal/metrics"
	"github.com/mmynk/glasspos/internal/models"
	"github.com/mmynk/glasspos/internal/storage"
)

const (
	DefaultDebounce    = 5 * time.Second
	DefaultWorkers     = 1
	defaultPushTimeout = 30 * time.Second
)

// State is the coarse sync status shown to operators.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateError   State = "error"
)

const (
	triggerBackground = "background"
	triggerManual     = "manual"
)

// Status is a point-in-time view of the adapter.
type Status struct {
	State        State     `json:"state"`
	Provider     string    `json:"provider,omitempty"`
	Enabled      bool      `json:"enabled"`
	Online       bool      `json:"online"`
	LastError    string    `json:"lastError,omitempty"`
	LastSyncedAt time.Time `json:"lastSyncedAt,omitzero"`
}

// Ledger is the subset of the ledger store the adapter reads and overwrites.
type Ledger interface {
	Snapshot() *models.Snapshot
	ReplaceAll(ctx context.Context, snap *models.Snapshot) error
	ImportProducts(ctx context.Context, products []models.Product, reason string) (int, error)
}

// ConfigStore persists the sync configuration outside the ledger document.
type ConfigStore interface {
	LoadSyncConfig(ctx context.Context) (*models.RemoteSyncConfig, error)
	SaveSyncConfig(ctx context.Context, cfg *models.RemoteSyncConfig) error
}

// Adapter pushes the ledger to the configured remote after a quiet period
// following the last mutation, and exposes manual push and pull.
type Adapter struct {
	ledger      Ledger
	configs     ConfigStore
	client      *http.Client
	gistAPI     string
	debounce    time.Duration
	workers     int
	pushTimeout time.Duration
	logger      *slog.Logger
	pool        *ants.Pool

	pushMu sync.Mutex

	mu     sync.Mutex
	cfg    models.RemoteSyncConfig
	timer  *time.Timer
	gen    uint64
	status Status
	closed bool
}

type Option func(*Adapter)

func WithGistAPI(baseURL string) Option {
	return func(a *Adapter) { a.gistAPI = baseURL }
}

func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) { a.client = client }
}

func WithDebounce(d time.Duration) Option {
	return func(a *Adapter) { a.debounce = d }
}

func WithWorkers(n int) Option {
	return func(a *Adapter) { a.workers = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) { a.logger = logger }
}

// New loads the stored sync configuration and starts the push worker pool.
func New(ctx context.Context, l Ledger, configs ConfigStore, opts ...Option) (*Adapter, error) {
	a := &Adapter{
		ledger:      l,
		configs:     configs,
		client:      &http.Client{Timeout: defaultPushTimeout},
		gistAPI:     DefaultGistAPI,
		debounce:    DefaultDebounce,
		workers:     DefaultWorkers,
		pushTimeout: defaultPushTimeout,
		logger:      slog.Default(),
		status:      Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = DefaultWorkers
	}

	cfg, err := configs.LoadSyncConfig(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("failed to load sync config: %w", err)
	default:
		a.cfg = *cfg
	}

	pool, err := ants.NewPool(a.workers, ants.WithNonblocking(false))
	if err != nil {
		return nil, fmt.Errorf("failed to start sync workers: %w", err)
	}
	a.pool = pool
	a.refreshStatusLocked()
	return a, nil
}

// Attach subscribes the adapter to ledger mutations on bus.
func (a *Adapter) Attach(bus EventBus.Bus) error {
	return bus.Subscribe(ledger.TopicMutated, a.onMutation)
}

// Detach undoes Attach.
func (a *Adapter) Detach(bus EventBus.Bus) error {
	return bus.Unsubscribe(ledger.TopicMutated, a.onMutation)
}

func (a *Adapter) onMutation(op string) {
	a.logger.Debug("ledger mutated, scheduling sync", "op", op)
	a.Schedule()
}

// Schedule (re)starts the debounce timer. Only the last call within the
// quiet period results in a push.
func (a *Adapter) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || !a.cfg.Enabled() {
		return
	}
	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.debounce, func() { a.fire(gen) })
}

func (a *Adapter) fire(gen uint64) {
	a.mu.Lock()
	stale := a.closed || gen != a.gen
	a.mu.Unlock()
	if stale {
		return
	}

	err := a.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.pushTimeout)
		defer cancel()
		if err := a.push(ctx, triggerBackground); err != nil {
			a.logger.Warn("background sync failed", "error", err)
		}
	})
	if err != nil {
		a.logger.Warn("failed to queue background sync", "error", err)
	}
}

// PushNow pushes the current snapshot immediately and reports the outcome.
func (a *Adapter) PushNow(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	a.mu.Unlock()
	return a.push(ctx, triggerManual)
}

func (a *Adapter) push(ctx context.Context, trigger string) (err error) {
	a.pushMu.Lock()
	defer a.pushMu.Unlock()

	remote, err := a.remote()
	if err != nil {
		return err
	}

	a.setState(StateSyncing, nil)
	defer func() {
		metrics.SyncPushes.WithLabelValues(trigger, metrics.Result(err)).Inc()
		if err != nil {
			a.setState(StateError, err)
			return
		}
		a.setState(StateIdle, nil)
	}()

	if err := remote.Push(ctx, a.ledger.Snapshot()); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

// Pull overwrites the local ledger with the remote snapshot. It refuses to
// run unless confirm is set; a remote that fails validation leaves local
// state untouched.
func (a *Adapter) Pull(ctx context.Context, confirm bool) error {
	if !confirm {
		return ErrConfirmationRequired
	}
	remote, err := a.remote()
	if err != nil {
		return err
	}
	snap, err := remote.Pull(ctx)
	if err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if err := a.ledger.ReplaceAll(ctx, snap); err != nil {
		return fmt.Errorf("failed to apply remote snapshot: %w", err)
	}
	a.logger.Info("ledger replaced from remote", "provider", a.Config().Provider,
		"products", len(snap.Products), "sales", len(snap.Sales))
	return nil
}

// ImportInventory merges the remote inventory projection into the ledger.
func (a *Adapter) ImportInventory(ctx context.Context) (int, error) {
	remote, err := a.remote()
	if err != nil {
		return 0, err
	}
	src, ok := remote.(InventorySource)
	if !ok {
		return 0, ErrUnsupported
	}
	products, err := src.PullInventory(ctx)
	if err != nil {
		return 0, fmt.Errorf("inventory pull failed: %w", err)
	}
	return a.ledger.ImportProducts(ctx, products, ledger.ReasonImport)
}

// CreateRemote creates a new gist seeded with the current snapshot and
// stores the resulting configuration.
func (a *Adapter) CreateRemote(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: token is required", ErrNotConfigured)
	}
	gist := NewGistStore(a.client, a.gistAPI, token, "")
	id, err := gist.Create(ctx, a.ledger.Snapshot())
	if err != nil {
		return "", err
	}
	cfg := models.RemoteSyncConfig{Provider: models.ProviderGist, Token: token, GistID: id}
	if err := a.Configure(ctx, cfg); err != nil {
		return "", err
	}
	return id, nil
}

// Configure validates and persists cfg. A zero Provider disables sync.
func (a *Adapter) Configure(ctx context.Context, cfg models.RemoteSyncConfig) error {
	if cfg.Provider != "" && !cfg.Enabled() {
		return fmt.Errorf("%w: incomplete %s configuration", ErrNotConfigured, cfg.Provider)
	}
	if err := a.configs.SaveSyncConfig(ctx, &cfg); err != nil {
		return fmt.Errorf("failed to save sync config: %w", err)
	}

	a.mu.Lock()
	a.cfg = cfg
	if !cfg.Enabled() && a.timer != nil {
		a.timer.Stop()
		a.gen++
	}
	a.status.LastError = ""
	a.status.State = StateIdle
	a.refreshStatusLocked()
	a.mu.Unlock()
	return nil
}

// Config returns the active sync configuration.
func (a *Adapter) Config() models.RemoteSyncConfig {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Status returns the current sync status.
func (a *Adapter) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Close stops the debounce timer. A change still inside its quiet period is
// pushed once before Close returns, and pushes already queued get up to the
// push timeout to finish.
func (a *Adapter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	pending := a.timer != nil && a.timer.Stop()
	a.gen++
	a.mu.Unlock()

	if pending {
		ctx, cancel := context.WithTimeout(context.Background(), a.pushTimeout)
		if err := a.push(ctx, triggerBackground); err != nil {
			a.logger.Warn("final sync before shutdown failed", "error", err)
		}
		cancel()
	}
	if err := a.pool.ReleaseTimeout(a.pushTimeout); err != nil {
		a.logger.Warn("sync workers still busy at shutdown", "error", err)
	}
}

func (a *Adapter) remote() (Remote, error) {
	cfg := a.Config()
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	switch cfg.Provider {
	case models.ProviderGist:
		return NewGistStore(a.client, a.gistAPI, cfg.Token, cfg.GistID), nil
	case models.ProviderSheets:
		return NewSheetsStore(a.client, cfg.EndpointURL), nil
	default:
		return nil, ErrNotConfigured
	}
}

func (a *Adapter) setState(state State, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status.State = state
	switch {
	case err != nil:
		a.status.LastError = err.Error()
		a.status.Online = false
	case state == StateIdle:
		a.status.LastError = ""
		a.status.Online = true
		a.status.LastSyncedAt = time.Now().UTC()
	}
	a.refreshStatusLocked()
}

func (a *Adapter) refreshStatusLocked() {
	a.status.Provider = string(a.cfg.Provider)
	a.status.Enabled = a.cfg.Enabled()
	switch a.status.State {
	case StateSyncing:
		metrics.SyncState.Set(1)
	case StateError:
		metrics.SyncState.Set(2)
	default:
		metrics.SyncState.Set(0)
	}
}
