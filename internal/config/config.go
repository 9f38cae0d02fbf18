// Package config loads server settings from defaults, an optional YAML file,
// .env files and the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

type Config struct {
	Addr     string        `yaml:"addr"`
	Storage  StorageConfig `yaml:"storage"`
	Auth     AuthConfig    `yaml:"auth"`
	Sync     SyncConfig    `yaml:"sync"`
	Log      LogConfig     `yaml:"log"`
	NodeID   int64         `yaml:"node_id"`
	Timezone string        `yaml:"timezone"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type SyncConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	Workers  int           `yaml:"workers"`
	GistAPI  string        `yaml:"gist_api"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr: ":8080",
		Storage: StorageConfig{
			Driver: DriverSQLite,
			Path:   "./data/pos.db",
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Sync: SyncConfig{
			Debounce: 5 * time.Second,
			Workers:  1,
			GistAPI:  "https://api.github.com",
		},
		Log: LogConfig{
			Level: "info",
		},
		NodeID:   1,
		Timezone: "Local",
	}
}

// Load builds the configuration. path may be empty; a missing .env is ignored.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("POS_ADDR", &c.Addr)
	str("POS_STORAGE_DRIVER", &c.Storage.Driver)
	str("POS_DB_PATH", &c.Storage.Path)
	str("POS_JWT_SECRET", &c.Auth.JWTSecret)
	str("POS_GIST_API", &c.Sync.GistAPI)
	str("POS_TIMEZONE", &c.Timezone)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FILE", &c.Log.File)

	if v := getenv("POS_TOKEN_TTL"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("invalid POS_TOKEN_TTL: %w", err)
		}
		c.Auth.TokenTTL = d
	}
	if v := getenv("POS_SYNC_DEBOUNCE"); v != "" {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return fmt.Errorf("invalid POS_SYNC_DEBOUNCE: %w", err)
		}
		c.Sync.Debounce = d
	}
	if v := getenv("POS_SYNC_WORKERS"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("invalid POS_SYNC_WORKERS: %w", err)
		}
		c.Sync.Workers = n
	}
	if v := getenv("POS_NODE_ID"); v != "" {
		n, err := cast.ToInt64E(v)
		if err != nil {
			return fmt.Errorf("invalid POS_NODE_ID: %w", err)
		}
		c.NodeID = n
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverBolt:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage path is required for driver %q", c.Storage.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	if c.Sync.Debounce < 0 {
		return fmt.Errorf("sync debounce must not be negative")
	}
	if c.Sync.Workers < 1 {
		return fmt.Errorf("sync workers must be at least 1")
	}
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("node id must be between 0 and 1023")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone for rendering dates on documents.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
