// Package store persists the game's state as string values under fixed keys.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"vpet/internal/logger"
)

// ErrQuotaExceeded is returned by Save when a value is larger than the
// store allows
var ErrQuotaExceeded = errors.New("store quota exceeded")

// Store is a string key-value store
type Store interface {
	// Load returns the value under key. found is false when no value exists.
	Load(ctx context.Context, key string) (value string, found bool, err error)
	Save(ctx context.Context, key, value string) error
	Close() error
}

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config selects and configures a store driver
type Config struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	RedisURL string `mapstructure:"redis_url"`
	Prefix   string `mapstructure:"prefix"`
	MaxBytes int    `mapstructure:"max_bytes"`
}

// DefaultConfig stores state as JSON files in the user's config directory
func DefaultConfig() Config {
	return Config{
		Driver: DriverFile,
		Path:   DefaultDir(),
		Prefix: "vpet",
	}
}

// DefaultDir returns ~/.config/vpet, or a relative directory when the home
// directory is unknown
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vpet"
	}
	return filepath.Join(home, ".config", "vpet")
}

// Validate checks the driver name and its required settings
func (c Config) Validate() error {
	errb := oops.Code("INVALID_STORE_CONFIG").In("store")
	switch c.Driver {
	case DriverFile, DriverSQLite:
		if c.Path == "" {
			return errb.Errorf("store driver %q requires a path", c.Driver)
		}
	case DriverRedis:
		if c.RedisURL == "" {
			return errb.Errorf("store driver %q requires redis_url", c.Driver)
		}
	case DriverMemory:
	default:
		return errb.Errorf("unknown store driver %q", c.Driver)
	}
	if c.MaxBytes < 0 {
		return errb.Errorf("max_bytes must not be negative, got %d", c.MaxBytes)
	}
	return nil
}

// Open creates the store named by cfg.Driver
func Open(ctx context.Context, cfg Config, log *zap.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log = logger.WithComponent(log, "store").With(zap.String("driver", cfg.Driver))

	var (
		s   Store
		err error
	)
	switch cfg.Driver {
	case DriverFile:
		s, err = NewFileStore(cfg.Path, cfg.MaxBytes)
	case DriverSQLite:
		s, err = OpenSQLite(ctx, cfg.Path, cfg.MaxBytes)
	case DriverRedis:
		s, err = OpenRedis(ctx, cfg.RedisURL, cfg.Prefix, cfg.MaxBytes)
	case DriverMemory:
		s = NewMemoryStore(cfg.MaxBytes)
	}
	if err != nil {
		return nil, err
	}

	log.Info("store opened", zap.String("path", cfg.Path), zap.Int("max_bytes", cfg.MaxBytes))
	return s, nil
}

func checkQuota(key, value string, maxBytes int) error {
	if maxBytes > 0 && len(value) > maxBytes {
		return oops.Code("STORE_QUOTA").In("store").
			With("key", key, "size", len(value), "max_bytes", maxBytes).
			Wrapf(ErrQuotaExceeded, "saving %q", key)
	}
	return nil
}
