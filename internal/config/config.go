// Package config loads server configuration. Precedence, lowest to highest:
// built-in defaults, an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/SANNNNN-123/threeDials/internal/game"
	"github.com/SANNNNN-123/threeDials/internal/service"
	"github.com/SANNNNN-123/threeDials/internal/store"
)

// Store backend names accepted by Config.Store.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the full server configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `env:"THREEDIALS_LISTEN" yaml:"listen"`

	// Store selects the backend: memory, sqlite, or redis.
	Store string `env:"THREEDIALS_STORE" yaml:"store"`

	RedisAddr     string `env:"THREEDIALS_REDIS_ADDR" yaml:"redis_addr"`
	RedisPassword string `env:"THREEDIALS_REDIS_PASSWORD" yaml:"redis_password"`
	RedisDB       int    `env:"THREEDIALS_REDIS_DB" yaml:"redis_db"`

	SQLitePath string `env:"THREEDIALS_SQLITE_PATH" yaml:"sqlite_path"`

	SessionTTL      time.Duration `env:"THREEDIALS_SESSION_TTL" yaml:"session_ttl"`
	QuietWindow     time.Duration `env:"THREEDIALS_QUIET_WINDOW" yaml:"quiet_window"`
	ResetDelay      time.Duration `env:"THREEDIALS_RESET_DELAY" yaml:"reset_delay"`
	LeaderboardSize int           `env:"THREEDIALS_LEADERBOARD_SIZE" yaml:"leaderboard_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:          ":8080",
		Store:           StoreMemory,
		RedisAddr:       "localhost:6379",
		SQLitePath:      "threedials.db",
		SessionTTL:      store.SessionTTL,
		QuietWindow:     game.DefaultQuietWindow,
		ResetDelay:      game.DefaultResetDelay,
		LeaderboardSize: service.DefaultTopN,
	}
}

// Load builds the configuration. path names an optional YAML file; empty
// means no file. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}

	switch c.Store {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("sqlite store requires a database path")
		}
	case StoreRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("redis store requires an address")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session ttl must be positive")
	}
	if c.QuietWindow <= 0 {
		return fmt.Errorf("quiet window must be positive")
	}
	if c.ResetDelay <= 0 {
		return fmt.Errorf("reset delay must be positive")
	}
	if c.LeaderboardSize <= 0 {
		return fmt.Errorf("leaderboard size must be positive")
	}
	return nil
}
