// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the server.
type Config struct {
	AppAddr string `envconfig:"APP_ADDR" default:":8080"`

	// DBPath is the sqlite database file. ":memory:" selects the in-process store.
	DBPath string `envconfig:"DB_PATH" default:"./data/events.db"`

	VATRate         float64 `envconfig:"VAT_RATE" default:"0.18"`
	SaveConcurrency int     `envconfig:"SAVE_CONCURRENCY" default:"8"`

	// RedisAddr enables the catalog cache when set.
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"5m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// MemoryDB is the DB_PATH value that selects the in-process store.
const MemoryDB = ":memory:"

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges envconfig cannot express.
func (c *Config) Validate() error {
	if c.VATRate < 0 || c.VATRate >= 1 {
		return errors.New("VAT_RATE must be in [0, 1)")
	}
	if c.SaveConcurrency < 1 {
		return errors.New("SAVE_CONCURRENCY must be at least 1")
	}
	if c.RedisAddr != "" && c.CatalogCacheTTL <= 0 {
		return errors.New("CATALOG_CACHE_TTL must be positive when REDIS_ADDR is set")
	}
	return nil
}

// CacheEnabled reports whether the catalog should be cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
