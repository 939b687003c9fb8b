// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port     string `envconfig:"EATUP_SERVICE_PORT" default:"8080"`
	LogLevel string `envconfig:"EATUP_LOG_LEVEL" default:"info"`

	// --- Database ---
	PGHost     string `envconfig:"PG_HOST" default:"localhost"`
	PGPort     string `envconfig:"PG_PORT" default:"5432"`
	PGUser     string `envconfig:"POSTGRES_USER" default:"eatup"`
	PGPassword string `envconfig:"POSTGRES_PASSWORD" default:""`
	PGDatabase string `envconfig:"PG_DATABASE" default:"eatup"`

	// --- Redis ---
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`

	// --- Spin engine ---
	SpinDelay   time.Duration `envconfig:"SPIN_DELAY" default:"3s"`
	CatalogSeed int64         `envconfig:"CATALOG_SEED" default:"0"`

	// --- Auth ---
	TokenExpireTime string `envconfig:"TOKEN_EXPIRE_TIME" default:"never"`
}

// DatabaseURL returns the postgres connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PGUser, c.PGPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
