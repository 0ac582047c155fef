// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and CLUB_ environment variables over the defaults.
// - Errors wrap this package's sentinels so callers can use errors.Is.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/clubrank/internal/adapters/repository"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver picks the record store: badger, postgres or memory.
	StorageDriver string `koanf:"storage_driver"`

	// BadgerPath is the data directory of the embedded store.
	BadgerPath string `koanf:"badger_path"`

	// PostgresDSN is used when StorageDriver is postgres.
	PostgresDSN string `koanf:"postgres_dsn"`

	// Redis holds revoked session tokens when RedisAddr is set; otherwise
	// revocations live in process memory.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// AdminEmail and AdminPasswordHash (bcrypt) define the single admin
	// account. Leaving either empty disables sign-in.
	AdminEmail        string `koanf:"admin_email"`
	AdminPasswordHash string `koanf:"admin_password_hash"`

	// JWTSecret signs session tokens.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTTL is the lifetime of an admin session.
	SessionTTL time.Duration `koanf:"session_ttl"`

	// RequestTimeout bounds each API request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		StorageDriver:  repository.DriverBadger,
		BadgerPath:     "data/badger",
		SessionTTL:     12 * time.Hour,
		RequestTimeout: 10 * time.Second,
	}
}

// AdminConfigured reports whether an admin account is set up.
func (c *Config) AdminConfigured() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

// StorageTarget returns the path or DSN for the selected driver.
func (c *Config) StorageTarget() string {
	switch c.StorageDriver {
	case repository.DriverBadger:
		return c.BadgerPath
	case repository.DriverPostgres:
		return c.PostgresDSN
	default:
		return ""
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StorageDriver == repository.DriverBadger && c.BadgerPath == "":
		return fmt.Errorf("%w: badger_path is required for the badger driver", ErrInvalidConfig)
	case c.StorageDriver == repository.DriverPostgres && c.PostgresDSN == "":
		return fmt.Errorf("%w: postgres_dsn is required for the postgres driver", ErrInvalidConfig)
	case c.StorageDriver != repository.DriverBadger &&
		c.StorageDriver != repository.DriverPostgres &&
		c.StorageDriver != repository.DriverMemory:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	case c.AdminConfigured() && c.JWTSecret == "":
		return fmt.Errorf("%w: jwt_secret is required when an admin account is configured", ErrInvalidConfig)
	case c.SessionTTL <= 0:
		return fmt.Errorf("%w: session_ttl must be positive", ErrInvalidConfig)
	case c.RequestTimeout < 0:
		return fmt.Errorf("%w: request_timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}
