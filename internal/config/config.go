// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Session store (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. The write timeout has to cover one dashboard render,
	// which fetches every followed line serially; see DashboardFetchBudget.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Sessions
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"railwatch_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Status fetcher
	StatusFetchTimeout time.Duration `env:"STATUS_FETCH_TIMEOUT" envDefault:"10s"`
	StatusUserAgent    string        `env:"STATUS_USER_AGENT" envDefault:"railwatch/0.1"`
	StatusMarkerTag    string        `env:"STATUS_MARKER_TAG" envDefault:"dd"`
	StatusMarkerClass  string        `env:"STATUS_MARKER_CLASS" envDefault:"trouble"`
	StatusMaxBodyBytes int64         `env:"STATUS_MAX_BODY_BYTES" envDefault:"5242880"`

	// Total time one dashboard may spend fetching. Lines still pending when
	// it runs out are shown as unreachable. Must stay below WRITE_TIMEOUT.
	DashboardFetchBudget time.Duration `env:"DASHBOARD_FETCH_BUDGET" envDefault:"50s"`

	// Bootstrap user ensured at startup. Empty username disables it.
	BootstrapUsername string `env:"BOOTSTRAP_USERNAME"`
	BootstrapPassword string `env:"BOOTSTRAP_PASSWORD"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Bootstrap returns the credentials of the user to ensure at startup.
// In development the well-known test identity is used when nothing is set.
func (c *Config) Bootstrap() (username, password string, ok bool) {
	if c.BootstrapUsername != "" {
		return c.BootstrapUsername, c.BootstrapPassword, c.BootstrapPassword != ""
	}
	if c.IsDevelopment() {
		return "testuser", "password123", true
	}
	return "", "", false
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.StatusFetchTimeout <= 0 {
		return nil, fmt.Errorf("STATUS_FETCH_TIMEOUT must be positive, got %s", cfg.StatusFetchTimeout)
	}
	if cfg.DashboardFetchBudget <= 0 || cfg.DashboardFetchBudget >= cfg.WriteTimeout {
		return nil, fmt.Errorf("DASHBOARD_FETCH_BUDGET must be positive and below WRITE_TIMEOUT (%s), got %s",
			cfg.WriteTimeout, cfg.DashboardFetchBudget)
	}
	return cfg, nil
}
