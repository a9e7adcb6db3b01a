// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const minSecretLength = 32

// Config contains server configuration parameters.
type Config struct {
	Port            string        `env:"PORT" envDefault:"5000"`
	LogLevel        slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	Database        Database      `envPrefix:"DATABASE_"`
	Auth            Auth
	HTTP            HTTP
}

// Database selects the store backend and how to reach it.
type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN" envDefault:"relief.db"`
}

// Auth contains password hashing and token parameters.
type Auth struct {
	JWTSecret   string        `env:"JWT_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
	RequireAuth bool          `env:"REQUIRE_AUTH" envDefault:"false"`
}

// HTTP contains cross-cutting request handling parameters.
type HTTP struct {
	AllowedOrigins       []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LoginRateLimitPerMin int      `env:"RATE_LIMIT_LOGIN_PER_MINUTE" envDefault:"0"`
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// NewConfig loads configuration from environment variables and validates it.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters for HMAC-SHA256 security", minSecretLength))
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.Auth.BcryptCost))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL))
	}
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Database.Driver))
	}
	if c.HTTP.LoginRateLimitPerMin < 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_LOGIN_PER_MINUTE must not be negative"))
	}

	return errors.Join(errs...)
}
