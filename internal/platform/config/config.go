// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the backoffice API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Startup connection policy shared by PostgreSQL and Redis.
	StoreConnectAttempts int           `env:"STORE_CONNECT_ATTEMPTS" envDefault:"3"`
	StoreConnectDelay    time.Duration `env:"STORE_CONNECT_DELAY"    envDefault:"5s"`

	// Key-Value Cache (Redis)
	RedisURL           string        `env:"REDIS_URL,required"`
	AssignmentCacheTTL time.Duration `env:"ASSIGNMENT_CACHE_TTL" envDefault:"5m"`

	// Token signing. Access and refresh tokens never share a secret.
	JWTAccessSecret  string        `env:"JWT_ACCESS_SECRET,required"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET,required"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// Initial administrator, created at startup when no live account owns the email.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	// MaxLoginAttempts is the number of consecutive wrong passwords before the account is blocked.
	MaxLoginAttempts int `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`

	// DefaultLocale is used when a request carries no usable Accept-Language.
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"en"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate rejects combinations the env tags cannot express.
func (c *Config) validate() error {
	if c.JWTAccessSecret == c.JWTRefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.StoreConnectAttempts < 1 {
		return errors.New("STORE_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.StoreConnectDelay <= 0 {
		return errors.New("STORE_CONNECT_DELAY must be positive")
	}
	if c.MaxLoginAttempts < 1 {
		return errors.New("MAX_LOGIN_ATTEMPTS must be at least 1")
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
