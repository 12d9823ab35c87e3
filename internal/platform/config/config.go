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
  - DI-Friendly: Passed to core components (DB, Redis, upstream client) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the rickdex API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty keeps the upstream cache in process memory.
	RedisURL string `env:"REDIS_URL"`

	// Upstream character source
	UpstreamBaseURL   string        `env:"UPSTREAM_BASE_URL"          envDefault:"https://rickandmortyapi.com/api"`
	UpstreamTimeout   time.Duration `env:"UPSTREAM_TIMEOUT"           envDefault:"10s"`
	UpstreamCacheTTL  time.Duration `env:"UPSTREAM_CACHE_TTL"         envDefault:"5m"`
	UpstreamCacheMax  int           `env:"UPSTREAM_CACHE_MAX_ENTRIES" envDefault:"0"`
	UpstreamRPS       float64       `env:"UPSTREAM_RPS"               envDefault:"0"`
	UpstreamRateBurst int           `env:"UPSTREAM_RATE_BURST"        envDefault:"5"`

	// Cross-Origin Resource Sharing (comma separated suffixes)
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.UpstreamCacheTTL <= 0 {
		return nil, fmt.Errorf("config: UPSTREAM_CACHE_TTL must be positive, got %s", cfg.UpstreamCacheTTL)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Port returns the HTTP listen port.
func (c *Config) Port() string {
	return c.ServerPort
}

// OriginSuffixes returns the configured CORS origin suffixes.
func (c *Config) OriginSuffixes() []string {
	var suffixes []string
	for _, part := range strings.Split(c.AllowedOrigins, ",") {
		if clean := strings.TrimSpace(part); clean != "" {
			suffixes = append(suffixes, clean)
		}
	}
	return suffixes
}
