// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

// Package config provides layered configuration for Retailboard using Koanf v2.
//
// Configuration is resolved from three sources (highest priority wins):
//  1. Environment variables prefixed with RETAILBOARD_
//  2. An optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Built-in defaults
//
// Environment variable names map to nested keys by section:
//
//	RETAILBOARD_DATABASE_PATH   -> database.path
//	RETAILBOARD_SERVER_PORT     -> server.port
//	RETAILBOARD_CACHE_TTL       -> cache.ttl
//	RETAILBOARD_LOGGING_LEVEL   -> logging.level
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the Retailboard server.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Cache    CacheConfig    `koanf:"cache"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds the DuckDB data source settings.
//
// The database file is owned by the external ingestion step; the server
// opens it once at startup and issues read-only analytics queries
// against it for the lifetime of the process.
type DatabaseConfig struct {
	// Path is the DuckDB database file, or ":memory:" for tests.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB's memory usage (e.g. "1GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count; 0 means runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// Timeout applies to reads and writes on the HTTP server, not to
	// the analytics queries themselves.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs/RateLimitWindow bound per-IP request rates.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed origins for the presentation layer.
	CORSOrigins []string `koanf:"cors_origins"`
}

// CacheConfig holds result cache settings.
type CacheConfig struct {
	// TTL is how long a computed query result stays valid.
	TTL time.Duration `koanf:"ttl"`
}

// APIConfig holds analytics query shape limits.
type APIConfig struct {
	// TopN is the row limit for country/product rankings.
	TopN int `koanf:"top_n"`

	// RFMLimit is the maximum number of RFM rows returned.
	RFMLimit int `koanf:"rfm_limit"`

	// CohortPeriods is the highest month offset tracked per cohort
	// (periods 0..N inclusive). The default of 11 yields a twelve-month
	// retention matrix.
	CohortPeriods int `koanf:"cohort_periods"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Default returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and
// env vars. Tests use it directly as a valid baseline.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:      "/data/retailboard.duckdb",
			MaxMemory: "1GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8460,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Cache: CacheConfig{
			TTL: 300 * time.Second,
		},
		API: APIConfig{
			TopN:          10,
			RFMLimit:      2000,
			CohortPeriods: 11,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for values that would prevent the
// server from operating. Called by LoadWithKoanf after all layers are
// merged; a failure here is a terminal configuration error.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.API.TopN < 1 {
		return fmt.Errorf("api.top_n must be at least 1, got %d", c.API.TopN)
	}
	if c.API.RFMLimit < 1 {
		return fmt.Errorf("api.rfm_limit must be at least 1, got %d", c.API.RFMLimit)
	}
	if c.API.CohortPeriods < 1 {
		return fmt.Errorf("api.cohort_periods must be at least 1, got %d", c.API.CohortPeriods)
	}
	return nil
}
