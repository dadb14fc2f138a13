// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package config provides layered application configuration via Koanf v2.
//
// Configuration is loaded in three layers, highest priority last:
//  1. Built-in defaults (structs provider)
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables (JWT_SECRET, DUCKDB_PATH, HTTP_PORT, ...)
//
// The resulting Config is immutable after Load and safe for concurrent reads.
package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// DatabaseConfig holds DuckDB configuration.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an in-memory store.
	Path string `koanf:"path"`

	// MaxMemory caps DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads sets DuckDB's thread count. 0 = runtime.NumCPU().
	Threads int `koanf:"threads"`

	// SeedSampleCatalog loads a small built-in movie catalog at startup.
	// Intended for development and demos; plans are always seeded.
	SeedSampleCatalog bool `koanf:"seed_sample_catalog"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds authentication and rate limiting configuration.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Required, minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the lifetime of an issued session token.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// RateLimitReqs is the number of requests allowed per IP per RateLimitWindow.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// SignInLimitReqs caps sign-in attempts per IP per SignInLimitWindow.
	SignInLimitReqs   int           `koanf:"sign_in_limit_reqs"`
	SignInLimitWindow time.Duration `koanf:"sign_in_limit_window"`

	// RateLimitDisabled turns off all rate limiting. Tests only.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	// CORSOrigins lists allowed CORS origins. Empty = no cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`
}

// APIConfig holds pagination and response limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for invalid or incomplete values.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.Security.JWTSecret))
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("session timeout must be positive, got %v", c.Security.SessionTimeout)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("rate limit requests must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.SignInLimitReqs <= 0 {
			return fmt.Errorf("sign-in rate limit requests must be positive, got %d", c.Security.SignInLimitReqs)
		}
	}
	if c.API.DefaultPageSize <= 0 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("invalid page size configuration: default=%d max=%d",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	return nil
}
