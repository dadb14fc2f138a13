// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a config that passes validation, for mutation in tests.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	return cfg
}

func TestDefaultConfigIsValidWithSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Database.Path = "" }},
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"missing jwt secret", func(c *Config) { c.Security.JWTSecret = "" }},
		{"short jwt secret", func(c *Config) { c.Security.JWTSecret = "short" }},
		{"zero session timeout", func(c *Config) { c.Security.SessionTimeout = 0 }},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }},
		{"zero sign-in limit", func(c *Config) { c.Security.SignInLimitReqs = 0 }},
		{"max page below default", func(c *Config) { c.API.MaxPageSize = 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tt.name)
			}
		})
	}
}

func TestRateLimitCheckSkippedWhenDisabled(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	cfg.Security.SignInLimitReqs = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled rate limiting to skip checks, got %v", err)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("x", 40))
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("HTTP_PORT", "9001")
	t.Setenv("SESSION_TIMEOUT", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Database.Path != ":memory:" {
		t.Errorf("expected database path override, got %q", cfg.Database.Path)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("expected port 9001, got %d", cfg.Server.Port)
	}
	if cfg.Security.SessionTimeout != time.Hour {
		t.Errorf("expected 1h session timeout, got %v", cfg.Security.SessionTimeout)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[0] != "https://a.example" {
		t.Errorf("expected parsed CORS origins, got %v", cfg.Security.CORSOrigins)
	}
}

func TestLoadFailsWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DUCKDB_PATH", ":memory:")

	if _, err := Load(); err == nil {
		t.Fatal("expected Load() to fail without JWT_SECRET")
	}
}

func TestEnvTransformIgnoresUnknownVariables(t *testing.T) {
	t.Parallel()

	if got := envTransformFunc("PATH"); got != "" {
		t.Errorf("expected unrelated env var to be ignored, got %q", got)
	}
	if got := envTransformFunc("HTTP_PORT"); got != "server.port" {
		t.Errorf("expected server.port, got %q", got)
	}
}
