// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package main is the entry point for the Reelgate server.
//
// Reelgate is the backend of a subscription video service: customer accounts
// with plan-capped concurrent sessions, watch history, catalog search, and a
// recommendation engine, all backed by an embedded DuckDB store.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional config file (Koanf v2)
//  2. Database: DuckDB store with schema creation and plan seeding
//  3. Authentication: JWT session tokens (HS256)
//  4. Recommendation engine: genre affinity, recent popularity, engagement
//  5. HTTP Server: REST API under /api/v1, supervised by a suture tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority
// wins): environment variables, then config.yaml, then built-in defaults.
//
// Required settings:
//   - JWT_SECRET: 32+ character secret for session token signing
//
// Common settings:
//   - DUCKDB_PATH: database file path (default /data/reelgate.duckdb)
//   - HTTP_HOST / HTTP_PORT: listen address (default 0.0.0.0:8460)
//   - SESSION_TIMEOUT: token lifetime (default 24h)
//   - SEED_SAMPLE_CATALOG=true: load the built-in demo movie catalog
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting connections, drains in-flight requests with a 10s timeout, then
// checkpoints and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelgate/reelgate/internal/api"
	"github.com/reelgate/reelgate/internal/auth"
	"github.com/reelgate/reelgate/internal/config"
	"github.com/reelgate/reelgate/internal/database"
	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/recommend"
	"github.com/reelgate/reelgate/internal/supervisor"
	"github.com/reelgate/reelgate/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("addr", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)).
		Msg("Starting Reelgate")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
		logging.Warn().Msg("This should only be used in test environments")
	}

	engine := recommend.NewEngine(db, logging.Logger())
	handler := api.NewHandler(db, engine, cfg, jwtManager)

	mwCfg := buildMiddlewareConfig(&cfg.Security)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), api.NewChiMiddleware(mwCfg))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewCheckpointService(db, 15*time.Minute, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// buildMiddlewareConfig maps the loaded security settings onto the router
// middleware configuration.
func buildMiddlewareConfig(sec *config.SecurityConfig) *api.ChiMiddlewareConfig {
	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = sec.CORSOrigins
	mwCfg.RateLimitDisabled = sec.RateLimitDisabled
	if sec.RateLimitReqs > 0 {
		mwCfg.RateLimitRequests = sec.RateLimitReqs
		mwCfg.RateLimitWindow = sec.RateLimitWindow
	}
	if sec.SignInLimitReqs > 0 {
		mwCfg.SignInLimitRequests = sec.SignInLimitReqs
		mwCfg.SignInLimitWindow = sec.SignInLimitWindow
	}
	return mwCfg
}
