// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package api provides the HTTP surface over the domain operations: auth and
// session admission, plans and subscription, watch history, search, and
// recommendations. Routing uses Chi with go-chi/cors and go-chi/httprate
// middleware; responses use the APIResponse envelope.
package api

import (
	"time"

	"github.com/reelgate/reelgate/internal/auth"
	"github.com/reelgate/reelgate/internal/config"
	"github.com/reelgate/reelgate/internal/database"
	"github.com/reelgate/reelgate/internal/recommend"
)

// Handler processes HTTP requests for all API endpoints.
type Handler struct {
	db         *database.DB
	engine     *recommend.Engine
	config     *config.Config
	jwtManager *auth.JWTManager
	startTime  time.Time
}

// NewHandler creates an API handler with all required dependencies.
func NewHandler(db *database.DB, engine *recommend.Engine, cfg *config.Config, jwtManager *auth.JWTManager) *Handler {
	return &Handler{
		db:         db,
		engine:     engine,
		config:     cfg,
		jwtManager: jwtManager,
		startTime:  time.Now(),
	}
}
