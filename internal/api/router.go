// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelgate/reelgate/internal/auth"
	"github.com/reelgate/reelgate/internal/middleware"
)

// Router wires handlers, auth, and the middleware stack into a Chi router.
type Router struct {
	handler        *Handler
	authMiddleware *auth.Middleware
	chiMiddleware  *ChiMiddleware
}

// NewRouter creates a router over the given handler and middleware.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:        handler,
		authMiddleware: authMiddleware,
		chiMiddleware:  chiMW,
	}
}

// Setup configures all HTTP routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Health endpoints, no auth and no strict rate limiting
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Authentication endpoints. Sign-in carries the strictest rate limit to
	// slow brute forcing; sign-out requires a valid token.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		r.Post("/signup", router.handler.SignUp)
		r.With(router.chiMiddleware.RateLimitSignIn()).Post("/signin", router.handler.SignIn)
		r.With(router.authMiddleware.Authenticate).Post("/signout", router.handler.SignOut)
	})

	// Core API endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(middleware.PrometheusMetrics)

		// Plans are public reference data
		r.Get("/plans", router.handler.Plans)

		// Everything else is bound to an admitted session
		r.Group(func(r chi.Router) {
			r.Use(router.authMiddleware.Authenticate)

			r.Get("/subscription", router.handler.Subscription)
			r.Post("/subscription", router.handler.ChangePlan)
			r.Get("/watched", router.handler.WatchedMovies)
			r.Post("/watched", router.handler.MarkWatched)
			r.Get("/movies/search", router.handler.SearchMovies)
			r.Get("/movies/suggestions", router.handler.Suggestions)
		})
	})

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}
