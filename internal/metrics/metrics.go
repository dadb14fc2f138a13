// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package metrics provides Prometheus instrumentation for the service:
// sign-in admission outcomes, plan changes, watch-history writes,
// recommendation serving, store query latency, and API request metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Session admission metrics
	SignInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signins_total",
			Help: "Total sign-in attempts by outcome",
		},
		[]string{"outcome"}, // "admitted", "limit_reached", "invalid_credentials", "error"
	)

	SignOutsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "signouts_total",
			Help: "Total sign-out operations",
		},
	)

	// Subscription metrics
	PlanChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_changes_total",
			Help: "Total plan change attempts by outcome",
		},
		[]string{"outcome"}, // "changed", "not_found", "downgrade_rejected", "error"
	)

	// Watch history metrics
	WatchedMarksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watched_marks_total",
			Help: "Total movies marked watched (batch sizes summed)",
		},
	)

	// Recommendation metrics
	RecommendationsServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total recommendation lists served",
		},
	)

	RecommendationSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_size",
			Help:    "Number of movies per served recommendation list",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// Store metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordDBQuery records a store query metric
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one served recommendation list
func RecordRecommendation(size int) {
	RecommendationsServed.Inc()
	RecommendationSize.Observe(float64(size))
}
