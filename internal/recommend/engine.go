// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package recommend combines independent retrieval strategies into one
// deduplicated, ordered recommendation list.
//
// This package has no dependency on the database package. The Source
// interface allows integration with the store without creating circular
// imports.
package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelgate/reelgate/internal/models"
)

// Source defines the interface for fetching recommendation candidates.
// This is typically implemented by the database layer. Every method already
// excludes movies the customer has watched; ranking inside each candidate set
// determines membership only, never the final presentation order.
type Source interface {
	// GenreAffinityPicks returns the top unwatched movie per genre the
	// customer has watched in.
	GenreAffinityPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error)

	// RecentPopularPicks returns the top 10 unwatched movies from 2010 on.
	RecentPopularPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error)

	// AboveAverageEngagementPicks returns the top 10 unwatched movies with
	// more votes than the customer's watched-movie average.
	AboveAverageEngagementPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error)
}

// Engine unions the candidate strategies. It is safe for concurrent use.
type Engine struct {
	source Source
	logger zerolog.Logger

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewEngine creates a recommendation engine over the given candidate source.
func NewEngine(source Source, logger zerolog.Logger) *Engine {
	return &Engine{
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
	}
}

// strategy pairs a name with its retrieval function for logging.
type strategy struct {
	name  string
	fetch func(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error)
}

// Recommend produces the final recommendation list for a customer: the union
// of all strategy candidate sets, deduplicated by movie id and sorted
// strictly ascending by movie id. A failure in any strategy fails the whole
// request with no partial results.
func (e *Engine) Recommend(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error) {
	e.requestCount.Add(1)

	strategies := []strategy{
		{"genre_affinity", e.source.GenreAffinityPicks},
		{"recent_popular", e.source.RecentPopularPicks},
		{"above_average_engagement", e.source.AboveAverageEngagementPicks},
	}

	seen := make(map[string]models.Movie)
	for _, s := range strategies {
		picks, err := s.fetch(ctx, customerID)
		if err != nil {
			e.errorCount.Add(1)
			return nil, fmt.Errorf("strategy %s failed: %w", s.name, err)
		}

		e.logger.Debug().
			Str("strategy", s.name).
			Str("customer_id", customerID.String()).
			Int("candidates", len(picks)).
			Msg("strategy candidates retrieved")

		for _, m := range picks {
			seen[m.ID] = m
		}
	}

	result := make([]models.Movie, 0, len(seen))
	for _, m := range seen {
		result = append(result, m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

// RequestCount returns the number of Recommend calls served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// ErrorCount returns the number of failed Recommend calls.
func (e *Engine) ErrorCount() int64 {
	return e.errorCount.Load()
}
