// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

/*
recommend_data.go - Recommendation Candidate Queries

The three retrieval strategies behind the recommendation engine. Each query
excludes movies the customer has already watched and ranks candidates only to
decide membership; the engine unions the sets and orders the final result by
movie id. Ties on vote count break to the lowest movie id so results are
deterministic.
*/
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reelgate/reelgate/internal/metrics"
	"github.com/reelgate/reelgate/internal/models"
)

// GenreAffinityPicks returns, for each genre appearing among the customer's
// watched movies, the single unwatched movie with the highest vote count in
// that genre.
func (db *DB) GenreAffinityPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error) {
	query := `
		WITH watched_genres AS (
			SELECT DISTINCT g.genre_name
			FROM genres g
			JOIN watched w ON w.movie_id = g.movie_id
			WHERE w.customer_id = ?
		),
		ranked AS (
			SELECT m.movie_id, m.title, m.year, m.rating, m.votes,
			       ROW_NUMBER() OVER (
			           PARTITION BY g.genre_name
			           ORDER BY m.votes DESC, m.movie_id ASC
			       ) AS rn
			FROM movies m
			JOIN genres g ON g.movie_id = m.movie_id
			JOIN watched_genres wg ON wg.genre_name = g.genre_name
			WHERE NOT EXISTS (
				SELECT 1 FROM watched w
				WHERE w.customer_id = ? AND w.movie_id = m.movie_id
			)
		)
		SELECT DISTINCT movie_id, title, year, rating, votes
		FROM ranked
		WHERE rn = 1`

	return db.queryMovies(ctx, "genre_affinity", query, customerID, customerID)
}

// RecentPopularPicks returns the top 10 unwatched movies released in 2010 or
// later, ranked by vote count then rating.
func (db *DB) RecentPopularPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error) {
	query := `
		SELECT m.movie_id, m.title, m.year, m.rating, m.votes
		FROM movies m
		WHERE m.year >= 2010
		  AND NOT EXISTS (
			SELECT 1 FROM watched w
			WHERE w.customer_id = ? AND w.movie_id = m.movie_id
		  )
		ORDER BY m.votes DESC, m.rating DESC, m.movie_id ASC
		LIMIT 10`

	return db.queryMovies(ctx, "recent_popular", query, customerID)
}

// AboveAverageEngagementPicks returns the top 10 unwatched movies whose vote
// count strictly exceeds the average vote count over the customer's watched
// movies. A customer with zero watched movies has no average, so the set is
// empty rather than matching everything.
func (db *DB) AboveAverageEngagementPicks(ctx context.Context, customerID uuid.UUID) ([]models.Movie, error) {
	query := `
		WITH engagement AS (
			SELECT AVG(m.votes) AS avg_votes, COUNT(*) AS watched_count
			FROM movies m
			JOIN watched w ON w.movie_id = m.movie_id
			WHERE w.customer_id = ?
		)
		SELECT m.movie_id, m.title, m.year, m.rating, m.votes
		FROM movies m, engagement e
		WHERE e.watched_count > 0
		  AND m.votes > e.avg_votes
		  AND NOT EXISTS (
			SELECT 1 FROM watched w
			WHERE w.customer_id = ? AND w.movie_id = m.movie_id
		  )
		ORDER BY m.votes DESC, m.movie_id ASC
		LIMIT 10`

	return db.queryMovies(ctx, "above_average_engagement", query, customerID, customerID)
}

func (db *DB) queryMovies(ctx context.Context, operation, query string, args ...interface{}) ([]models.Movie, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery(operation, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Rating, &m.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movie rows iteration failed: %w", err)
	}

	return movies, nil
}
