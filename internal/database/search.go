// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/reelgate/reelgate/internal/metrics"
	"github.com/reelgate/reelgate/internal/models"
)

// SearchMovies returns movies whose title contains text as a case-insensitive
// substring, each annotated with whether the session's customer has watched
// it, ordered ascending by movie id.
func (db *DB) SearchMovies(ctx context.Context, session *models.Session, text string) ([]models.MovieMatch, error) {
	// Escape LIKE metacharacters so user input matches literally
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(text)
	pattern := "%" + escaped + "%"

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT m.movie_id, m.title, m.year, m.rating, m.votes,
		        EXISTS(SELECT 1 FROM watched w WHERE w.customer_id = ? AND w.movie_id = m.movie_id) AS watched
		 FROM movies m
		 WHERE m.title ILIKE ? ESCAPE '\'
		 ORDER BY m.movie_id`,
		session.CustomerID, pattern)
	metrics.RecordDBQuery("search_movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	defer closeWithLog(rows, "search rows")

	var matches []models.MovieMatch
	for rows.Next() {
		var m models.MovieMatch
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Rating, &m.Votes, &m.Watched); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows iteration failed: %w", err)
	}

	return matches, nil
}
