// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
)

// MarkWatched records a batch of movies as watched by the session's customer.
//
// The batch is all-or-nothing within one transaction: every id is validated
// against the catalog before any insert, and a single unknown id aborts the
// whole batch with ErrUnknownMovie, leaving the store unchanged. Re-marking an
// already-watched movie is a no-op (ON CONFLICT DO NOTHING), so applying the
// same list twice yields the same watched set as applying it once.
func (db *DB) MarkWatched(ctx context.Context, session *models.Session, movieIDs []string) (err error) {
	if len(movieIDs) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is finalized
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	checkStmt, err := tx.PrepareContext(ctx, `SELECT EXISTS(SELECT 1 FROM movies WHERE movie_id = ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare catalog check: %w", err)
	}
	defer closeQuietly(checkStmt)

	for _, id := range movieIDs {
		var exists bool
		if err = checkStmt.QueryRowContext(ctx, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check movie %s: %w", id, err)
		}
		if !exists {
			err = fmt.Errorf("%w: %s", ErrUnknownMovie, id)
			return err
		}
	}

	// Prepare statement within transaction for efficiency
	insertStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO watched (customer_id, movie_id, created_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT (customer_id, movie_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(insertStmt)

	now := time.Now().UTC()
	inserted := 0
	for _, id := range movieIDs {
		res, execErr := insertStmt.ExecContext(ctx, session.CustomerID, id, now)
		if execErr != nil {
			err = fmt.Errorf("failed to insert watched record for %s: %w", id, execErr)
			return err
		}
		if n, raErr := res.RowsAffected(); raErr == nil {
			inserted += int(n)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Debug().
		Str("customer_id", session.CustomerID.String()).
		Int("requested", len(movieIDs)).
		Int("inserted", inserted).
		Msg("Watch history updated")

	return nil
}

// WatchedMovies returns the movies the session's customer has watched,
// ordered ascending by movie id.
func (db *DB) WatchedMovies(ctx context.Context, session *models.Session) ([]models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT m.movie_id, m.title, m.year, m.rating, m.votes
		 FROM movies m
		 JOIN watched w ON w.movie_id = m.movie_id
		 WHERE w.customer_id = ?
		 ORDER BY m.movie_id`,
		session.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watched movies: %w", err)
	}
	defer closeWithLog(rows, "watched rows")

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Year, &m.Rating, &m.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("watched rows iteration failed: %w", err)
	}

	return movies, nil
}
