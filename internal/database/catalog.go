// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"fmt"

	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
)

// InsertMovies loads catalog reference data in one transaction. Existing ids
// are skipped, so repeated loads are idempotent.
func (db *DB) InsertMovies(ctx context.Context, movies []models.Movie) (err error) {
	if len(movies) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

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

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO movies (movie_id, title, year, rating, votes)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (movie_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare movie insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, m := range movies {
		if _, err = stmt.ExecContext(ctx, m.ID, m.Title, m.Year, m.Rating, m.Votes); err != nil {
			return fmt.Errorf("failed to insert movie %s: %w", m.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// InsertGenres loads genre associations in one transaction, skipping
// duplicates.
func (db *DB) InsertGenres(ctx context.Context, records []models.GenreRecord) (err error) {
	if len(records) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

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

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO genres (movie_id, genre_name)
		 VALUES (?, ?)
		 ON CONFLICT (movie_id, genre_name) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare genre insert: %w", err)
	}
	defer closeQuietly(stmt)

	for _, r := range records {
		if _, err = stmt.ExecContext(ctx, r.MovieID, r.GenreName); err != nil {
			return fmt.Errorf("failed to insert genre %s/%s: %w", r.MovieID, r.GenreName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SeedSampleCatalog loads a small built-in movie catalog so a fresh install
// has something to search and recommend against. Idempotent.
func (db *DB) SeedSampleCatalog(ctx context.Context) error {
	movies := []models.Movie{
		{ID: "tt0468569", Title: "The Dark Knight", Year: 2008, Rating: 9.0, Votes: 2600000},
		{ID: "tt1375666", Title: "Inception", Year: 2010, Rating: 8.8, Votes: 2400000},
		{ID: "tt0816692", Title: "Interstellar", Year: 2014, Rating: 8.7, Votes: 2000000},
		{ID: "tt2582802", Title: "Whiplash", Year: 2014, Rating: 8.5, Votes: 950000},
		{ID: "tt4154796", Title: "Avengers: Endgame", Year: 2019, Rating: 8.4, Votes: 1200000},
		{ID: "tt6751668", Title: "Parasite", Year: 2019, Rating: 8.5, Votes: 900000},
		{ID: "tt0110912", Title: "Pulp Fiction", Year: 1994, Rating: 8.9, Votes: 2100000},
		{ID: "tt0111161", Title: "The Shawshank Redemption", Year: 1994, Rating: 9.3, Votes: 2700000},
		{ID: "tt7286456", Title: "Joker", Year: 2019, Rating: 8.4, Votes: 1400000},
		{ID: "tt1853728", Title: "Django Unchained", Year: 2012, Rating: 8.5, Votes: 1600000},
		{ID: "tt2380307", Title: "Coco", Year: 2017, Rating: 8.4, Votes: 560000},
		{ID: "tt0245429", Title: "Spirited Away", Year: 2001, Rating: 8.6, Votes: 800000},
	}

	genres := []models.GenreRecord{
		{MovieID: "tt0468569", GenreName: "Action"},
		{MovieID: "tt0468569", GenreName: "Crime"},
		{MovieID: "tt1375666", GenreName: "Action"},
		{MovieID: "tt1375666", GenreName: "Sci-Fi"},
		{MovieID: "tt0816692", GenreName: "Sci-Fi"},
		{MovieID: "tt0816692", GenreName: "Drama"},
		{MovieID: "tt2582802", GenreName: "Drama"},
		{MovieID: "tt2582802", GenreName: "Music"},
		{MovieID: "tt4154796", GenreName: "Action"},
		{MovieID: "tt4154796", GenreName: "Sci-Fi"},
		{MovieID: "tt6751668", GenreName: "Drama"},
		{MovieID: "tt6751668", GenreName: "Thriller"},
		{MovieID: "tt0110912", GenreName: "Crime"},
		{MovieID: "tt0110912", GenreName: "Drama"},
		{MovieID: "tt0111161", GenreName: "Drama"},
		{MovieID: "tt7286456", GenreName: "Crime"},
		{MovieID: "tt7286456", GenreName: "Drama"},
		{MovieID: "tt1853728", GenreName: "Drama"},
		{MovieID: "tt1853728", GenreName: "Western"},
		{MovieID: "tt2380307", GenreName: "Animation"},
		{MovieID: "tt2380307", GenreName: "Family"},
		{MovieID: "tt0245429", GenreName: "Animation"},
		{MovieID: "tt0245429", GenreName: "Fantasy"},
	}

	if err := db.InsertMovies(ctx, movies); err != nil {
		return fmt.Errorf("failed to seed sample movies: %w", err)
	}
	if err := db.InsertGenres(ctx, genres); err != nil {
		return fmt.Errorf("failed to seed sample genres: %w", err)
	}

	logging.Info().Int("movies", len(movies)).Msg("Sample catalog seeded")
	return nil
}
