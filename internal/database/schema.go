// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

/*
schema.go - Database Schema Management

This file manages the DuckDB database schema: table creation, index
management, and plan reference data seeding.

Tables:
  - customers: account records with session_count and plan_id
  - plans: subscription tiers (read-only reference data)
  - movies: catalog reference data with IMDb-style text ids
  - genres: many-to-many movie -> genre name association
  - watched: unique (customer_id, movie_id) watch-history facts

All columns are defined in the initial CREATE TABLE statements; there are no
migrations. The plans table is seeded idempotently at startup.
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			resolution TEXT NOT NULL,
			max_sessions INTEGER NOT NULL CHECK (max_sessions > 0),
			monthly_fee INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			session_count INTEGER NOT NULL DEFAULT 0 CHECK (session_count >= 0),
			plan_id INTEGER NOT NULL REFERENCES plans(id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS movies (
			movie_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			rating DOUBLE NOT NULL,
			votes BIGINT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS genres (
			movie_id TEXT NOT NULL REFERENCES movies(movie_id),
			genre_name TEXT NOT NULL,
			PRIMARY KEY (movie_id, genre_name)
		)`,

		// Uniqueness of (customer_id, movie_id) is load-bearing: mark-watched
		// relies on ON CONFLICT DO NOTHING for idempotence.
		`CREATE TABLE IF NOT EXISTS watched (
			customer_id UUID NOT NULL REFERENCES customers(id),
			movie_id TEXT NOT NULL REFERENCES movies(movie_id),
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (customer_id, movie_id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates database indexes for query optimization
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email)`,
		`CREATE INDEX IF NOT EXISTS idx_genres_genre_name ON genres(genre_name)`,
		`CREATE INDEX IF NOT EXISTS idx_watched_customer ON watched(customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_year_votes ON movies(year, votes)`,
	}

	for _, query := range indexes {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// seedPlans inserts the subscription tiers if they are not already present.
// ON CONFLICT DO NOTHING makes repeated startups idempotent.
func (db *DB) seedPlans() error {
	ctx, cancel := schemaContext()
	defer cancel()

	plans := []struct {
		id          int
		name        string
		resolution  string
		maxSessions int
		monthlyFee  int
	}{
		{1, "Basic", "720P", 2, 30},
		{2, "Advanced", "1080P", 4, 50},
		{3, "Premium", "4K", 10, 90},
	}

	query := `INSERT INTO plans (id, name, resolution, max_sessions, monthly_fee)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`

	for _, p := range plans {
		if _, err := db.conn.ExecContext(ctx, query, p.id, p.name, p.resolution, p.maxSessions, p.monthlyFee); err != nil {
			return fmt.Errorf("failed to seed plan %s: %w", p.name, err)
		}
	}

	return nil
}
