// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package models defines the domain entities shared across the application:
// customers, subscription plans, movies, watch history, and the API response
// envelope.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an account holder. SessionCount tracks the number of currently
// active sign-ins and is bounded above by the plan's MaxSessions at sign-in
// time.
type Customer struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	SessionCount int       `json:"session_count"`
	PlanID       int       `json:"plan_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Plan is a subscription tier. Read-only reference data seeded at schema
// initialization.
type Plan struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Resolution  string `json:"resolution"`
	MaxSessions int    `json:"max_sessions"`
	MonthlyFee  int    `json:"monthly_fee"`
}

// Movie is catalog reference data. IDs follow the IMDb "tt" convention and
// sort lexicographically, which is the ordering used by search and
// recommendation results.
type Movie struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Year   int     `json:"year"`
	Rating float64 `json:"rating"`
	Votes  int64   `json:"votes"`
}

// GenreRecord is one row of the many-to-many movie to genre association.
type GenreRecord struct {
	MovieID   string `json:"movie_id"`
	GenreName string `json:"genre_name"`
}

// MovieMatch is a search result row: a movie annotated with whether the
// requesting customer has watched it.
type MovieMatch struct {
	Movie
	Watched bool `json:"watched"`
}

// WatchedRecord is a durable fact that a customer has viewed a movie. Pairs
// are unique; records are never updated or deleted.
type WatchedRecord struct {
	CustomerID uuid.UUID `json:"customer_id"`
	MovieID    string    `json:"movie_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Session is an authenticated, active binding between a caller and a
// customer, counted against the customer's plan cap. It is threaded as an
// argument to every authorized operation.
type Session struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	IssuedAt   time.Time `json:"issued_at"`
}
