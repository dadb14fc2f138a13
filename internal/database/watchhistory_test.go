// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"errors"
	"testing"
)

func TestMarkWatchedAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "watch@example.com", 1)

	ids := []string{"tt1375666", "tt0468569"}
	if err := db.MarkWatched(ctx, session, ids); err != nil {
		t.Fatalf("MarkWatched failed: %v", err)
	}

	movies, err := db.WatchedMovies(ctx, session)
	if err != nil {
		t.Fatalf("WatchedMovies failed: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("Expected 2 watched movies, got %d", len(movies))
	}
	// Ordered ascending by movie id
	if movies[0].ID != "tt0468569" || movies[1].ID != "tt1375666" {
		t.Errorf("Unexpected order: %s, %s", movies[0].ID, movies[1].ID)
	}
}

func TestMarkWatchedIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "idem@example.com", 1)

	ids := []string{"tt0816692", "tt2582802"}
	if err := db.MarkWatched(ctx, session, ids); err != nil {
		t.Fatalf("First MarkWatched failed: %v", err)
	}
	if err := db.MarkWatched(ctx, session, ids); err != nil {
		t.Fatalf("Second MarkWatched failed: %v", err)
	}

	movies, err := db.WatchedMovies(ctx, session)
	if err != nil {
		t.Fatalf("WatchedMovies failed: %v", err)
	}
	if len(movies) != 2 {
		t.Errorf("Expected 2 watched movies after double mark, got %d", len(movies))
	}
}

// TestMarkWatchedIsAtomic ensures one unknown id aborts the entire batch and
// persists nothing, including the valid ids that preceded it.
func TestMarkWatchedIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "atomic@example.com", 1)

	err := db.MarkWatched(ctx, session, []string{"tt1375666", "tt9999999", "tt0468569"})
	if !errors.Is(err, ErrUnknownMovie) {
		t.Fatalf("Expected ErrUnknownMovie, got %v", err)
	}

	movies, err := db.WatchedMovies(ctx, session)
	if err != nil {
		t.Fatalf("WatchedMovies failed: %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("Expected empty watched set after aborted batch, got %d records", len(movies))
	}
}

func TestMarkWatchedEmptyBatch(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "empty@example.com", 1)

	if err := db.MarkWatched(ctx, session, nil); err != nil {
		t.Fatalf("Empty batch should succeed, got %v", err)
	}
}
