// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package recommend

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reelgate/reelgate/internal/models"
)

// fakeSource returns canned candidate sets per strategy.
type fakeSource struct {
	genre   []models.Movie
	recent  []models.Movie
	average []models.Movie
	err     error
}

func (f *fakeSource) GenreAffinityPicks(context.Context, uuid.UUID) ([]models.Movie, error) {
	return f.genre, f.err
}

func (f *fakeSource) RecentPopularPicks(context.Context, uuid.UUID) ([]models.Movie, error) {
	return f.recent, f.err
}

func (f *fakeSource) AboveAverageEngagementPicks(context.Context, uuid.UUID) ([]models.Movie, error) {
	return f.average, f.err
}

func movie(id string) models.Movie {
	return models.Movie{ID: id, Title: "Movie " + id, Year: 2015, Rating: 8.0, Votes: 1000}
}

func TestRecommendUnionsDedupesAndSorts(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		genre:   []models.Movie{movie("tt0300"), movie("tt0100")},
		recent:  []models.Movie{movie("tt0200"), movie("tt0100")},
		average: []models.Movie{movie("tt0300"), movie("tt0050")},
	}
	engine := NewEngine(src, zerolog.Nop())

	got, err := engine.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}

	want := []string{"tt0050", "tt0100", "tt0200", "tt0300"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d movies, got %d", len(want), len(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].ID < got[j].ID }) {
		t.Error("Result not sorted ascending by movie id")
	}
}

func TestRecommendEmptySetsYieldEmptyResult(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&fakeSource{}, zerolog.Nop())

	got, err := engine.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty result, got %d movies", len(got))
	}
}

func TestRecommendPropagatesStrategyFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("store unavailable")
	engine := NewEngine(&fakeSource{err: wantErr}, zerolog.Nop())

	_, err := engine.Recommend(context.Background(), uuid.New())
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected wrapped strategy error, got %v", err)
	}
	if engine.ErrorCount() != 1 {
		t.Errorf("Expected error count 1, got %d", engine.ErrorCount())
	}
}

func TestRecommendCountsRequests(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&fakeSource{}, zerolog.Nop())
	ctx := context.Background()
	id := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := engine.Recommend(ctx, id); err != nil {
			t.Fatalf("Recommend failed: %v", err)
		}
	}
	if engine.RequestCount() != 3 {
		t.Errorf("Expected request count 3, got %d", engine.RequestCount())
	}
}
