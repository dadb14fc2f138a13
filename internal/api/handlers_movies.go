// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package api

import (
	"net/http"
	"time"

	"github.com/reelgate/reelgate/internal/metrics"
	"github.com/reelgate/reelgate/internal/models"
)

type markWatchedRequest struct {
	MovieIDs []string `json:"movie_ids" validate:"required,min=1,dive,required"`
}

// MarkWatched records a batch of movies as watched. The batch is atomic: one
// unknown id rejects the whole request and persists nothing.
// POST /api/v1/watched
func (h *Handler) MarkWatched(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	var req markWatchedRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.db.MarkWatched(r.Context(), session, req.MovieIDs); err != nil {
		respondDomainError(w, err)
		return
	}
	metrics.WatchedMarksTotal.Add(float64(len(req.MovieIDs)))

	respondSuccess(w, http.StatusOK, map[string]int{"marked": len(req.MovieIDs)}, start)
}

// WatchedMovies lists the customer's watch history ordered by movie id.
// GET /api/v1/watched
func (h *Handler) WatchedMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	movies, err := h.db.WatchedMovies(r.Context(), session)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if movies == nil {
		movies = []models.Movie{}
	}
	respondSuccess(w, http.StatusOK, movies, start)
}

// SearchMovies finds movies by case-insensitive title substring, each row
// annotated with the customer's watched flag, ordered by movie id.
// GET /api/v1/movies/search?q=text
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Query parameter q is required", nil)
		return
	}

	matches, err := h.db.SearchMovies(r.Context(), session, query)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if matches == nil {
		matches = []models.MovieMatch{}
	}
	respondSuccess(w, http.StatusOK, matches, start)
}

// Suggestions serves the recommendation list: the union of the candidate
// strategies, deduplicated and sorted ascending by movie id, excluding
// everything the customer has watched.
// GET /api/v1/movies/suggestions
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	movies, err := h.engine.Recommend(r.Context(), session.CustomerID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	metrics.RecordRecommendation(len(movies))

	if movies == nil {
		movies = []models.Movie{}
	}
	respondSuccess(w, http.StatusOK, movies, start)
}
