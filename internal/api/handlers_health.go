// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive reports process liveness. It never touches the store.
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": time.Since(h.startTime).String(),
	}, time.Now())
}

// HealthReady reports readiness: the store must answer a ping.
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database not reachable", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
