// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/reelgate/reelgate/internal/database"
	"github.com/reelgate/reelgate/internal/metrics"
	"github.com/reelgate/reelgate/internal/models"
)

type changePlanRequest struct {
	PlanID int `json:"plan_id" validate:"required,gt=0"`
}

// Plans lists all subscription plans in stable order by id. Plans are public
// reference data, so this endpoint does not require authentication.
// GET /api/v1/plans
func (h *Handler) Plans(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	plans, err := h.db.ListPlans(r.Context())
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Empty sequence is a valid, successful result
	if plans == nil {
		plans = []models.Plan{}
	}
	respondSuccess(w, http.StatusOK, plans, start)
}

// Subscription returns the customer's active plan.
// GET /api/v1/subscription
func (h *Handler) Subscription(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	plan, err := h.db.CurrentSubscription(r.Context(), session)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, plan, start)
}

// ChangePlan moves the customer to a different plan, subject to the
// capacity-downgrade rule.
// POST /api/v1/subscription
func (h *Handler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	var req changePlanRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.db.ChangePlan(r.Context(), session, req.PlanID)
	if err != nil {
		metrics.PlanChangesTotal.WithLabelValues(planChangeOutcome(err)).Inc()
		respondDomainError(w, err)
		return
	}
	metrics.PlanChangesTotal.WithLabelValues("changed").Inc()

	respondSuccess(w, http.StatusOK, customer, start)
}

func planChangeOutcome(err error) string {
	switch {
	case errors.Is(err, database.ErrPlanNotFound):
		return "not_found"
	case errors.Is(err, database.ErrCapacityDowngrade):
		return "downgrade_rejected"
	default:
		return "error"
	}
}
