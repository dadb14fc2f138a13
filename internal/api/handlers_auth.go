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
	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/metrics"
	"github.com/reelgate/reelgate/internal/models"
)

type signUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	PlanID    int    `json:"plan_id" validate:"required,gt=0"`
}

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// signInResponse carries the session token plus the fields a client needs to
// display who is signed in.
type signInResponse struct {
	Token      string    `json:"token"`
	SessionID  string    `json:"session_id"`
	CustomerID string    `json:"customer_id"`
	Email      string    `json:"email"`
	IssuedAt   time.Time `json:"issued_at"`
}

// SignUp registers a new customer.
// POST /api/v1/auth/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req signUpRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	customer, err := h.db.RegisterCustomer(r.Context(), req.Email, req.Password, req.FirstName, req.LastName, req.PlanID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusCreated, customer, start)
}

// SignIn authenticates a customer and admits a session against the plan cap.
// POST /api/v1/auth/signin
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req credentialsRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	session, err := h.db.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.SignInsTotal.WithLabelValues(signInOutcome(err)).Inc()
		respondDomainError(w, err)
		return
	}
	metrics.SignInsTotal.WithLabelValues("admitted").Inc()

	token, err := h.jwtManager.GenerateToken(session)
	if err != nil {
		// The sign-in already committed; release the slot before failing
		h.db.Terminate(r.Context(), session)
		respondError(w, http.StatusInternalServerError, models.CodeGenericFailure, "Failed to issue session token", err)
		return
	}

	respondSuccess(w, http.StatusOK, signInResponse{
		Token:      token,
		SessionID:  session.ID.String(),
		CustomerID: session.CustomerID.String(),
		Email:      session.Email,
		IssuedAt:   session.IssuedAt,
	}, start)
}

// SignOut releases one of the customer's active sessions.
// POST /api/v1/auth/signout
func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	session := requireSession(w, r)
	if session == nil {
		return
	}

	if err := h.db.SignOut(r.Context(), session); err != nil {
		respondDomainError(w, err)
		return
	}
	metrics.SignOutsTotal.Inc()

	logging.Ctx(r.Context()).Debug().Str("customer_id", session.CustomerID.String()).Msg("Signed out")
	respondSuccess(w, http.StatusOK, map[string]string{"message": "Signed out"}, start)
}

func signInOutcome(err error) string {
	switch {
	case err == nil:
		return "admitted"
	case errors.Is(err, database.ErrSessionLimit):
		return "limit_reached"
	case errors.Is(err, database.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}
