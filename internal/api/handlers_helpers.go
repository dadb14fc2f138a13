// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelgate/reelgate/internal/auth"
	"github.com/reelgate/reelgate/internal/database"
	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
	"github.com/reelgate/reelgate/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log
// injection: newlines, carriage returns, and other control characters could
// otherwise forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the success envelope
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondDomainError maps store errors to the caller-visible outcome codes.
// The handful of business-rule codes survive; every other failure collapses
// to GENERIC_FAILURE with no detail beyond the message.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, models.CodeInvalidCredentials, "Invalid email or password", nil)
	case errors.Is(err, database.ErrSessionLimit):
		respondError(w, http.StatusForbidden, models.CodeSessionLimit, "Concurrent session limit reached for your plan", nil)
	case errors.Is(err, database.ErrPlanNotFound):
		respondError(w, http.StatusNotFound, models.CodePlanNotFound, "Plan does not exist", nil)
	case errors.Is(err, database.ErrCapacityDowngrade):
		respondError(w, http.StatusConflict, models.CodeCapacityDowngrade, "Cannot move to a plan with lower session capacity", nil)
	case errors.Is(err, database.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, models.CodeGenericFailure, "Email already registered", nil)
	case errors.Is(err, database.ErrUnknownMovie):
		respondError(w, http.StatusBadRequest, models.CodeGenericFailure, "Unknown movie id in batch", nil)
	default:
		respondError(w, http.StatusInternalServerError, models.CodeGenericFailure, "Operation failed", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeRequest decodes and validates a JSON request body. Returns false if a
// response was already written.
func decodeRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON body", nil)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return false
	}
	return true
}

// requireSession extracts the authenticated session placed in the context by
// the auth middleware. Returns nil after writing a 401 if it is missing,
// which only happens if a route is wired without the middleware.
func requireSession(w http.ResponseWriter, r *http.Request) *models.Session {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, models.CodeUnauthorized, "Authentication required", nil)
		return nil
	}
	return session
}
