// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"errors"
	"io"

	"github.com/reelgate/reelgate/internal/logging"
)

// Sentinel errors returned by store operations. The API layer maps these to
// the caller-visible outcome codes; any other error collapses to the generic
// failure code.
var (
	// ErrDuplicateEmail indicates a registration attempt with an email that
	// already belongs to an existing customer.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for any sign-in failure caused by the
	// supplied email or password. A single error covers both fields so that
	// callers cannot distinguish which one was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrSessionLimit indicates a sign-in blocked by the plan's concurrent
	// session cap. No mutation occurs.
	ErrSessionLimit = errors.New("concurrent session limit reached")

	// ErrPlanNotFound indicates a plan id that does not exist.
	ErrPlanNotFound = errors.New("plan not found")

	// ErrCapacityDowngrade indicates a plan change rejected because the target
	// plan has a lower session capacity than the current plan.
	ErrCapacityDowngrade = errors.New("downgrade to lower-capacity plan rejected")

	// ErrUnknownMovie indicates a movie id that does not exist in the catalog.
	ErrUnknownMovie = errors.New("unknown movie id")

	// ErrCustomerNotFound indicates a customer row that no longer resolves,
	// e.g. a session referencing a deleted account.
	ErrCustomerNotFound = errors.New("customer not found")
)

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource, ignoring any error (for cleanup paths)
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close() // Explicitly ignore error - cleanup is best-effort
	}
}
