// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
)

// SignIn authenticates a customer and admits a new session against the plan's
// concurrent-session cap.
//
// The check-then-increment is a single conditional UPDATE joined against the
// plans table, so it either increments under the cap or affects zero rows.
// The per-customer lock additionally serializes racing sign-ins for the same
// account so DuckDB's optimistic concurrency never aborts one of them with a
// write-write conflict.
func (db *DB) SignIn(ctx context.Context, email, password string) (session *models.Session, err error) {
	c, err := db.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	mu := db.acquireCustomerLock(c.ID.String())
	defer db.releaseCustomerLock(mu)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Ensure transaction is finalized
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`UPDATE customers
		 SET session_count = session_count + 1
		 FROM plans
		 WHERE customers.id = ?
		   AND plans.id = customers.plan_id
		   AND customers.session_count < plans.max_sessions`,
		c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to admit session: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		err = ErrSessionLimit
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s := &models.Session{
		ID:         uuid.New(),
		CustomerID: c.ID,
		Email:      c.Email,
		IssuedAt:   time.Now().UTC(),
	}

	logging.Info().
		Str("customer_id", c.ID.String()).
		Str("session_id", s.ID.String()).
		Msg("Session admitted")

	return s, nil
}

// SignOut decrements the customer's active session count. The count is
// floored at zero: decrementing an already-zero counter is a no-op, not an
// error.
func (db *DB) SignOut(ctx context.Context, session *models.Session) (err error) {
	mu := db.acquireCustomerLock(session.CustomerID.String())
	defer db.releaseCustomerLock(mu)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`UPDATE customers
		 SET session_count = session_count - 1
		 WHERE id = ? AND session_count > 0`,
		session.CustomerID)
	if err != nil {
		return fmt.Errorf("failed to release session: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info().
		Str("customer_id", session.CustomerID.String()).
		Str("session_id", session.ID.String()).
		Msg("Session released")

	return nil
}

// Terminate ends a caller's interaction: if a session is active it is signed
// out first. Terminate itself always succeeds; a sign-out failure is logged
// and swallowed because the caller is going away regardless.
func (db *DB) Terminate(ctx context.Context, session *models.Session) {
	if session == nil {
		return
	}
	if err := db.SignOut(ctx, session); err != nil {
		logging.Warn().
			Err(err).
			Str("customer_id", session.CustomerID.String()).
			Msg("Sign-out during terminate failed")
	}
}
