// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
)

// ListPlans returns all subscription plans in stable order by id.
func (db *DB) ListPlans(ctx context.Context) ([]models.Plan, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, resolution, max_sessions, monthly_fee FROM plans ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer closeWithLog(rows, "plan rows")

	var plans []models.Plan
	for rows.Next() {
		var p models.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Resolution, &p.MaxSessions, &p.MonthlyFee); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("plan rows iteration failed: %w", err)
	}

	return plans, nil
}

// GetPlan loads a single plan by id.
func (db *DB) GetPlan(ctx context.Context, id int) (*models.Plan, error) {
	var p models.Plan
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, resolution, max_sessions, monthly_fee FROM plans WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Resolution, &p.MaxSessions, &p.MonthlyFee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return &p, nil
}

// CurrentSubscription returns the active plan for the session's customer.
func (db *DB) CurrentSubscription(ctx context.Context, session *models.Session) (*models.Plan, error) {
	var p models.Plan
	err := db.conn.QueryRowContext(ctx,
		`SELECT p.id, p.name, p.resolution, p.max_sessions, p.monthly_fee
		 FROM plans p
		 JOIN customers c ON c.plan_id = p.id
		 WHERE c.id = ?`,
		session.CustomerID).
		Scan(&p.ID, &p.Name, &p.Resolution, &p.MaxSessions, &p.MonthlyFee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &p, nil
}

// ChangePlan moves the session's customer to a new plan.
//
// The downgrade rule compares plan capacities only, never the customer's live
// session_count: moving to a plan with a smaller max_sessions is rejected even
// when current usage would fit. This reproduces the upstream billing rule.
func (db *DB) ChangePlan(ctx context.Context, session *models.Session, newPlanID int) (customer *models.Customer, err error) {
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

	var newMax int
	err = tx.QueryRowContext(ctx, `SELECT max_sessions FROM plans WHERE id = ?`, newPlanID).Scan(&newMax)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrPlanNotFound
		} else {
			err = fmt.Errorf("failed to load target plan: %w", err)
		}
		return nil, err
	}

	var currentMax int
	err = tx.QueryRowContext(ctx,
		`SELECT p.max_sessions FROM plans p JOIN customers c ON c.plan_id = p.id WHERE c.id = ?`,
		session.CustomerID).Scan(&currentMax)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrCustomerNotFound
		} else {
			err = fmt.Errorf("failed to load current plan: %w", err)
		}
		return nil, err
	}

	if newMax < currentMax {
		err = ErrCapacityDowngrade
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `UPDATE customers SET plan_id = ? WHERE id = ?`, newPlanID, session.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info().
		Str("customer_id", session.CustomerID.String()).
		Int("plan_id", newPlanID).
		Msg("Plan changed")

	return db.GetCustomer(ctx, session.CustomerID)
}
