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
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/reelgate/reelgate/internal/logging"
	"github.com/reelgate/reelgate/internal/models"
)

// RegisterCustomer creates a new customer account. The duplicate-email check
// and the insert happen within one transaction. The new customer starts with
// session_count = 0 on the requested plan.
func (db *DB) RegisterCustomer(ctx context.Context, email, password, firstName, lastName string, planID int) (customer *models.Customer, err error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

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

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		err = ErrDuplicateEmail
		return nil, err
	}

	var planExists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM plans WHERE id = ?)`, planID).Scan(&planExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check plan: %w", err)
	}
	if !planExists {
		err = ErrPlanNotFound
		return nil, err
	}

	c := &models.Customer{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		SessionCount: 0,
		PlanID:       planID,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO customers (id, email, password_hash, first_name, last_name, session_count, plan_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Email, c.PasswordHash, c.FirstName, c.LastName, c.SessionCount, c.PlanID, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info().
		Str("customer_id", c.ID.String()).
		Str("email", c.Email).
		Int("plan_id", c.PlanID).
		Msg("Customer registered")

	return c, nil
}

// Authenticate verifies an email/password pair and returns the customer
// record. A single ErrInvalidCredentials covers both an unknown email and a
// wrong password so callers cannot tell which field failed.
func (db *DB) Authenticate(ctx context.Context, email, password string) (*models.Customer, error) {
	c, err := db.getCustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return c, nil
}

// GetCustomer loads a customer by id.
func (db *DB) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	c, err := db.scanCustomer(db.conn.QueryRowContext(ctx,
		customerSelectColumns+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return c, nil
}

func (db *DB) getCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return db.scanCustomer(db.conn.QueryRowContext(ctx,
		customerSelectColumns+` WHERE email = ?`, email))
}

const customerSelectColumns = `SELECT id, email, password_hash, first_name, last_name, session_count, plan_id, created_at FROM customers`

func (db *DB) scanCustomer(row *sql.Row) (*models.Customer, error) {
	var c models.Customer
	err := row.Scan(&c.ID, &c.Email, &c.PasswordHash, &c.FirstName, &c.LastName, &c.SessionCount, &c.PlanID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
