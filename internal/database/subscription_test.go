// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package database

import (
	"context"
	"errors"
	"testing"
)

func TestCurrentSubscription(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "sub@example.com", 2)

	plan, err := db.CurrentSubscription(ctx, session)
	if err != nil {
		t.Fatalf("CurrentSubscription failed: %v", err)
	}
	if plan.ID != 2 || plan.Name != "Advanced" {
		t.Errorf("Expected Advanced plan, got %d/%s", plan.ID, plan.Name)
	}
}

func TestChangePlanUpgrade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "up@example.com", 1)

	c, err := db.ChangePlan(ctx, session, 3)
	if err != nil {
		t.Fatalf("ChangePlan failed: %v", err)
	}
	if c.PlanID != 3 {
		t.Errorf("Expected plan 3, got %d", c.PlanID)
	}
}

func TestChangePlanNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "nf@example.com", 1)

	if _, err := db.ChangePlan(ctx, session, 42); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("Expected ErrPlanNotFound, got %v", err)
	}
}

// TestChangePlanDowngradeComparesTiersNotUsage verifies the downgrade rule
// compares plan capacities only. A customer with a single active session is
// still blocked from moving to a lower-capacity plan even though their live
// usage would fit.
func TestChangePlanDowngradeComparesTiersNotUsage(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Advanced (4 sessions), only 1 active
	session := registerAndSignIn(t, db, "down@example.com", 2)
	if got := sessionCount(t, db, "down@example.com"); got != 1 {
		t.Fatalf("Expected 1 active session, got %d", got)
	}

	// Basic caps at 2, which would fit the live usage, but the rule rejects
	if _, err := db.ChangePlan(ctx, session, 1); !errors.Is(err, ErrCapacityDowngrade) {
		t.Fatalf("Expected ErrCapacityDowngrade, got %v", err)
	}

	// Premium caps at 10, upgrade succeeds
	c, err := db.ChangePlan(ctx, session, 3)
	if err != nil {
		t.Fatalf("Upgrade failed: %v", err)
	}
	if c.PlanID != 3 {
		t.Errorf("Expected plan 3, got %d", c.PlanID)
	}
}

func TestChangePlanEqualCapacityAllowed(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	session := registerAndSignIn(t, db, "same@example.com", 1)

	// Moving to the same plan is not a downgrade
	c, err := db.ChangePlan(ctx, session, 1)
	if err != nil {
		t.Fatalf("ChangePlan to same plan failed: %v", err)
	}
	if c.PlanID != 1 {
		t.Errorf("Expected plan 1, got %d", c.PlanID)
	}
}

func TestGetPlan(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	p, err := db.GetPlan(ctx, 3)
	if err != nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if p.Resolution != "4K" || p.MaxSessions != 10 || p.MonthlyFee != 90 {
		t.Errorf("Unexpected Premium plan: %+v", p)
	}

	if _, err := db.GetPlan(ctx, 0); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("Expected ErrPlanNotFound, got %v", err)
	}
}
