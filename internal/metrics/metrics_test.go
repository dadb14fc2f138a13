// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.CollectAndCount(DBQueryDuration)

	RecordDBQuery("sign_in", 10*time.Millisecond, nil)
	RecordDBQuery("sign_in", 5*time.Millisecond, errors.New("store unavailable"))

	if after := testutil.CollectAndCount(DBQueryDuration); after <= before {
		t.Errorf("Expected query duration series to grow, before=%d after=%d", before, after)
	}
	if got := testutil.ToFloat64(DBQueryErrors.WithLabelValues("sign_in")); got < 1 {
		t.Errorf("Expected at least 1 query error recorded, got %f", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	RecordAPIRequest("POST", "/api/v1/auth/signin", "200", 20*time.Millisecond)

	got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/auth/signin", "200"))
	if got < 1 {
		t.Errorf("Expected request counter >= 1, got %f", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	before := testutil.ToFloat64(RecommendationsServed)

	RecordRecommendation(7)
	RecordRecommendation(0)

	after := testutil.ToFloat64(RecommendationsServed)
	if after-before != 2 {
		t.Errorf("Expected 2 more served recommendations, got %f", after-before)
	}
}

func TestSignInOutcomes(t *testing.T) {
	for _, outcome := range []string{"admitted", "limit_reached", "invalid_credentials"} {
		SignInsTotal.WithLabelValues(outcome).Inc()
		if got := testutil.ToFloat64(SignInsTotal.WithLabelValues(outcome)); got < 1 {
			t.Errorf("Expected sign-in counter for %s >= 1, got %f", outcome, got)
		}
	}
}
