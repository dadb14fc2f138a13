// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Email    string   `validate:"required,email"`
	Password string   `validate:"required,min=8"`
	PlanID   int      `validate:"required,gt=0"`
	MovieIDs []string `validate:"omitempty,dive,required"`
}

func TestValidateStructPasses(t *testing.T) {
	t.Parallel()

	req := sampleRequest{
		Email:    "ok@example.com",
		Password: "long-enough",
		PlanID:   1,
		MovieIDs: []string{"tt0000001"},
	}
	if verr := ValidateStruct(&req); verr != nil {
		t.Fatalf("Expected valid struct, got %v", verr)
	}
}

func TestValidateStructSingleFailure(t *testing.T) {
	t.Parallel()

	req := sampleRequest{
		Email:    "not-an-email",
		Password: "long-enough",
		PlanID:   1,
	}
	verr := ValidateStruct(&req)
	if verr == nil {
		t.Fatal("Expected validation failure")
	}
	if len(verr.Errors()) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	if apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %s", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "valid email") {
		t.Errorf("Unexpected message: %s", apiErr.Message)
	}
	if apiErr.Details["field"] != "Email" {
		t.Errorf("Expected Email field in details, got %v", apiErr.Details["field"])
	}
}

func TestValidateStructMultipleFailures(t *testing.T) {
	t.Parallel()

	verr := ValidateStruct(&sampleRequest{})
	if verr == nil {
		t.Fatal("Expected validation failure")
	}
	if len(verr.Errors()) != 3 {
		t.Fatalf("Expected 3 errors, got %d", len(verr.Errors()))
	}

	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok {
		t.Fatalf("Expected fields detail, got %T", apiErr.Details["fields"])
	}
	if len(fields) != 3 {
		t.Errorf("Expected 3 field entries, got %d", len(fields))
	}
}

func TestTranslatedMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  sampleRequest
		want string
	}{
		{
			"short password",
			sampleRequest{Email: "ok@example.com", Password: "short", PlanID: 1},
			"Password must be at least 8 characters",
		},
		{
			"non-positive plan",
			sampleRequest{Email: "ok@example.com", Password: "long-enough", PlanID: -1},
			"PlanID must be greater than 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.req)
			if verr == nil {
				t.Fatal("Expected validation failure")
			}
			if got := verr.Error(); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
