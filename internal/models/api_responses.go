// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package models

import (
	"time"
)

// Outcome codes exposed to callers. Every operation reports exactly one of
// these; all store-level failure detail beyond the business-rule codes is
// deliberately collapsed into GENERIC_FAILURE.
const (
	CodeSuccess            = "SUCCESS"
	CodeGenericFailure     = "GENERIC_FAILURE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeSessionLimit       = "SESSION_LIMIT_REACHED"
	CodePlanNotFound       = "PLAN_NOT_FOUND"
	CodeCapacityDowngrade  = "CAPACITY_DOWNGRADE_REJECTED"
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "AUTHENTICATION_ERROR"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status is "success" or "error". Data carries the payload on success; Error
// carries the outcome code on failure.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"..."}}
//	{"status":"error","error":{"code":"SESSION_LIMIT_REACHED","message":"..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries a machine-readable outcome code and a human-readable
// message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
