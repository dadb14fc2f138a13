// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

// Package auth issues and validates the signed session tokens that bind HTTP
// callers to admitted sessions. Tokens are stateless HMAC-SHA256 JWTs; the
// session itself (the counted sign-in) lives in the customers table as
// session_count.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/reelgate/reelgate/internal/config"
	"github.com/reelgate/reelgate/internal/models"
)

// Claims represents the JWT claims carried by a session token.
type Claims struct {
	CustomerID string `json:"customer_id"`
	SessionID  string `json:"session_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager handles session token creation and validation.
// Uses HS256 (HMAC with SHA-256); the secret must be at least 32 characters,
// enforced by config validation.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager creates a token manager from the security configuration.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
	}, nil
}

// GenerateToken creates a signed token for an admitted session. The token
// expires after the configured session timeout.
func (m *JWTManager) GenerateToken(session *models.Session) (string, error) {
	now := time.Now()
	claims := &Claims{
		CustomerID: session.CustomerID.String(),
		SessionID:  session.ID.String(),
		Email:      session.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies a token's signature, algorithm, and time claims and
// reconstructs the session it was issued for. Tokens signed with any
// algorithm other than HMAC are rejected to prevent algorithm confusion.
func (m *JWTManager) ValidateToken(tokenString string) (*models.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	customerID, err := uuid.Parse(claims.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("invalid customer id in token: %w", err)
	}
	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id in token: %w", err)
	}

	return &models.Session{
		ID:         sessionID,
		CustomerID: customerID,
		Email:      claims.Email,
		IssuedAt:   claims.IssuedAt.Time,
	}, nil
}
