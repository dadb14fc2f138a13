// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Checkpointer flushes the store's write-ahead log. Satisfied by
// *database.DB; the interface keeps this package free of a database import.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints the embedded database so crash
// recovery replays a short WAL instead of hours of writes.
type CheckpointService struct {
	store    Checkpointer
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCheckpointService creates a checkpoint service. Intervals under a minute
// are raised to the 15 minute default to avoid checkpoint churn under load.
func NewCheckpointService(store Checkpointer, interval time.Duration, logger zerolog.Logger) *CheckpointService {
	if interval < time.Minute {
		interval = 15 * time.Minute
	}
	return &CheckpointService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("component", "checkpoint").Logger(),
		name:     "db-checkpoint",
	}
}

// Serve implements suture.Service. A failed checkpoint is logged and retried
// on the next tick; only context cancellation ends the loop.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.Checkpoint(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Periodic checkpoint failed")
				continue
			}
			s.logger.Debug().
				Dur("duration", time.Since(start)).
				Msg("Checkpoint completed")
		}
	}
}

// String implements fmt.Stringer. Suture uses this to identify the service
// in log messages.
func (s *CheckpointService) String() string {
	return s.name
}
