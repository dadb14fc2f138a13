// Reelgate - Subscription Video Backend
// Copyright 2026 Reelgate Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelgate/reelgate

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

type mockCheckpointer struct {
	calls atomic.Int32
	err   error
}

func (m *mockCheckpointer) Checkpoint(ctx context.Context) error {
	m.calls.Add(1)
	return m.err
}

func TestCheckpointService_Interface(t *testing.T) {
	var _ suture.Service = (*CheckpointService)(nil)
}

func TestNewCheckpointService_MinimumInterval(t *testing.T) {
	svc := NewCheckpointService(&mockCheckpointer{}, time.Second, zerolog.Nop())
	if svc.interval != 15*time.Minute {
		t.Errorf("expected 15m default for sub-minute interval, got %v", svc.interval)
	}

	svc = NewCheckpointService(&mockCheckpointer{}, 5*time.Minute, zerolog.Nop())
	if svc.interval != 5*time.Minute {
		t.Errorf("expected 5m interval preserved, got %v", svc.interval)
	}
}

func TestCheckpointService_ServeStopsOnCancel(t *testing.T) {
	store := &mockCheckpointer{}
	svc := NewCheckpointService(store, time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestCheckpointService_RunsOnTick(t *testing.T) {
	store := &mockCheckpointer{}
	svc := NewCheckpointService(store, time.Hour, zerolog.Nop())
	// Shrink the interval after construction so the test ticks quickly
	// without tripping the minimum-interval guard.
	svc.interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_ = svc.Serve(ctx)

	if store.calls.Load() == 0 {
		t.Error("expected at least one checkpoint call")
	}
}

func TestCheckpointService_ContinuesAfterError(t *testing.T) {
	store := &mockCheckpointer{err: errors.New("db busy")}
	svc := NewCheckpointService(store, time.Hour, zerolog.Nop())
	svc.interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	_ = svc.Serve(ctx)

	if store.calls.Load() < 2 {
		t.Errorf("expected retries after checkpoint failure, got %d calls", store.calls.Load())
	}
}
