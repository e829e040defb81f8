// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/carderne/hexy/internal/auth"
)

func runFor(t *testing.T, svc *PeriodicService, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
	}
}

func TestPeriodicService_RunsOnEveryTick(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	svc := NewPeriodicService("counter", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	runFor(t, svc, 200*time.Millisecond)

	if got := runs.Load(); got < 3 {
		t.Errorf("task ran %d times, want at least 3", got)
	}
	if svc.String() != "counter" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestPeriodicService_KeepsRunningAfterFailure(t *testing.T) {
	t.Parallel()

	var runs atomic.Int32
	svc := NewPeriodicService("flaky", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return errors.New("transient")
	})
	runFor(t, svc, 200*time.Millisecond)

	if got := runs.Load(); got < 2 {
		t.Errorf("task ran %d times, want the service to survive failures", got)
	}
}

func TestSessionCleanupService(t *testing.T) {
	t.Parallel()

	sessions := auth.NewMemorySessionStore()
	ctx := context.Background()
	for _, ttl := range []time.Duration{-time.Minute, -time.Second, time.Hour} {
		s, err := auth.NewSession(1, ttl)
		if err != nil {
			t.Fatalf("NewSession() error = %v", err)
		}
		_ = sessions.Create(ctx, s)
	}

	runFor(t, NewSessionCleanupService(sessions, 10*time.Millisecond), 100*time.Millisecond)

	if n, _ := sessions.Count(ctx); n != 1 {
		t.Errorf("sessions after cleanup = %d, want 1", n)
	}
}

func TestStoreGCService_InMemory(t *testing.T) {
	t.Parallel()

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	defer db.Close()

	runFor(t, NewStoreGCService(db, 10*time.Millisecond, 0.5), 50*time.Millisecond)
}
