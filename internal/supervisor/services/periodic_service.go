// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package services

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/metrics"
	"github.com/carderne/hexy/internal/store"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// PeriodicService runs a task every interval until canceled. A failing run
// is logged and retried on the next tick; it does not restart the service.
type PeriodicService struct {
	name     string
	interval time.Duration
	task     Task
}

// NewPeriodicService creates a periodic service. The first run happens one
// interval after Serve starts.
func NewPeriodicService(name string, interval time.Duration, task Task) *PeriodicService {
	return &PeriodicService{name: name, interval: interval, task: task}
}

// Serve implements suture.Service.
func (p *PeriodicService) Serve(ctx context.Context) error {
	log := logging.WithComponent(p.name)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.task(ctx); err != nil && ctx.Err() == nil {
				log.Warn().Err(err).Msg("Periodic task failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (p *PeriodicService) String() string {
	return p.name
}

// NewSessionCleanupService sweeps expired sessions and reports the number
// that remain.
func NewSessionCleanupService(sessions auth.SessionStore, interval time.Duration) *PeriodicService {
	return NewPeriodicService("session-cleanup", interval, func(ctx context.Context) error {
		removed, err := sessions.CleanupExpired(ctx)
		if err != nil {
			return err
		}
		remaining, err := sessions.Count(ctx)
		if err != nil {
			return err
		}
		metrics.RecordSessionCleanup(remaining, removed)
		if removed > 0 {
			logging.Debug().Int("removed", removed).Int("remaining", remaining).Msg("Expired sessions removed")
		}
		return nil
	})
}

// NewStoreGCService reclaims badger value log space.
func NewStoreGCService(db *badger.DB, interval time.Duration, ratio float64) *PeriodicService {
	return NewPeriodicService("store-gc", interval, func(context.Context) error {
		return store.RunGC(db, ratio)
	})
}
