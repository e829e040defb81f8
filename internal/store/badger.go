// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package store persists athletes and their Strava credentials in BadgerDB.
//
// The same database also carries the server-side sessions owned by the auth
// package; keys are namespaced by prefix so the two never collide.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/carderne/hexy/internal/config"
	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/metrics"
)

// Open opens (or creates) the database described by cfg. An in-memory
// database ignores the path and is lost on Close.
func Open(cfg *config.DatabaseConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
		opts.SyncWrites = cfg.SyncWrites
	}

	// Badger logs through its own logger otherwise.
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", opts.SyncWrites).
		Msg("Store opened")
	return db, nil
}

// RunGC reclaims value log space, repeating until badger reports there is
// nothing left to rewrite. It is a no-op for in-memory databases.
func RunGC(db *badger.DB, ratio float64) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreGC(time.Since(start), err)
	}()

	for {
		gcErr := db.RunValueLogGC(ratio)
		switch {
		case gcErr == nil:
			continue
		case errors.Is(gcErr, badger.ErrNoRewrite), errors.Is(gcErr, badger.ErrGCInMemoryMode):
			return nil
		default:
			return fmt.Errorf("run value log GC: %w", gcErr)
		}
	}
}
