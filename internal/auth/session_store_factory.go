// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package auth

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/carderne/hexy/internal/logging"
)

// NewSessionStore returns a BadgerSessionStore when db is set and a
// MemorySessionStore otherwise.
func NewSessionStore(db *badger.DB) SessionStore {
	if db == nil {
		logging.Warn().Msg("No database configured, sessions will not survive a restart")
		return NewMemorySessionStore()
	}
	return NewBadgerSessionStore(db)
}
