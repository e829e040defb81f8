// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefixes for BadgerDB storage
const (
	sessionKeyPrefix        = "session:"
	sessionAthleteKeyPrefix = "session_athlete:"
)

// BadgerSessionStore implements SessionStore using BadgerDB for durable storage.
//
// Entries carry a badger TTL matching the session expiry, so expired sessions
// disappear on their own; CleanupExpired only sweeps what TTL rounding left.
type BadgerSessionStore struct {
	db *badger.DB
}

// NewBadgerSessionStore creates a new BadgerDB-backed session store.
func NewBadgerSessionStore(db *badger.DB) *BadgerSessionStore {
	return &BadgerSessionStore{db: db}
}

func sessionKey(id string) []byte {
	return []byte(sessionKeyPrefix + id)
}

func athletePrefix(athleteID int64) []byte {
	return []byte(sessionAthleteKeyPrefix + strconv.FormatInt(athleteID, 10) + ":")
}

func athleteKey(athleteID int64, id string) []byte {
	return append(athletePrefix(athleteID), id...)
}

// entryWithExpiry attaches a TTL when the expiry is still in the future.
func entryWithExpiry(key, value []byte, expiresAt time.Time) *badger.Entry {
	e := badger.NewEntry(key, value)
	if ttl := time.Until(expiresAt); ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return e
}

func (s *BadgerSessionStore) put(txn *badger.Txn, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := txn.SetEntry(entryWithExpiry(sessionKey(session.ID), data, session.ExpiresAt)); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	// Athlete-to-session mapping for DeleteByAthleteID
	if err := txn.SetEntry(entryWithExpiry(athleteKey(session.AthleteID, session.ID), []byte(session.ID), session.ExpiresAt)); err != nil {
		return fmt.Errorf("set athlete mapping: %w", err)
	}
	return nil
}

func getSession(txn *badger.Txn, id string) (*Session, error) {
	item, err := txn.Get(sessionKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session Session
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &session)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Create stores a new session.
func (s *BadgerSessionStore) Create(_ context.Context, session *Session) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return s.put(txn, session)
	})
}

// Get retrieves a session by ID.
func (s *BadgerSessionStore) Get(_ context.Context, id string) (*Session, error) {
	var session *Session
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		session, err = getSession(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		return nil, ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session by ID.
func (s *BadgerSessionStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return deleteSession(txn, id)
	})
}

func deleteSession(txn *badger.Txn, id string) error {
	session, err := getSession(txn, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil // Already deleted
	}
	if err != nil {
		return err
	}

	if err := txn.Delete(sessionKey(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if err := txn.Delete(athleteKey(session.AthleteID, id)); err != nil {
		return fmt.Errorf("delete athlete mapping: %w", err)
	}
	return nil
}

// DeleteByAthleteID removes all sessions for an athlete.
func (s *BadgerSessionStore) DeleteByAthleteID(_ context.Context, athleteID int64) (int, error) {
	count := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		var ids []string
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)

		prefix := athletePrefix(athleteID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				it.Close()
				return err
			}
		}
		it.Close()

		for _, id := range ids {
			if err := deleteSession(txn, id); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete athlete sessions: %w", err)
	}
	return count, nil
}

// Touch updates the session's last accessed time and extends expiry.
func (s *BadgerSessionStore) Touch(_ context.Context, id string, newExpiry time.Time) error {
	return s.db.Update(func(txn *badger.Txn) error {
		session, err := getSession(txn, id)
		if err != nil {
			return err
		}

		session.LastAccessedAt = time.Now()
		session.ExpiresAt = newExpiry
		return s.put(txn, session)
	})
}

// CleanupExpired removes all expired sessions.
func (s *BadgerSessionStore) CleanupExpired(_ context.Context) (int, error) {
	var expired []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var session Session
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &session)
			})
			if err != nil {
				continue
			}
			if session.IsExpired() {
				expired = append(expired, session.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	count := 0
	for _, id := range expired {
		if err := s.db.Update(func(txn *badger.Txn) error {
			return deleteSession(txn, id)
		}); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// Count returns the total number of sessions in the store.
func (s *BadgerSessionStore) Count(_ context.Context) (int, error) {
	count := 0

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(sessionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})

	return count, err
}
