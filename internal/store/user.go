// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/carderne/hexy/internal/strava"
)

const userKeyPrefix = "user:"

// ErrUserNotFound is returned when no user is stored for an athlete ID.
var ErrUserNotFound = errors.New("user not found")

// OpError reports a failure of the underlying database. Callers use it to
// tell an unavailable store apart from a missing record.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// User is an athlete who has connected their Strava account. RefreshToken
// is plaintext here; only the stored copy is encrypted.
type User struct {
	ID           int64  `json:"id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
}

// Encryptor protects refresh tokens at rest. DecryptFallback returns its
// input unchanged when it is not a ciphertext, so rows written before
// encryption was enabled stay readable.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	DecryptFallback(s string) string
}

// UserStore persists users.
type UserStore interface {
	// Save upserts the credentials for athleteID.
	Save(ctx context.Context, athleteID int64, token *strava.TokenResponse) (*User, error)
	Get(ctx context.Context, athleteID int64) (*User, error)
	Delete(ctx context.Context, athleteID int64) error
}

// BadgerUserStore implements UserStore on BadgerDB.
type BadgerUserStore struct {
	db  *badger.DB
	enc Encryptor
}

// NewBadgerUserStore creates a user store. enc must not be nil.
func NewBadgerUserStore(db *badger.DB, enc Encryptor) *BadgerUserStore {
	return &BadgerUserStore{db: db, enc: enc}
}

func userKey(athleteID int64) []byte {
	return []byte(userKeyPrefix + strconv.FormatInt(athleteID, 10))
}

// Save implements UserStore.
func (s *BadgerUserStore) Save(_ context.Context, athleteID int64, token *strava.TokenResponse) (*User, error) {
	if token == nil {
		return nil, fmt.Errorf("save user %d: nil token", athleteID)
	}

	encrypted, err := s.enc.Encrypt(token.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("encrypt refresh token: %w", err)
	}
	data, err := json.Marshal(User{
		ID:           athleteID,
		AccessToken:  token.AccessToken,
		RefreshToken: encrypted,
		ExpiresAt:    token.ExpiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal user: %w", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(userKey(athleteID), data)
	}); err != nil {
		return nil, &OpError{Op: "save", Err: err}
	}

	return &User{
		ID:           athleteID,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
	}, nil
}

// Get implements UserStore.
func (s *BadgerUserStore) Get(_ context.Context, athleteID int64) (*User, error) {
	var user User
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(athleteID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, &OpError{Op: "get", Err: err}
	}

	user.RefreshToken = s.enc.DecryptFallback(user.RefreshToken)
	return &user, nil
}

// Delete implements UserStore. Deleting an unknown user is not an error.
func (s *BadgerUserStore) Delete(_ context.Context, athleteID int64) error {
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(userKey(athleteID))
	}); err != nil {
		return &OpError{Op: "delete", Err: err}
	}
	return nil
}
