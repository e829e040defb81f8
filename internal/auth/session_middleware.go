// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carderne/hexy/internal/logging"
)

// DefaultCookieName is the session cookie the map client expects.
const DefaultCookieName = "id"

type contextKey string

const sessionContextKey contextKey = "session"

// SessionFromContext returns the session attached by Authenticate, or nil.
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}

// AthleteIDFromContext returns the signed-in athlete.
func AthleteIDFromContext(ctx context.Context) (int64, bool) {
	session := SessionFromContext(ctx)
	if session == nil {
		return 0, false
	}
	return session.AthleteID, true
}

// SessionMiddlewareConfig holds configuration for the session middleware.
type SessionMiddlewareConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string

	// SessionTTL is the session time-to-live.
	SessionTTL time.Duration

	// SlidingSession enables session expiry extension on each request.
	SlidingSession bool

	// CookiePath is the path for the session cookie.
	CookiePath string

	// CookieSecure sets the Secure flag on the cookie.
	CookieSecure bool
}

// DefaultSessionMiddlewareConfig returns sensible defaults.
func DefaultSessionMiddlewareConfig() *SessionMiddlewareConfig {
	return &SessionMiddlewareConfig{
		CookieName:     DefaultCookieName,
		SessionTTL:     30 * 24 * time.Hour,
		SlidingSession: true,
		CookiePath:     "/",
		CookieSecure:   true,
	}
}

// SessionMiddleware provides session-based authentication middleware.
type SessionMiddleware struct {
	store  SessionStore
	config *SessionMiddlewareConfig
}

// NewSessionMiddleware creates a new session middleware.
func NewSessionMiddleware(store SessionStore, config *SessionMiddlewareConfig) *SessionMiddleware {
	if config == nil {
		config = DefaultSessionMiddlewareConfig()
	}
	if config.CookieName == "" {
		config.CookieName = DefaultCookieName
	}
	if config.CookiePath == "" {
		config.CookiePath = "/"
	}
	return &SessionMiddleware{
		store:  store,
		config: config,
	}
}

// Authenticate is a middleware that extracts and validates the session from
// the request cookie. If valid, the session is attached to the request
// context. If no session is found, the request continues unauthenticated
// (use RequireAuth for protected routes).
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := m.SessionID(r)
		if sessionID == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.store.Get(r.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, ErrSessionNotFound) && !errors.Is(err, ErrSessionExpired) {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Session lookup error")
			}
			next.ServeHTTP(w, r)
			return
		}

		if m.config.SlidingSession {
			newExpiry := time.Now().Add(m.config.SessionTTL)
			if err := m.store.Touch(r.Context(), sessionID, newExpiry); err != nil {
				logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to touch session")
			} else {
				session.ExpiresAt = newExpiry
			}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, session)
		ctx = logging.ContextWithAthleteID(ctx, session.AthleteID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth is a middleware that requires a valid session.
// Returns 401 Unauthorized if no valid session is present.
func (m *SessionMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			http.Error(w, "Unauthorized: authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// SessionID returns the session ID carried by the request cookie, or "".
func (m *SessionMiddleware) SessionID(r *http.Request) string {
	cookie, err := r.Cookie(m.config.CookieName)
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}

// SetSessionCookie sets the session cookie on the response.
func (m *SessionMiddleware) SetSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sessionID,
		Path:     m.config.CookiePath,
		MaxAge:   int(m.config.SessionTTL.Seconds()),
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie.
func (m *SessionMiddleware) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     m.config.CookiePath,
		MaxAge:   -1,
		Secure:   m.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// CreateSession creates a new session for the athlete and sets the cookie.
// Any session the request already carried is deleted first so a session ID
// fixed before sign-in is never promoted.
func (m *SessionMiddleware) CreateSession(ctx context.Context, w http.ResponseWriter, r *http.Request, athleteID int64) (*Session, error) {
	if old := m.SessionID(r); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to delete previous session")
		}
	}

	session, err := NewSession(athleteID, m.config.SessionTTL)
	if err != nil {
		return nil, err
	}
	if err := m.store.Create(ctx, session); err != nil {
		return nil, err
	}

	m.SetSessionCookie(w, session.ID)
	return session, nil
}

// DestroySession deletes the request's session, if any, and clears the cookie.
func (m *SessionMiddleware) DestroySession(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.ClearSessionCookie(w)
	if id := m.SessionID(r); id != "" {
		return m.store.Delete(ctx, id)
	}
	return nil
}
