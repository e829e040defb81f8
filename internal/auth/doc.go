// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

/*
Package auth provides session management and credential protection for hexy.

Athletes sign in with Strava OAuth. Once the callback has exchanged the
authorization code, a server-side Session is created for the athlete and its
opaque ID is sent back in the "id" cookie.

Key Components:

  - TokenEncryptor: AES-256-GCM encryption of refresh tokens at rest, with
    HKDF-derived keys and rotation across several configured secrets
  - SessionStore: Session persistence (MemorySessionStore, BadgerSessionStore)
  - SessionMiddleware: Cookie handling plus Authenticate and RequireAuth
  - StateSigner: Short-lived signed OAuth state values for CSRF protection

Usage Example:

	store := auth.NewBadgerSessionStore(db)
	sessions := auth.NewSessionMiddleware(store, &auth.SessionMiddlewareConfig{
	    CookieName:   auth.DefaultCookieName,
	    SessionTTL:   cfg.Security.SessionTimeout,
	    CookieSecure: cfg.Security.CookieSecure,
	})

	r.Group(func(r chi.Router) {
	    r.Use(sessions.RequireAuth)
	    r.Get("/data", handler.Data)
	})
*/
package auth
