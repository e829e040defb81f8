// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"context"
	"errors"
	"time"

	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/store"
	"github.com/carderne/hexy/internal/strava"
	"github.com/carderne/hexy/internal/web"
)

// ReadinessCheck reports whether a dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

// Handler holds the dependencies of every route.
type Handler struct {
	strava   strava.API
	users    store.UserStore
	sessions *auth.SessionMiddleware
	state    *auth.StateSigner
	pages    *web.Pages
	ready    ReadinessCheck

	startTime time.Time
	now       func() time.Time
}

// HandlerConfig lists the dependencies of NewHandler. Ready may be nil.
type HandlerConfig struct {
	Strava   strava.API
	Users    store.UserStore
	Sessions *auth.SessionMiddleware
	State    *auth.StateSigner
	Pages    *web.Pages
	Ready    ReadinessCheck
}

// NewHandler validates cfg and returns a Handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	switch {
	case cfg.Strava == nil:
		return nil, errors.New("api: strava client is required")
	case cfg.Users == nil:
		return nil, errors.New("api: user store is required")
	case cfg.Sessions == nil:
		return nil, errors.New("api: session middleware is required")
	case cfg.State == nil:
		return nil, errors.New("api: state signer is required")
	case cfg.Pages == nil:
		return nil, errors.New("api: pages are required")
	}

	ready := cfg.Ready
	if ready == nil {
		ready = func(context.Context) error { return nil }
	}

	return &Handler{
		strava:    cfg.Strava,
		users:     cfg.Users,
		sessions:  cfg.Sessions,
		state:     cfg.State,
		pages:     cfg.Pages,
		ready:     ready,
		startTime: time.Now(),
		now:       time.Now,
	}, nil
}
