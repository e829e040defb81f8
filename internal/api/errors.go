// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/store"
)

// errUpstream marks failures of a Strava call, whatever their cause.
var errUpstream = errors.New("strava request failed")

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", errUpstream, op, err)
}

// respondFailure maps err onto the envelope status and code:
// Strava failures are 401 so the client starts a fresh sign-in, store
// failures are 503, anything else is 500.
func respondFailure(w http.ResponseWriter, r *http.Request, err error) {
	log := logging.Ctx(r.Context())

	var opErr *store.OpError
	switch {
	case errors.Is(err, errUpstream):
		log.Warn().Err(err).Msg("Strava request failed")
		respondError(w, r, http.StatusUnauthorized, ErrCodeExternalService, "Strava request failed", nil)
	case errors.Is(err, store.ErrUserNotFound):
		log.Warn().Err(err).Msg("Session refers to an unknown athlete")
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
	case errors.As(err, &opErr):
		log.Error().Err(err).Str("op", opErr.Op).Msg("Store unavailable")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Storage unavailable", nil)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
	}
}
