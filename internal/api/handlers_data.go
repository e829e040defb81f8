// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carderne/hexy/internal/auth"
	"github.com/carderne/hexy/internal/geo"
	"github.com/carderne/hexy/internal/logging"
	"github.com/carderne/hexy/internal/metrics"
	"github.com/carderne/hexy/internal/store"
	"github.com/carderne/hexy/internal/strava"
)

// Data returns the signed-in athlete's activities as GeoJSON together with
// the H3 cells they cover and the home-region centroid.
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	athleteID, ok := auth.AthleteIDFromContext(ctx)
	if !ok {
		respondError(w, r, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	user, err := h.currentUser(ctx, athleteID)
	if err != nil {
		respondFailure(w, r, err)
		return
	}

	raws, err := h.strava.Activities(ctx, user.AccessToken)
	if err != nil {
		respondFailure(w, r, upstream("list activities", err))
		return
	}

	start := time.Now()
	result := geo.Build(raws)
	metrics.RecordPipelineRun(time.Since(start), len(raws)-len(result.Skipped), len(result.Skipped), len(result.Cells), result.Centroid != nil)

	log := logging.Ctx(ctx)
	for _, skipped := range result.Skipped {
		log.Warn().Int64("activity_id", skipped.ActivityID).Err(skipped.Err).Msg("Skipped activity with malformed polyline")
	}
	log.Debug().
		Int("activities", len(raws)).
		Int("cells", len(result.Cells)).
		Bool("centroid", result.Centroid != nil).
		Msg("Built activity map")

	writeJSON(w, http.StatusOK, result)
}

// currentUser loads the athlete and refreshes their access token when it
// is about to expire. A refreshed token is stored before it is used.
func (h *Handler) currentUser(ctx context.Context, athleteID int64) (*store.User, error) {
	user, err := h.users.Get(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	if !strava.TokenExpired(user.ExpiresAt, h.now()) {
		return user, nil
	}

	token, err := h.strava.Refresh(ctx, user.RefreshToken)
	metrics.RecordTokenRefresh(err)
	if err != nil {
		if errors.Is(err, strava.ErrUnauthorized) {
			logging.Ctx(ctx).Warn().Msg("Strava rejected the refresh token")
		}
		return nil, upstream("refresh token", err)
	}

	logging.Ctx(ctx).Debug().Int64("expires_at", token.ExpiresAt).Msg("Refreshed access token")
	return h.users.Save(ctx, athleteID, token)
}
