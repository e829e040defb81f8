// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/carderne/hexy/internal/logging"
)

const readinessTimeout = 2 * time.Second

// HealthStatus is the body of the JSON health endpoints.
type HealthStatus struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

// Health answers load balancer probes with a bare "ok".
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status: "alive",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}

// HealthReady reports whether the store can serve requests.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.ready(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Readiness check failed")
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Not ready", nil)
		return
	}

	respondSuccess(w, r, http.StatusOK, HealthStatus{
		Status: "ready",
		Uptime: time.Since(h.startTime).Seconds(),
	})
}
