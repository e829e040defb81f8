// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package middleware provides the net/http middleware shared by every route.
//
// All middleware has the chi signature func(http.Handler) http.Handler:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.SecurityHeaders)
//	r.Use(middleware.PrometheusMetrics)
//
// RequestID accepts an upstream X-Request-ID or generates a UUID, echoes it
// on the response, and seeds the logging context with request and
// correlation IDs so logging.Ctx picks them up further down the chain.
//
// PrometheusMetrics labels requests by chi route pattern, not raw path, so
// the label set stays bounded.
package middleware
