// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package api serves the hexy HTTP surface on a chi router.
//
// Routes:
//
//	GET /                       map for signed-in athletes, connect page otherwise
//	GET /home, /privacy         static pages
//	GET /static/*               map client assets
//	GET /health                 plain-text liveness for load balancers
//	GET /api/v1/health/live     JSON liveness
//	GET /api/v1/health/ready    JSON readiness (store reachable)
//	GET /auth                   redirect to the Strava consent page
//	GET /callback               OAuth redirect target; signs the athlete in
//	GET /logout                 destroy the session
//	GET /data                   activities, H3 cells and home centroid
//	GET /metrics                Prometheus exposition
//
// /data returns the map client's raw payload. Every other JSON response,
// errors included, uses the APIResponse envelope.
package api
