// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package metrics exposes Prometheus instrumentation for the HTTP API, the
// Strava client and the geometry pipeline. Metrics are registered on the
// default registry and served at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Strava API Metrics
	StravaRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "strava_request_duration_seconds",
			Help:    "Duration of Strava API calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	StravaRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strava_request_errors_total",
			Help: "Total number of failed Strava API calls",
		},
		[]string{"operation", "status_code"},
	)

	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "strava_token_refreshes_total",
			Help: "Total number of access token refreshes",
		},
		[]string{"result"}, // "success", "failure"
	)

	// Pipeline Metrics
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duration of decode, cluster and tessellate runs",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	PipelineActivities = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_activities_total",
			Help: "Activities seen by the pipeline",
		},
		[]string{"outcome"}, // "decoded", "skipped"
	)

	PipelineCells = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_cells",
			Help:    "Number of distinct H3 cells per pipeline run",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		},
	)

	PipelineCentroidFound = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_centroid_total",
			Help: "Pipeline runs by whether a home-region centroid was found",
		},
		[]string{"found"},
	)

	// Session Metrics
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Sessions seen by the last cleanup pass",
		},
	)

	SessionsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_expired_total",
			Help: "Total number of sessions removed by cleanup",
		},
	)

	// Store Metrics
	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_gc_runs_total",
			Help: "Value log garbage collection passes by result",
		},
		[]string{"result"},
	)

	StoreGCDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "store_gc_duration_seconds",
			Help:    "Duration of value log garbage collection passes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordStravaCall records the outcome of one Strava API call. statusCode is
// empty for transport failures.
func RecordStravaCall(operation string, duration time.Duration, statusCode string, err error) {
	StravaRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		if statusCode == "" {
			statusCode = "transport"
		}
		StravaRequestErrors.WithLabelValues(operation, statusCode).Inc()
	}
}

// RecordTokenRefresh counts an access token refresh attempt.
func RecordTokenRefresh(err error) {
	if err != nil {
		TokenRefreshes.WithLabelValues("failure").Inc()
		return
	}
	TokenRefreshes.WithLabelValues("success").Inc()
}

// RecordPipelineRun records one pipeline run over a batch of activities.
func RecordPipelineRun(duration time.Duration, decoded, skipped, cells int, centroidFound bool) {
	PipelineDuration.Observe(duration.Seconds())
	PipelineActivities.WithLabelValues("decoded").Add(float64(decoded))
	PipelineActivities.WithLabelValues("skipped").Add(float64(skipped))
	PipelineCells.Observe(float64(cells))
	if centroidFound {
		PipelineCentroidFound.WithLabelValues("true").Inc()
	} else {
		PipelineCentroidFound.WithLabelValues("false").Inc()
	}
}

// RecordSessionCleanup records the result of one session cleanup pass.
func RecordSessionCleanup(remaining, removed int) {
	SessionsActive.Set(float64(remaining))
	SessionsExpired.Add(float64(removed))
}

// RecordStoreGC records one value log garbage collection pass.
func RecordStoreGC(duration time.Duration, err error) {
	StoreGCDuration.Observe(duration.Seconds())
	if err != nil {
		StoreGCRuns.WithLabelValues("failure").Inc()
		return
	}
	StoreGCRuns.WithLabelValues("success").Inc()
}
