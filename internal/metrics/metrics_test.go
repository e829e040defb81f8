// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful data request",
			method:     "GET",
			endpoint:   "/data",
			statusCode: "200",
			duration:   250 * time.Millisecond,
		},
		{
			name:       "unauthenticated data request",
			method:     "GET",
			endpoint:   "/data",
			statusCode: "401",
			duration:   time.Millisecond,
		},
		{
			name:       "health probe",
			method:     "GET",
			endpoint:   "/health",
			statusCode: "200",
			duration:   100 * time.Microsecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)
			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after != before+1 {
				t.Errorf("api_requests_total = %v, want %v", after, before+1)
			}
		})
	}
}

// TestTrackActiveRequest_RequestLifecycle simulates realistic request lifecycle
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	for i := 0; i < 10; i++ {
		TrackActiveRequest(true)
	}
	for i := 0; i < 4; i++ {
		TrackActiveRequest(false)
	}
	if got := testutil.ToFloat64(APIActiveRequests) - start; got != 6 {
		t.Errorf("active requests delta = %v, want 6", got)
	}

	for i := 0; i < 6; i++ {
		TrackActiveRequest(false)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active requests = %v, want %v", got, start)
	}
}

func TestRecordStravaCall(t *testing.T) {
	transportBefore := testutil.ToFloat64(StravaRequestErrors.WithLabelValues("activities", "transport"))
	statusBefore := testutil.ToFloat64(StravaRequestErrors.WithLabelValues("activities", "429"))

	RecordStravaCall("activities", 10*time.Millisecond, "", nil)
	RecordStravaCall("activities", 10*time.Millisecond, "", errors.New("connection reset"))
	RecordStravaCall("activities", 10*time.Millisecond, "429", errors.New("rate limited"))

	if got := testutil.ToFloat64(StravaRequestErrors.WithLabelValues("activities", "transport")); got != transportBefore+1 {
		t.Errorf("transport errors = %v, want %v", got, transportBefore+1)
	}
	if got := testutil.ToFloat64(StravaRequestErrors.WithLabelValues("activities", "429")); got != statusBefore+1 {
		t.Errorf("429 errors = %v, want %v", got, statusBefore+1)
	}
}

func TestRecordTokenRefresh(t *testing.T) {
	okBefore := testutil.ToFloat64(TokenRefreshes.WithLabelValues("success"))
	failBefore := testutil.ToFloat64(TokenRefreshes.WithLabelValues("failure"))

	RecordTokenRefresh(nil)
	RecordTokenRefresh(errors.New("invalid_grant"))

	if got := testutil.ToFloat64(TokenRefreshes.WithLabelValues("success")); got != okBefore+1 {
		t.Errorf("successful refreshes = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(TokenRefreshes.WithLabelValues("failure")); got != failBefore+1 {
		t.Errorf("failed refreshes = %v, want %v", got, failBefore+1)
	}
}

func TestRecordPipelineRun(t *testing.T) {
	decodedBefore := testutil.ToFloat64(PipelineActivities.WithLabelValues("decoded"))
	skippedBefore := testutil.ToFloat64(PipelineActivities.WithLabelValues("skipped"))
	foundBefore := testutil.ToFloat64(PipelineCentroidFound.WithLabelValues("true"))

	RecordPipelineRun(5*time.Millisecond, 12, 2, 340, true)

	if got := testutil.ToFloat64(PipelineActivities.WithLabelValues("decoded")); got != decodedBefore+12 {
		t.Errorf("decoded = %v, want %v", got, decodedBefore+12)
	}
	if got := testutil.ToFloat64(PipelineActivities.WithLabelValues("skipped")); got != skippedBefore+2 {
		t.Errorf("skipped = %v, want %v", got, skippedBefore+2)
	}
	if got := testutil.ToFloat64(PipelineCentroidFound.WithLabelValues("true")); got != foundBefore+1 {
		t.Errorf("centroid found = %v, want %v", got, foundBefore+1)
	}
}

func TestRecordSessionCleanup(t *testing.T) {
	before := testutil.ToFloat64(SessionsExpired)
	RecordSessionCleanup(7, 3)

	if got := testutil.ToFloat64(SessionsActive); got != 7 {
		t.Errorf("sessions_active = %v, want 7", got)
	}
	if got := testutil.ToFloat64(SessionsExpired); got != before+3 {
		t.Errorf("sessions_expired_total = %v, want %v", got, before+3)
	}
}
