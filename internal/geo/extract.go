// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"errors"
	"fmt"

	"github.com/carderne/hexy/internal/strava"
)

// ExtractError records an activity dropped from a batch because its
// polyline could not be decoded.
type ExtractError struct {
	ActivityID int64
	Err        error
}

func (e ExtractError) Error() string {
	return fmt.Sprintf("activity %d: %v", e.ActivityID, e.Err)
}

func (e ExtractError) Unwrap() error {
	return e.Err
}

// selectPolyline prefers the full-resolution polyline over the summary one.
// Empty strings count as absent.
func selectPolyline(m strava.Map) (string, bool) {
	if m.Polyline != "" {
		return m.Polyline, true
	}
	if m.SummaryPolyline != "" {
		return m.SummaryPolyline, true
	}
	return "", false
}

// Extract converts a raw Strava activity into an Activity.
//
// A missing polyline is not an error: the activity is returned without a
// track. A malformed polyline returns the activity without a track and an
// ExtractError wrapping ErrMalformedPolyline.
func Extract(raw strava.Activity) (Activity, error) {
	a := Activity{
		ID:           raw.ID,
		Name:         raw.Name,
		Distance:     raw.Distance,
		MovingTime:   raw.MovingTime,
		ElapsedTime:  raw.ElapsedTime,
		StartDate:    raw.StartDate,
		KudosCount:   raw.KudosCount,
		AverageSpeed: raw.AverageSpeed,
		SportType:    raw.SportType,
	}

	encoded, ok := selectPolyline(raw.Map)
	if !ok {
		return a, nil
	}

	track, err := DecodePolyline(encoded, PolylinePrecision)
	if err != nil {
		return a, ExtractError{ActivityID: raw.ID, Err: err}
	}
	a.Track = track
	return a, nil
}

// ExtractAll extracts a batch. Activities with malformed polylines are
// skipped and reported; the rest keep their input order.
func ExtractAll(raws []strava.Activity) ([]Activity, []ExtractError) {
	records := make([]Activity, 0, len(raws))
	var skipped []ExtractError
	for _, raw := range raws {
		a, err := Extract(raw)
		if err != nil {
			var ee ExtractError
			if !errors.As(err, &ee) {
				ee = ExtractError{ActivityID: raw.ID, Err: err}
			}
			skipped = append(skipped, ee)
			continue
		}
		records = append(records, a)
	}
	return records, skipped
}
