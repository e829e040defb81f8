// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

// Package geo holds the geometry pipeline behind the activity map: polyline
// decoding, track extraction, home-region clustering, H3 tessellation and
// GeoJSON assembly.
//
// Everything in this package is a pure, synchronous transform over an
// immutable batch of activities. Nothing here performs I/O or logs; callers
// own fetching, cancellation and reporting of skipped records.
package geo

import (
	"time"

	"github.com/paulmach/orb"
)

// Coordinate is a (longitude, latitude) pair in degrees. Ranges are not validated.
type Coordinate = orb.Point

// Track is an ordered path of coordinates. It is never mutated once decoded.
type Track = orb.LineString

// Activity is the normalized form of one Strava activity.
type Activity struct {
	ID           int64
	Name         string
	Distance     float64
	MovingTime   int64
	ElapsedTime  int64
	StartDate    time.Time
	KudosCount   int32
	AverageSpeed float64
	SportType    string

	// Track is nil for activities without GPS data (e.g. manual entries).
	Track Track
}

// HasTrack reports whether the activity has at least one decoded point.
func (a Activity) HasTrack() bool {
	return len(a.Track) > 0
}

// ActivityProperties is the properties-only view of an Activity used for
// GeoJSON features. It never carries the track.
type ActivityProperties struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Distance     float64   `json:"distance"`
	MovingTime   int64     `json:"moving_time"`
	ElapsedTime  int64     `json:"elapsed_time"`
	StartDate    time.Time `json:"start_date"`
	KudosCount   int32     `json:"kudos_count"`
	AverageSpeed float64   `json:"average_speed"`
	SportType    string    `json:"sport_type"`
}

// Properties returns the descriptive fields of the activity.
func (a Activity) Properties() ActivityProperties {
	return ActivityProperties{
		ID:           a.ID,
		Name:         a.Name,
		Distance:     a.Distance,
		MovingTime:   a.MovingTime,
		ElapsedTime:  a.ElapsedTime,
		StartDate:    a.StartDate,
		KudosCount:   a.KudosCount,
		AverageSpeed: a.AverageSpeed,
		SportType:    a.SportType,
	}
}

// trackCentroid is the arithmetic mean of all points in the track.
func trackCentroid(t Track) (Coordinate, bool) {
	if len(t) == 0 {
		return Coordinate{}, false
	}
	return meanOf(t), true
}

func meanOf(points []orb.Point) Coordinate {
	var sumLon, sumLat float64
	for _, p := range points {
		sumLon += p[0]
		sumLat += p[1]
	}
	n := float64(len(points))
	return Coordinate{sumLon / n, sumLat / n}
}
