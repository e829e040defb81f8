// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package strava

import "time"

// Athlete is the subset of the Strava athlete returned with a token.
type Athlete struct {
	ID        int64  `json:"id"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
}

// TokenResponse is the body of a successful /oauth/token call.
// The athlete is only present on the authorization_code grant.
type TokenResponse struct {
	Athlete      *Athlete `json:"athlete,omitempty"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
}

// Map holds the encoded route of an activity. Either polyline may be empty.
type Map struct {
	Polyline        string `json:"polyline,omitempty"`
	SummaryPolyline string `json:"summary_polyline,omitempty"`
}

// Activity is one entry of /api/v3/athlete/activities.
type Activity struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Distance     float64   `json:"distance"`
	MovingTime   int64     `json:"moving_time"`
	ElapsedTime  int64     `json:"elapsed_time"`
	StartDate    time.Time `json:"start_date"`
	KudosCount   int32     `json:"kudos_count"`
	AverageSpeed float64   `json:"average_speed"`
	SportType    string    `json:"sport_type"`
	Map          Map       `json:"map"`
}
