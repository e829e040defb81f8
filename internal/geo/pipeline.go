// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import "github.com/carderne/hexy/internal/strava"

// Centroid is the wire form of the home-region centre consumed by the map
// client: X is longitude, Y is latitude.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is everything the map view needs for one athlete.
type Result struct {
	Activities FeatureCollection `json:"activities"`
	Cells      []string          `json:"cells"`
	Centroid   *Centroid         `json:"centroid"`

	// Skipped lists activities dropped for malformed polylines.
	Skipped []ExtractError `json:"-"`
}

// Build runs the full pipeline over a batch of raw activities.
//
// Clustering and tessellation are independent reads of the same immutable
// batch. They run one after the other here; a caller wanting them in
// parallel can call FindDominantCentroid and Cover itself.
func Build(raws []strava.Activity) Result {
	records, skipped := ExtractAll(raws)

	var centroid *Centroid
	if c, ok := FindDominantCentroid(records); ok {
		centroid = &Centroid{X: c.Lon(), Y: c.Lat()}
	}

	return Result{
		Activities: ToFeatureCollection(records),
		Cells:      CellStrings(Cover(records)),
		Centroid:   centroid,
		Skipped:    skipped,
	}
}
