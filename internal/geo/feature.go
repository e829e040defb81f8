// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"github.com/paulmach/orb/geojson"
)

// Feature is a GeoJSON feature for one activity. Geometry is nil, and
// serializes as null, when the activity has no track.
type Feature struct {
	Type       string             `json:"type"`
	Geometry   *geojson.Geometry  `json:"geometry"`
	Properties ActivityProperties `json:"properties"`
}

// FeatureCollection is a GeoJSON FeatureCollection of activities.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// ToFeatureCollection emits one feature per record, in input order.
func ToFeatureCollection(records []Activity) FeatureCollection {
	features := make([]Feature, 0, len(records))
	for _, r := range records {
		f := Feature{
			Type:       "Feature",
			Properties: r.Properties(),
		}
		if r.HasTrack() {
			f.Geometry = geojson.NewGeometry(r.Track)
		}
		features = append(features, f)
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}
