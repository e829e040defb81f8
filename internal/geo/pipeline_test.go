// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"math"
	"testing"

	"github.com/goccy/go-json"

	"github.com/carderne/hexy/internal/strava"
)

// homeLoops returns n activities with short tracks around (lon, lat).
func homeLoops(n int, lon, lat float64) []strava.Activity {
	out := make([]strava.Activity, n)
	for i := range out {
		d := float64(i) * 0.002
		track := Track{{lon + d, lat}, {lon + d + 0.005, lat + 0.005}, {lon + d, lat + 0.01}}
		out[i] = rawActivity(int64(i+1), strava.Map{Polyline: EncodePolyline(track, PolylinePrecision)})
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Parallel()

	raws := homeLoops(10, -0.13, 51.5)
	raws = append(raws,
		rawActivity(100, strava.Map{}),
		rawActivity(101, strava.Map{Polyline: "_"}),
		rawActivity(102, strava.Map{SummaryPolyline: EncodePolyline(Track{{2.35, 48.85}}, PolylinePrecision)}),
	)

	res := Build(raws)

	if got := len(res.Activities.Features); got != 12 {
		t.Errorf("features = %d, want 12 (malformed one skipped)", got)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].ActivityID != 101 {
		t.Errorf("Skipped = %v, want activity 101", res.Skipped)
	}
	if len(res.Cells) == 0 {
		t.Error("Cells is empty")
	}
	if res.Centroid == nil {
		t.Fatal("Centroid = nil, want the London cluster")
	}
	if math.Abs(res.Centroid.X-(-0.1193)) > 0.001 || math.Abs(res.Centroid.Y-51.505) > 0.001 {
		t.Errorf("Centroid = %+v, want near (-0.1193, 51.505)", *res.Centroid)
	}
}

func TestBuild_NoCluster(t *testing.T) {
	t.Parallel()

	res := Build(homeLoops(3, -0.13, 51.5))
	if res.Centroid != nil {
		t.Errorf("Centroid = %+v, want nil with too few activities", *res.Centroid)
	}

	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(wire) != 3 {
		t.Errorf("wire keys = %d, want activities, cells and centroid only", len(wire))
	}
	if string(wire["centroid"]) != "null" {
		t.Errorf("centroid = %s, want null", wire["centroid"])
	}
}

func TestBuild_Empty(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Build(nil))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"activities":{"type":"FeatureCollection","features":[]},"cells":[],"centroid":null}`
	if string(data) != want {
		t.Errorf("Marshal(Build(nil)) = %s, want %s", data, want)
	}
}

func TestCentroid_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Centroid{X: -0.12, Y: 51.5})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(data), `{"x":-0.12,"y":51.5}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}
