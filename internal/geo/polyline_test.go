// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"
)

// googleExample is the worked example from Google's polyline format docs.
const googleExample = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDecodePolyline(t *testing.T) {
	t.Parallel()

	track, err := DecodePolyline(googleExample, PolylinePrecision)
	if err != nil {
		t.Fatalf("DecodePolyline() error = %v", err)
	}

	want := []Coordinate{
		{-120.2, 38.5},
		{-120.95, 40.7},
		{-126.453, 43.252},
	}
	if len(track) != len(want) {
		t.Fatalf("len(track) = %d, want %d", len(track), len(want))
	}
	for i, p := range track {
		if !almostEqual(p.Lon(), want[i].Lon()) || !almostEqual(p.Lat(), want[i].Lat()) {
			t.Errorf("point %d = %v, want %v", i, p, want[i])
		}
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	t.Parallel()

	track, err := DecodePolyline("", PolylinePrecision)
	if err != nil {
		t.Fatalf("DecodePolyline(\"\") error = %v", err)
	}
	if track == nil || len(track) != 0 {
		t.Errorf("DecodePolyline(\"\") = %#v, want empty non-nil track", track)
	}
}

func TestDecodePolyline_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		encoded string
	}{
		{"unterminated chunk", "_"},
		{"byte below the alphabet", "!!"},
		{"truncated after latitude", "_p~iF~ps|U_"},
		{"latitude without longitude", "_p~iF"},
		{"varint overflow", "~~~~~~~~~~~~~~~~~~~~~~~~~?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodePolyline(tt.encoded, PolylinePrecision)
			if !errors.Is(err, ErrMalformedPolyline) {
				t.Errorf("DecodePolyline(%q) error = %v, want ErrMalformedPolyline", tt.encoded, err)
			}
		})
	}
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	t.Parallel()

	track, err := DecodePolyline(googleExample, PolylinePrecision)
	if err != nil {
		t.Fatalf("DecodePolyline() error = %v", err)
	}
	if got := EncodePolyline(track, PolylinePrecision); got != googleExample {
		t.Errorf("EncodePolyline() = %q, want %q", got, googleExample)
	}
}

func TestPolyline_Precision(t *testing.T) {
	t.Parallel()

	in := Track{{-0.1275, 51.50722}, {-0.1280, 51.50800}}
	for _, precision := range []int{5, 6} {
		out, err := DecodePolyline(EncodePolyline(in, precision), precision)
		if err != nil {
			t.Fatalf("precision %d: decode error = %v", precision, err)
		}
		tol := math.Pow10(-precision)
		for i := range in {
			if math.Abs(out[i].Lon()-in[i].Lon()) > tol || math.Abs(out[i].Lat()-in[i].Lat()) > tol {
				t.Errorf("precision %d: point %d = %v, want %v", precision, i, out[i], in[i])
			}
		}
	}
}

func TestDecodePolyline_OverflowMessage(t *testing.T) {
	t.Parallel()

	_, err := DecodePolyline("~~~~~~~~~~~~~~~~~~~~~~~~~?", PolylinePrecision)
	if err == nil || !strings.Contains(err.Error(), "overflow") {
		t.Errorf("DecodePolyline() error = %v, want an overflow error", err)
	}
}

func assertTrackRoundTrip(t *testing.T, in Track) {
	t.Helper()

	encoded := EncodePolyline(in, PolylinePrecision)
	out, err := DecodePolyline(encoded, PolylinePrecision)
	if err != nil {
		t.Fatalf("DecodePolyline(%q) error = %v", encoded, err)
	}
	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if math.Abs(out[i].Lon()-in[i].Lon()) > 1e-6 || math.Abs(out[i].Lat()-in[i].Lat()) > 1e-6 {
			t.Errorf("point %d = %v, want %v", i, out[i], in[i])
		}
	}
	if got := EncodePolyline(out, PolylinePrecision); got != encoded {
		t.Errorf("re-encoded = %q, want %q", got, encoded)
	}
}

func TestPolyline_RoundTripTable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		track Track
	}{
		{"single point", Track{{-0.1275, 51.50722}}},
		{"zero delta", Track{{-0.1275, 51.50722}, {-0.1275, 51.50722}, {-0.1275, 51.50722}}},
		{"negative coordinates", Track{{-73.98513, -40.75889}, {-74.00001, -40.76}, {-73.9, -41.0}}},
		{"crosses both zero lines", Track{{-0.00001, -0.00001}, {0, 0}, {0.00001, 0.00001}}},
		{"extremes", Track{{-180, -90}, {180, 90}, {0, 0}}},
		{"southern hemisphere", Track{{151.20929, -33.86882}, {151.21, -33.87}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assertTrackRoundTrip(t, tt.track)
		})
	}
}

func TestPolyline_RoundTripRandom(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(7, 42))
	for n := 0; n < 50; n++ {
		track := make(Track, 1+rng.IntN(40))
		lon, lat := rng.IntN(36000000)-18000000, rng.IntN(18000000)-9000000
		for i := range track {
			// Steps stay on the 1e-5 grid and include zero deltas.
			lon += rng.IntN(201) - 100
			lat += rng.IntN(201) - 100
			track[i] = Coordinate{float64(lon) / 1e5, float64(lat) / 1e5}
		}
		assertTrackRoundTrip(t, track)
	}
}
