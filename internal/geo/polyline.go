// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/twpayne/go-polyline"
)

// PolylinePrecision is the number of decimal digits Strava encodes polylines with.
const PolylinePrecision = 5

// ErrMalformedPolyline indicates structural corruption in an encoded path string.
var ErrMalformedPolyline = errors.New("malformed polyline")

func codecFor(precision int) polyline.Codec {
	return polyline.Codec{Dim: 2, Scale: math.Pow10(precision)}
}

// DecodePolyline decodes a Google encoded polyline into a Track.
//
// Encoded pairs are (lat, lon); the returned points are orb.Point{lon, lat}.
// An empty string decodes to an empty, non-nil Track.
func DecodePolyline(encoded string, precision int) (Track, error) {
	if encoded == "" {
		return Track{}, nil
	}

	coords, rest, err := codecFor(precision).DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPolyline, err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPolyline, len(rest))
	}

	track := make(Track, 0, len(coords))
	for i, c := range coords {
		if len(c) != 2 {
			return nil, fmt.Errorf("%w: coordinate %d has %d components", ErrMalformedPolyline, i, len(c))
		}
		lat, lon := c[0], c[1]
		if math.IsInf(lat, 0) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsNaN(lon) {
			return nil, fmt.Errorf("%w: coordinate %d overflowed", ErrMalformedPolyline, i)
		}
		track = append(track, orb.Point{lon, lat})
	}
	return track, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(track Track, precision int) string {
	coords := make([][]float64, len(track))
	for i, p := range track {
		coords[i] = []float64{p.Lat(), p.Lon()}
	}
	return string(codecFor(precision).EncodeCoords(nil, coords))
}
