// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"math"
	"slices"

	"github.com/uber/h3-go/v4"
)

// HexResolution is the H3 resolution of every cell the tessellator emits.
// Resolution 9 cells have an average edge of roughly 174 m.
const HexResolution = 9

const (
	// minSpanDegrees is the shortest sub-segment still split in two. A cell
	// the segment runs through for more than twice this length is found.
	minSpanDegrees = 1e-9

	// maxSegmentProbes bounds work on segments spanning large gaps in a track.
	maxSegmentProbes = 1 << 18
)

// HexCell is an H3 cell index. Cells order by their numeric value.
type HexCell h3.Cell

// String renders the cell as lowercase hexadecimal, e.g. "89283082803ffff".
func (c HexCell) String() string {
	return h3.Cell(c).String()
}

// Cover returns the sorted, deduplicated set of cells touched by the tracks
// of all records.
//
// Tracks are treated as lines. Each segment is split in half for as long as
// its two ends lie in different cells; a span whose ends share a cell lies
// inside that cell because cells are convex. Segments crossing the
// antimeridian take the short way round. Records without a track contribute
// nothing. The result does not depend on record order.
func Cover(records []Activity) []HexCell {
	var cells []HexCell
	for _, r := range records {
		if !r.HasTrack() {
			continue
		}
		cells = appendTrackCells(cells, r.Track)
	}

	slices.Sort(cells)
	return slices.Compact(cells)
}

// CellStrings renders cells for the wire, keeping their order.
func CellStrings(cells []HexCell) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = c.String()
	}
	return out
}

func appendTrackCells(cells []HexCell, t Track) []HexCell {
	cells = appendCell(cells, cellAt(t[0]))
	for i := 1; i < len(t); i++ {
		cells = appendSegmentCells(cells, t[i-1], t[i])
	}
	return cells
}

// span is a piece of a segment between fractions t0 and t1, with the cells
// at either end.
type span struct {
	t0, t1 float64
	c0, c1 h3.Cell
}

// appendSegmentCells appends every cell on the segment from a to b except
// the cell of a, which the caller has already added.
func appendSegmentCells(cells []HexCell, a, b Coordinate) []HexCell {
	dLon := lonDelta(a[0], b[0])
	dLat := b[1] - a[1]
	length := math.Hypot(dLon, dLat)

	end := cellAt(b)
	cells = appendCell(cells, end)
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return cells
	}

	at := func(f float64) Coordinate {
		return Coordinate{normalizeLon(a[0] + dLon*f), a[1] + dLat*f}
	}
	minFrac := minSpanDegrees / length

	stack := []span{{t0: 0, t1: 1, c0: cellAt(a), c1: end}}
	for probes := 0; len(stack) > 0 && probes < maxSegmentProbes; {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.c0 == s.c1 || s.t1-s.t0 <= minFrac {
			continue
		}

		mid := (s.t0 + s.t1) / 2
		c := cellAt(at(mid))
		probes++
		if c != s.c0 && c != s.c1 {
			cells = appendCell(cells, c)
		}
		stack = append(stack, span{s.t0, mid, s.c0, c}, span{mid, s.t1, c, s.c1})
	}
	return cells
}

// lonDelta is the signed longitude change from a to b along the shorter
// way round the globe.
func lonDelta(a, b float64) float64 {
	d := b - a
	switch {
	case d > 180:
		d -= 360
	case d < -180:
		d += 360
	}
	return d
}

// normalizeLon maps a longitude produced by lonDelta back into [-180, 180].
func normalizeLon(lon float64) float64 {
	switch {
	case lon > 180:
		return lon - 360
	case lon < -180:
		return lon + 360
	}
	return lon
}

func cellAt(p Coordinate) h3.Cell {
	return h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), HexResolution)
}

func appendCell(cells []HexCell, c h3.Cell) []HexCell {
	if !c.IsValid() {
		return cells
	}
	return append(cells, HexCell(c))
}
