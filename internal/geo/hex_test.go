// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"math"
	"math/rand/v2"
	"regexp"
	"slices"
	"testing"

	"github.com/uber/h3-go/v4"
)

var cellPattern = regexp.MustCompile(`^89[0-9a-f]{13}$`)

func TestCover_KnownCell(t *testing.T) {
	t.Parallel()

	records := []Activity{activityAt(1, -122.41795063018799, 37.775938728915946)}
	got := CellStrings(Cover(records))
	if len(got) != 1 || got[0] != "8928308280fffff" {
		t.Errorf("Cover() = %v, want [8928308280fffff]", got)
	}
}

func TestCover_Line(t *testing.T) {
	t.Parallel()

	// About 1.1 km due east; resolution 9 cells are a few hundred metres across.
	records := []Activity{{ID: 1, Track: Track{{-0.13, 51.5}, {-0.115, 51.5}}}}
	cells := Cover(records)

	if len(cells) < 3 {
		t.Fatalf("Cover() = %d cells, want a run of cells along the line", len(cells))
	}
	if !slices.IsSorted(cells) {
		t.Error("Cover() result is not sorted")
	}
	for i := 1; i < len(cells); i++ {
		if cells[i] == cells[i-1] {
			t.Errorf("Cover() has duplicate %s", cells[i])
		}
	}
	for _, s := range CellStrings(cells) {
		if !cellPattern.MatchString(s) {
			t.Errorf("cell %q is not a lowercase resolution 9 index", s)
		}
	}
}

func TestCover_Deterministic(t *testing.T) {
	t.Parallel()

	records := []Activity{
		{ID: 1, Track: Track{{-0.13, 51.5}, {-0.12, 51.51}}},
		{ID: 2, Track: Track{{-0.125, 51.505}, {-0.11, 51.5}, {-0.1, 51.49}}},
		{ID: 3},
		{ID: 4, Track: Track{{-0.13, 51.5}, {-0.12, 51.51}}},
	}
	reversed := slices.Clone(records)
	slices.Reverse(reversed)

	a := CellStrings(Cover(records))
	b := CellStrings(Cover(records))
	c := CellStrings(Cover(reversed))

	if !slices.Equal(a, b) {
		t.Error("Cover() differs between identical calls")
	}
	if !slices.Equal(a, c) {
		t.Error("Cover() depends on record order")
	}
}

func TestCover_OverlappingTracksDeduplicated(t *testing.T) {
	t.Parallel()

	track := Track{{-0.13, 51.5}, {-0.12, 51.51}}
	one := Cover([]Activity{{ID: 1, Track: track}})
	two := Cover([]Activity{{ID: 1, Track: track}, {ID: 2, Track: track}})

	if !slices.Equal(one, two) {
		t.Errorf("identical tracks gave %d and %d cells", len(one), len(two))
	}
}

func TestCover_NoTracks(t *testing.T) {
	t.Parallel()

	cells := Cover([]Activity{{ID: 1}, {ID: 2, Track: Track{}}})
	if len(cells) != 0 {
		t.Errorf("Cover() = %v, want no cells", cells)
	}
	if got := CellStrings(cells); got == nil || len(got) != 0 {
		t.Errorf("CellStrings() = %#v, want empty non-nil slice", got)
	}
}

// sampledCells walks the segment in n equal steps and returns every cell hit.
func sampledCells(a, b Coordinate, n int) map[HexCell]bool {
	dLon, dLat := lonDelta(a[0], b[0]), b[1]-a[1]
	out := make(map[HexCell]bool)
	for i := 0; i <= n; i++ {
		f := float64(i) / float64(n)
		c := cellAt(Coordinate{normalizeLon(a[0] + dLon*f), a[1] + dLat*f})
		if c.IsValid() {
			out[HexCell(c)] = true
		}
	}
	return out
}

func TestCover_ContainsEveryTouchedCell(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(51, 9))
	for i := 0; i < 300; i++ {
		// Up to about 1 km in each direction around London.
		a := Coordinate{-0.2 + rng.Float64()*0.2, 51.4 + rng.Float64()*0.2}
		b := Coordinate{a[0] + (rng.Float64()*2-1)*0.0144, a[1] + (rng.Float64()*2-1)*0.009}

		got := make(map[HexCell]bool)
		for _, c := range Cover([]Activity{{ID: 1, Track: Track{a, b}}}) {
			got[c] = true
		}
		for c := range sampledCells(a, b, 4000) {
			if !got[c] {
				t.Errorf("segment %v -> %v: cell %s touched but not covered", a, b, c)
			}
		}
	}
}

func TestCover_OnlyTouchedCells(t *testing.T) {
	t.Parallel()

	a, b := Coordinate{-0.13, 51.5}, Coordinate{-0.115, 51.503}
	want := sampledCells(a, b, 20000)
	for _, c := range Cover([]Activity{{ID: 1, Track: Track{a, b}}}) {
		if !want[c] {
			t.Errorf("cell %s does not lie on the segment", c)
		}
	}
}

func TestCover_Antimeridian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		track Track
	}{
		{"eastbound", Track{{179.999, 0}, {-179.999, 0}}},
		{"westbound", Track{{-179.999, 10}, {179.999, 10.001}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cells := Cover([]Activity{{ID: 1, Track: tt.track}})
			if len(cells) == 0 || len(cells) > 10 {
				t.Fatalf("Cover() = %d cells, want a short run across the antimeridian", len(cells))
			}
			for _, c := range cells {
				if ll := h3.CellToLatLng(h3.Cell(c)); math.Abs(ll.Lng) < 179.9 {
					t.Errorf("cell %s at longitude %.4f is off the segment", c, ll.Lng)
				}
			}
		})
	}
}

func TestLonDelta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b, want float64
	}{
		{10, 20, 10},
		{20, 10, -10},
		{179.999, -179.999, 0.002},
		{-179.999, 179.999, -0.002},
		{-90, 90, 180},
	}
	for _, tt := range tests {
		if got := lonDelta(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("lonDelta(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	for in, want := range map[float64]float64{180.001: -179.999, -180.001: 179.999, 12: 12} {
		if got := normalizeLon(in); math.Abs(got-want) > 1e-9 {
			t.Errorf("normalizeLon(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestCover_LongSegmentAcrossAntimeridian(t *testing.T) {
	t.Parallel()

	// A 20 degree gap in a track, westward over the antimeridian.
	cells := Cover([]Activity{{ID: 1, Track: Track{{-170, 0}, {170, 1}}}})
	if len(cells) < 1000 {
		t.Fatalf("Cover() = %d cells, want an unbroken run", len(cells))
	}
	for _, c := range cells {
		if ll := h3.CellToLatLng(h3.Cell(c)); math.Abs(ll.Lng) < 169.99 {
			t.Fatalf("cell %s at longitude %.4f went the long way round", c, ll.Lng)
		}
	}
}
