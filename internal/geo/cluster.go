// hexy - Activity Heatmaps and Home Region Detection
// Copyright 2026 carderne
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/carderne/hexy

package geo

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
)

// DBSCAN parameters used to find the home region. Epsilon is in raw degrees,
// not a geodesic distance, so the effective radius shrinks east-west at
// higher latitudes.
const (
	ClusterEpsilon   = 0.1
	ClusterMinPoints = 10
)

// LabelKind classifies a point after a DBSCAN run.
type LabelKind int

const (
	Noise LabelKind = iota
	Border
	Core
)

func (k LabelKind) String() string {
	switch k {
	case Core:
		return "core"
	case Border:
		return "border"
	default:
		return "noise"
	}
}

// ClusterLabel is the DBSCAN classification of one point. Cluster is only
// meaningful for Border and Core labels; ids are assigned 0, 1, 2... in the
// order each cluster's first core point is discovered.
type ClusterLabel struct {
	Kind    LabelKind
	Cluster int
}

// FindDominantCentroid returns the home-region centroid of a batch of activities.
//
// Each activity with a non-empty track is reduced to the mean of its points,
// those centroids are clustered with DBSCAN, and the cluster with the most
// core points wins (ties go to the first cluster discovered). The result is
// the mean of the winning cluster's core points only.
//
// The boolean is false when no point is dense enough to be a core point.
func FindDominantCentroid(records []Activity) (Coordinate, bool) {
	points := make([]Coordinate, 0, len(records))
	for _, r := range records {
		if c, ok := trackCentroid(r.Track); ok {
			points = append(points, c)
		}
	}
	labels := DBSCAN(points, ClusterEpsilon, ClusterMinPoints)
	return dominantCentroid(points, labels)
}

// DBSCAN labels each point as Core, Border or Noise.
//
// A point is core when at least minPts points, itself included, lie within
// eps (Euclidean, inclusive). The scan visits points in slice order, so the
// output is fully determined by the input order.
func DBSCAN(points []Coordinate, eps float64, minPts int) []ClusterLabel {
	labels := make([]ClusterLabel, len(points))
	if len(points) == 0 {
		return labels
	}

	idx := newNeighbourIndex(points, eps)
	visited := make([]bool, len(points))
	next := 0

	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbours := idx.neighbours(i)
		if len(neighbours) < minPts {
			continue
		}

		id := next
		next++
		labels[i] = ClusterLabel{Kind: Core, Cluster: id}

		queue := neighbours
		for j := 0; j < len(queue); j++ {
			q := queue[j]
			if labels[q].Kind == Noise {
				labels[q] = ClusterLabel{Kind: Border, Cluster: id}
			}
			if visited[q] {
				continue
			}
			visited[q] = true

			qn := idx.neighbours(q)
			if len(qn) >= minPts {
				labels[q] = ClusterLabel{Kind: Core, Cluster: id}
				queue = append(queue, qn...)
			}
		}
	}
	return labels
}

func dominantCentroid(points []Coordinate, labels []ClusterLabel) (Coordinate, bool) {
	var coreCounts []int
	for _, l := range labels {
		if l.Kind != Core {
			continue
		}
		for len(coreCounts) <= l.Cluster {
			coreCounts = append(coreCounts, 0)
		}
		coreCounts[l.Cluster]++
	}

	best := -1
	for id, n := range coreCounts {
		if best == -1 || n > coreCounts[best] {
			best = id
		}
	}
	if best == -1 {
		return Coordinate{}, false
	}

	core := make([]Coordinate, 0, coreCounts[best])
	for i, l := range labels {
		if l.Kind == Core && l.Cluster == best {
			core = append(core, points[i])
		}
	}
	return meanOf(core), true
}

type indexedPoint struct {
	rect  rtreego.Rect
	index int
}

func (p indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// neighbourIndex answers eps-neighbourhood queries with an R-tree. Boxes are
// a superset of the eps disc; candidates are filtered by exact distance.
type neighbourIndex struct {
	points []Coordinate
	eps    float64
	tol    float64
	tree   *rtreego.Rtree
}

func newNeighbourIndex(points []Coordinate, eps float64) *neighbourIndex {
	tol := eps
	if tol <= 0 {
		tol = 1e-9
	}
	tree := rtreego.NewTree(2, 25, 50)
	for i, p := range points {
		tree.Insert(indexedPoint{rect: rtreego.Point{p[0], p[1]}.ToRect(tol / 2), index: i})
	}
	return &neighbourIndex{points: points, eps: eps, tol: tol, tree: tree}
}

// neighbours returns the indices within eps of point i, itself included,
// in ascending order.
func (n *neighbourIndex) neighbours(i int) []int {
	p := n.points[i]
	candidates := n.tree.SearchIntersect(rtreego.Point{p[0], p[1]}.ToRect(n.tol))

	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		j := c.(indexedPoint).index
		q := n.points[j]
		if math.Hypot(p[0]-q[0], p[1]-q[1]) <= n.eps {
			out = append(out, j)
		}
	}
	sort.Ints(out)
	return out
}
