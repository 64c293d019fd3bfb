// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package hotspot

import (
	"fmt"
	"math"
	"slices"

	"github.com/jcodagnone/hotmap/spatial"
	"gonum.org/v1/gonum/stat"
)

// Cluster is a group of nearby complaints drawn as a single circle.
type Cluster struct {
	Center     spatial.Point `json:"center"`
	Count      int           `json:"count"`
	Complaints []GeoPoint    `json:"complaints"`
	District   string        `json:"district"`
}

// newCluster takes ownership of points.
func newCluster(points []GeoPoint) *Cluster {
	lats := make([]float64, len(points))
	lngs := make([]float64, len(points))

	for i, p := range points {
		lats[i] = p.Latitude
		lngs[i] = p.Longitude
	}

	return &Cluster{
		Center:     spatial.Point{Lat: stat.Mean(lats, nil), Lng: stat.Mean(lngs, nil)},
		Count:      len(points),
		Complaints: points,
		District:   dominantDistrict(points),
	}
}

// dominantDistrict returns the most frequent district. Ties go to the district
// seen first.
func dominantDistrict(points []GeoPoint) string {
	counts := make(map[string]int)
	order := make([]string, 0, 4)

	for _, p := range points {
		if !p.HasDistrict() {
			continue
		}

		if counts[*p.District] == 0 {
			order = append(order, *p.District)
		}

		counts[*p.District]++
	}

	best, bestCount := UnknownDistrict, 0

	for _, d := range order {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}

	return best
}

// Clusterer groups complaints into hotspots. It is immutable and safe for
// concurrent use.
type Clusterer struct {
	opts Options
}

// NewClusterer creates a clusterer with the given options.
func NewClusterer(opts Options) (*Clusterer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clustering options: %w", err)
	}

	return &Clusterer{opts: opts.normalized()}, nil
}

var defaultClusterer = &Clusterer{opts: DefaultOptions().normalized()}

// Options returns a copy of the clusterer configuration.
func (c *Clusterer) Options() Options {
	o := c.opts
	o.ZoomTiers = slices.Clone(o.ZoomTiers)
	o.Tiers = slices.Clone(o.Tiers)

	return o
}

// Radius returns the radius in meters of the circle of a cluster of count
// complaints.
func (c *Clusterer) Radius(count int) float64 {
	return float64(count)*c.opts.RadiusPerPoint + c.opts.BaseRadius
}

// Overlaps reports whether the circles of a and b touch or overlap.
func (c *Clusterer) Overlaps(a, b *Cluster) bool {
	return spatial.Distance(a.Center, b.Center) <= c.Radius(a.Count)+c.Radius(b.Count)
}

// Build groups points into clusters. Every point ends up in exactly one
// cluster; the input is not modified nor referenced by the result.
func (c *Clusterer) Build(points []GeoPoint) []*Cluster {
	return c.merge(c.bucketize(points))
}

type cellKey struct {
	row, col int64
}

func (c *Clusterer) cellOf(p GeoPoint) cellKey {
	return cellKey{
		row: int64(math.Floor(p.Latitude / c.opts.CellSize)),
		col: int64(math.Floor(p.Longitude / c.opts.CellSize)),
	}
}

// bucketize produces one cluster per occupied grid cell, in the order cells
// are first seen.
func (c *Clusterer) bucketize(points []GeoPoint) []*Cluster {
	index := make(map[cellKey]int)
	buckets := make([][]GeoPoint, 0)

	for _, p := range points {
		key := c.cellOf(p)

		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, nil)
		}

		buckets[i] = append(buckets[i], p.clone())
	}

	clusters := make([]*Cluster, len(buckets))
	for i, bucket := range buckets {
		clusters[i] = newCluster(bucket)
	}

	return clusters
}

// merge combines overlapping clusters until none overlap. The first
// overlapping pair in index order is merged into the lower index, as if the
// scan started over after every merge. Rows above the merged cluster were
// already clean, so only their pairs with the grown cluster are tested again.
func (c *Clusterer) merge(clusters []*Cluster) []*Cluster {
	for i := 0; i < len(clusters); {
		j := c.overlapAfter(clusters, i)
		if j < 0 {
			i++

			continue
		}

		for {
			clusters[i] = combine(clusters[i], clusters[j])
			clusters = slices.Delete(clusters, j, j+1)

			a := c.overlapBefore(clusters, i)
			if a < 0 {
				break
			}

			i, j = a, i
		}
	}

	return clusters
}

func combine(a, b *Cluster) *Cluster {
	points := make([]GeoPoint, 0, a.Count+b.Count)
	points = append(points, a.Complaints...)
	points = append(points, b.Complaints...)

	return newCluster(points)
}

// overlapAfter returns the first j > i whose cluster overlaps clusters[i], or -1.
func (c *Clusterer) overlapAfter(clusters []*Cluster, i int) int {
	for j := i + 1; j < len(clusters); j++ {
		if c.Overlaps(clusters[i], clusters[j]) {
			return j
		}
	}

	return -1
}

// overlapBefore returns the first a < i whose cluster overlaps clusters[i], or -1.
func (c *Clusterer) overlapBefore(clusters []*Cluster, i int) int {
	for a := range i {
		if c.Overlaps(clusters[a], clusters[i]) {
			return a
		}
	}

	return -1
}

// BuildClusters groups points into clusters using DefaultOptions.
func BuildClusters(points []GeoPoint) []*Cluster {
	return defaultClusterer.Build(points)
}

// Radius returns the default circle radius, in meters, for count complaints.
func Radius(count int) float64 {
	return defaultClusterer.Radius(count)
}
