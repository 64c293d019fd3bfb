// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package hotspot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jcodagnone/hotmap/spatial"
)

// Defaults for the clustering engine. The cell size and radius formula are
// empirical values, tuned for city-scale complaint maps.
const (
	DefaultCellSize       = 0.05   // degrees, ~5 km at mid latitudes
	DefaultBaseRadius     = 1000.0 // meters
	DefaultRadiusPerPoint = 500.0  // meters
	DefaultZoom           = 5
)

// DefaultCenter is shown when there are no complaints at all (India).
var DefaultCenter = spatial.Point{Lat: 22.9734, Lng: 78.6569}

// ZoomTier maps the size of the densest cluster to an initial zoom level.
type ZoomTier struct {
	MinCount int `json:"min_count"`
	Zoom     int `json:"zoom"`
}

// DefaultZoomTiers returns the zoom tiers used when none are configured.
func DefaultZoomTiers() []ZoomTier {
	return []ZoomTier{
		{MinCount: 10, Zoom: 13},
		{MinCount: 5, Zoom: 12},
		{MinCount: 3, Zoom: 11},
		{MinCount: 0, Zoom: 10},
	}
}

// Options configures a Clusterer.
type Options struct {
	// CellSize is the side, in degrees, of the grid used for the first pass.
	CellSize float64

	// BaseRadius and RadiusPerPoint define the circle of a cluster of n
	// points as n*RadiusPerPoint + BaseRadius meters.
	BaseRadius     float64
	RadiusPerPoint float64

	// DefaultCenter and DefaultZoom are the focus returned when there are no
	// clusters.
	DefaultCenter spatial.Point
	DefaultZoom   int

	ZoomTiers []ZoomTier
	Tiers     []Tier
}

// DefaultOptions returns the options used by the package level functions.
func DefaultOptions() Options {
	return Options{
		CellSize:       DefaultCellSize,
		BaseRadius:     DefaultBaseRadius,
		RadiusPerPoint: DefaultRadiusPerPoint,
		DefaultCenter:  DefaultCenter,
		DefaultZoom:    DefaultZoom,
		ZoomTiers:      DefaultZoomTiers(),
		Tiers:          DefaultTiers(),
	}
}

// Validate checks that the options describe a usable clusterer.
func (o Options) Validate() error {
	if !(o.CellSize > 0) {
		return fmt.Errorf("cell size must be positive (got %f)", o.CellSize)
	}

	if !(o.RadiusPerPoint > 0) {
		return fmt.Errorf("radius per point must be positive (got %f)", o.RadiusPerPoint)
	}

	if !(o.BaseRadius >= 0) {
		return fmt.Errorf("base radius can't be negative (got %f)", o.BaseRadius)
	}

	if err := o.DefaultCenter.Validate(); err != nil {
		return fmt.Errorf("default center: %w", err)
	}

	if len(o.ZoomTiers) == 0 {
		return errors.New("at least one zoom tier is required")
	}

	if len(o.Tiers) == 0 {
		return errors.New("at least one density tier is required")
	}

	return nil
}

// normalized returns a copy of o whose tiers are sorted by descending
// MinCount, so lookups can stop at the first match.
func (o Options) normalized() Options {
	o.ZoomTiers = slices.Clone(o.ZoomTiers)
	slices.SortStableFunc(o.ZoomTiers, func(a, b ZoomTier) int {
		return b.MinCount - a.MinCount
	})

	o.Tiers = slices.Clone(o.Tiers)
	slices.SortStableFunc(o.Tiers, func(a, b Tier) int {
		return b.MinCount - a.MinCount
	})

	return o
}
