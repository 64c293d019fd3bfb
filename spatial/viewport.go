// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"strconv"
	"strings"
)

// Viewport is a latitude/longitude bounding box. When West > East the box
// crosses the antimeridian.
type Viewport struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// ParseViewport parses "south,west,north,east".
func ParseViewport(s string) (*Viewport, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("spatial: invalid bbox %q, expected south,west,north,east", s)
	}

	values := make([]float64, 4)

	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("spatial: invalid bbox component %q: %w", part, err)
		}

		values[i] = v
	}

	vp := &Viewport{South: values[0], West: values[1], North: values[2], East: values[3]}

	if err := (Point{Lat: vp.South, Lng: vp.West}).Validate(); err != nil {
		return nil, err
	}

	if err := (Point{Lat: vp.North, Lng: vp.East}).Validate(); err != nil {
		return nil, err
	}

	if vp.South > vp.North {
		return nil, fmt.Errorf("spatial: bbox south (%f) is north of north (%f)", vp.South, vp.North)
	}

	return vp, nil
}

// CrossesAntimeridian reports whether the box wraps around longitude ±180.
func (v *Viewport) CrossesAntimeridian() bool {
	return v.West > v.East
}

// Contains reports whether p lies inside the box, edges included.
func (v *Viewport) Contains(p Point) bool {
	if p.Lat < v.South || p.Lat > v.North {
		return false
	}

	if v.CrossesAntimeridian() {
		return p.Lng >= v.West || p.Lng <= v.East
	}

	return p.Lng >= v.West && p.Lng <= v.East
}
