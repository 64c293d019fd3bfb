// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"
)

const earthRadius = 6371e3 // meters

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	return Distance(*p, *other)
}

// Distance returns the great-circle distance in meters between a and b on a
// spherical Earth. It is symmetric and zero for identical points.
func Distance(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng

	// rounding near the poles and antipodes can push h slightly outside [0, 1]
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}

// ParsePoint parses a "lat,lng" pair.
func ParsePoint(s string) (Point, error) {
	var p Point
	if _, err := fmt.Sscanf(s, "%f,%f", &p.Lat, &p.Lng); err != nil {
		return Point{}, fmt.Errorf("spatial: invalid point %q, expected lat,lng: %w", s, err)
	}

	if err := p.Validate(); err != nil {
		return Point{}, err
	}

	return p, nil
}

// Validate reports whether the point holds finite coordinates within the
// geographic ranges.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("spatial: non-finite coordinates %v", p)
	}

	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("spatial: latitude must be between -90 and 90 (got %f)", p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("spatial: longitude must be between -180 and 180 (got %f)", p.Lng)
	}

	return nil
}
