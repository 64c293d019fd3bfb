// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package hotspot

import (
	"time"

	"github.com/jcodagnone/hotmap/spatial"
)

// UnknownDistrict labels clusters whose complaints carry no district.
const UnknownDistrict = "Unknown"

// GeoPoint is a geolocated complaint.
type GeoPoint struct {
	ID             string    `json:"id"`
	Seq            int       `json:"seq"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	SubCategory    string    `json:"subCategory"`
	Status         string    `json:"status"`
	Urgency        string    `json:"urgency"`
	SubmissionDate time.Time `json:"submissionDate"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	District       *string   `json:"district"`
	City           *string   `json:"city"`
	Locality       *string   `json:"locality"`
	Pin            *string   `json:"pin"`
}

// Point returns the complaint location.
func (p GeoPoint) Point() spatial.Point {
	return spatial.Point{Lat: p.Latitude, Lng: p.Longitude}
}

// HasDistrict reports whether the complaint carries a non empty district.
func (p GeoPoint) HasDistrict() bool {
	return p.District != nil && *p.District != ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}

	v := *s

	return &v
}

// clone returns a copy of p that shares no memory with it.
func (p GeoPoint) clone() GeoPoint {
	p.District = cloneString(p.District)
	p.City = cloneString(p.City)
	p.Locality = cloneString(p.Locality)
	p.Pin = cloneString(p.Pin)

	return p
}
