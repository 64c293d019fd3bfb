// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"

	"github.com/jcodagnone/hotmap/spatial"
)

// Address is the administrative location of a point.
type Address struct {
	District         string
	City             string
	Locality         string
	Pin              string
	FormattedAddress string
}

// Geocoder resolves points into addresses.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, p spatial.Point) (*Address, error)
}
