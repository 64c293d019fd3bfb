// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package hotspot groups geolocated complaints into density hotspots.
//
// Points are first bucketed into a coarse latitude/longitude grid, one cluster
// per occupied cell. Clusters whose circles touch are then merged, one pair at
// a time, until no two circles overlap. The radius of a circle grows with the
// number of complaints it holds, so dense areas absorb their neighbours.
//
// Everything in this package is pure and allocation-fresh: callers own their
// input, and the returned clusters never share memory with it.
package hotspot
