// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package complaints stores geolocated complaints and keeps their address
// data complete.
//
// Complaints live in a DuckDB table indexed by H3 cells at several
// resolutions. The repository filters them by district, status, time window,
// viewport or cell before they are handed to the hotspot clustering engine.
// Seed files move complaints in and out of the store, and BackfillDistricts
// fills missing districts through reverse geocoding.
package complaints
