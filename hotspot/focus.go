// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package hotspot

import "github.com/jcodagnone/hotmap/spatial"

// Focus is the initial map view.
type Focus struct {
	Center spatial.Point `json:"center"`
	Zoom   int           `json:"zoom"`
}

// Zoom returns the zoom level for a densest cluster of count complaints.
func (c *Clusterer) Zoom(count int) int {
	for _, tier := range c.opts.ZoomTiers {
		if count >= tier.MinCount {
			return tier.Zoom
		}
	}

	return c.opts.ZoomTiers[len(c.opts.ZoomTiers)-1].Zoom
}

// FocusPoint centers the map on the cluster with the most complaints, the
// first one on ties, or on the configured default when there are none.
func (c *Clusterer) FocusPoint(clusters []*Cluster) Focus {
	var top *Cluster

	for _, cluster := range clusters {
		if top == nil || cluster.Count > top.Count {
			top = cluster
		}
	}

	if top == nil {
		return Focus{Center: c.opts.DefaultCenter, Zoom: c.opts.DefaultZoom}
	}

	return Focus{Center: top.Center, Zoom: c.Zoom(top.Count)}
}

// FindFocusPoint picks the initial map view using DefaultOptions.
func FindFocusPoint(clusters []*Cluster) Focus {
	return defaultClusterer.FocusPoint(clusters)
}
