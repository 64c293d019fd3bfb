// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package hotspot

import "slices"

// DensityTier is a coarse classification of a cluster size used for color
// coding.
type DensityTier string

const (
	TierLow    DensityTier = "low"
	TierMedium DensityTier = "medium"
	TierHigh   DensityTier = "high"
)

// Tier describes how clusters of at least MinCount complaints are drawn.
type Tier struct {
	Level    DensityTier `json:"level"`
	MinCount int         `json:"min_count"`
	Color    string      `json:"color"`
	Label    string      `json:"label"`
}

// DefaultTiers returns the density tiers used when none are configured.
func DefaultTiers() []Tier {
	return []Tier{
		{Level: TierHigh, MinCount: 5, Color: "#ef4444", Label: "High density (5+ complaints)"},
		{Level: TierMedium, MinCount: 2, Color: "#f97316", Label: "Medium density (2-4 complaints)"},
		{Level: TierLow, MinCount: 0, Color: "#3b82f6", Label: "Low density (1 complaint)"},
	}
}

// Tier returns the density tier for a cluster of count complaints.
func (c *Clusterer) Tier(count int) Tier {
	for _, tier := range c.opts.Tiers {
		if count >= tier.MinCount {
			return tier
		}
	}

	return c.opts.Tiers[len(c.opts.Tiers)-1]
}

// Legend returns the tiers, densest first.
func (c *Clusterer) Legend() []Tier {
	return slices.Clone(c.opts.Tiers)
}

// TierFor returns the default density tier for count complaints.
func TierFor(count int) DensityTier {
	return defaultClusterer.Tier(count).Level
}
