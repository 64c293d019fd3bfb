// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"

	"github.com/uber/h3-go/v4"
)

// Resolutions at which complaints are indexed.
const (
	MinCellResolution = 4
	MaxCellResolution = 8
)

// Cells returns the H3 cells containing p for every resolution between
// MinCellResolution and MaxCellResolution, coarsest first.
func (p Point) Cells() ([]int64, error) {
	latLng := h3.NewLatLng(p.Lat, p.Lng)
	cells := make([]int64, 0, MaxCellResolution-MinCellResolution+1)

	for res := MinCellResolution; res <= MaxCellResolution; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		cells = append(cells, int64(cell))
	}

	return cells, nil
}

// ParseCell parses an H3 index in its hexadecimal form and checks that its
// resolution is one complaints are indexed at.
func ParseCell(s string) (h3.Cell, error) {
	cell := h3.Cell(h3.IndexFromString(s))
	if !cell.IsValid() {
		return 0, fmt.Errorf("spatial: invalid h3 cell %q", s)
	}

	if res := cell.Resolution(); res < MinCellResolution || res > MaxCellResolution {
		return 0, errors.New("spatial: h3 cell resolution must be between 4 and 8")
	}

	return cell, nil
}
