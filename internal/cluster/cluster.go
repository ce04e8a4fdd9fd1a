// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package cluster groups poster boards into fixed grid cells for map
// rendering at low zoom levels.
package cluster

import (
	"math"
	"sort"

	"github.com/poster-atlas/posteratlas/internal/models"
)

// DefaultGridSize is the default cell edge in degrees, roughly 1.1 km of
// latitude. Suitable for prefecture-level zoom.
const DefaultGridSize = 0.01

type cellKey struct {
	lat  float64
	long float64
}

// Cluster buckets boards into a uniform grid of gridSize-degree cells.
// Each cell in the result carries its geometric center, its member count,
// and the member boards themselves.
//
// Boards without coordinates are excluded. The function is pure and
// deterministic: equal input yields equal output, with cells ordered by
// cell corner (south to north, then west to east). A non-positive
// gridSize returns nil.
func Cluster(boards []models.Board, gridSize float64) []models.ClusteredBoard {
	if gridSize <= 0 {
		return nil
	}

	cells := make(map[cellKey]*models.ClusteredBoard)
	for _, b := range boards {
		if !b.HasCoordinates() {
			continue
		}

		// Snap to the cell's southwest corner.
		cornerLat := math.Floor(*b.Lat/gridSize) * gridSize
		cornerLong := math.Floor(*b.Long/gridSize) * gridSize
		key := cellKey{lat: cornerLat, long: cornerLong}

		cell, ok := cells[key]
		if !ok {
			cell = &models.ClusteredBoard{
				Lat:  cornerLat + gridSize/2,
				Long: cornerLong + gridSize/2,
			}
			cells[key] = cell
		}
		cell.Count++
		cell.Boards = append(cell.Boards, b)
	}

	keys := make([]cellKey, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].lat != keys[j].lat {
			return keys[i].lat < keys[j].lat
		}
		return keys[i].long < keys[j].long
	})

	out := make([]models.ClusteredBoard, 0, len(keys))
	for _, k := range keys {
		out = append(out, *cells[k])
	}
	return out
}
