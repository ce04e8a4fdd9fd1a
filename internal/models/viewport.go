// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package models

import (
	"errors"
	"fmt"
	"math"
)

// Viewport is a geographic bounding box in WGS84 degrees.
// North/South bound latitude, East/West bound longitude.
type Viewport struct {
	North float64 `json:"north" validate:"gte=-90,lte=90"`
	South float64 `json:"south" validate:"gte=-90,lte=90"`
	East  float64 `json:"east" validate:"gte=-180,lte=180"`
	West  float64 `json:"west" validate:"gte=-180,lte=180"`
}

var (
	// ErrInvertedViewport indicates south > north or west > east.
	ErrInvertedViewport = errors.New("viewport bounds are inverted")

	// ErrViewportOutOfRange indicates a coordinate outside WGS84 bounds.
	ErrViewportOutOfRange = errors.New("viewport coordinate out of range")
)

// Validate checks coordinate ranges and bound ordering.
// Antimeridian-crossing viewports are rejected; no supported prefecture
// spans the 180th meridian.
func (v Viewport) Validate() error {
	if v.North < -90 || v.North > 90 || v.South < -90 || v.South > 90 {
		return fmt.Errorf("%w: latitude must be within [-90, 90]", ErrViewportOutOfRange)
	}
	if v.East < -180 || v.East > 180 || v.West < -180 || v.West > 180 {
		return fmt.Errorf("%w: longitude must be within [-180, 180]", ErrViewportOutOfRange)
	}
	if v.South > v.North || v.West > v.East {
		return ErrInvertedViewport
	}
	return nil
}

// Contains reports whether the point lies inside the viewport, borders
// included.
func (v Viewport) Contains(lat, long float64) bool {
	return lat >= v.South && lat <= v.North && long >= v.West && long <= v.East
}

// DefaultViewport derives a bounding box around a center point for a given
// map zoom level. The extent halves with each zoom step above 10; the
// longitude span is wider than the latitude span to roughly match typical
// screen aspect ratios at Japanese latitudes.
func DefaultViewport(centerLat, centerLong float64, zoom int) Viewport {
	scale := math.Pow(2, float64(zoom-10))
	latRange := 0.5 / scale
	longRange := 0.7 / scale
	return Viewport{
		North: centerLat + latRange,
		South: centerLat - latRange,
		East:  centerLong + longRange,
		West:  centerLong - longRange,
	}
}
