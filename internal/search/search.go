// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package search provides typeahead matching over in-memory board sets
// and the keyboard selection cursor that rides on top of the results.
package search

import (
	"strings"

	"github.com/poster-atlas/posteratlas/internal/models"
)

const (
	// MinQueryLength is the shortest query that produces results.
	// One-character queries match too broadly to be useful for typeahead.
	MinQueryLength = 2

	// MaxResults caps the typeahead result list.
	MaxResults = 10
)

// Search returns up to MaxResults boards whose number, name, address or
// city contains the query, case-insensitively. Queries shorter than
// MinQueryLength (after trimming) return an empty result. Input order is
// preserved; the input slice is never modified.
func Search(boards []models.Board, query string) []models.Board {
	q := strings.ToLower(strings.TrimSpace(query))
	if len([]rune(q)) < MinQueryLength {
		return []models.Board{}
	}

	out := make([]models.Board, 0, MaxResults)
	for _, b := range boards {
		if matches(b, q) {
			out = append(out, b)
			if len(out) == MaxResults {
				break
			}
		}
	}
	return out
}

func matches(b models.Board, q string) bool {
	return strings.Contains(strings.ToLower(b.Number), q) ||
		strings.Contains(strings.ToLower(b.Name), q) ||
		strings.Contains(strings.ToLower(b.Address), q) ||
		strings.Contains(strings.ToLower(b.City), q)
}

// Cursor tracks the keyboard-selected row in a typeahead result list.
// -1 means no selection. The cursor clamps at the last result and steps
// back through -1 when moving up from the first result.
type Cursor struct {
	index int
	size  int
}

// NewCursor returns an unselected cursor over zero results.
func NewCursor() Cursor {
	return Cursor{index: -1}
}

// Index returns the selected row, or -1 when nothing is selected.
func (c Cursor) Index() int {
	return c.index
}

// Resize informs the cursor of a new result count. Whenever the count
// changes, or the current selection falls out of bounds, the selection
// resets to -1 so a stale index never points at the wrong board.
func (c *Cursor) Resize(size int) {
	if size < 0 {
		size = 0
	}
	if size != c.size || c.index >= size {
		c.index = -1
	}
	c.size = size
}

// Next moves the selection down one row, clamping at the last result.
func (c *Cursor) Next() {
	if c.size == 0 {
		return
	}
	if c.index < c.size-1 {
		c.index++
	}
}

// Prev moves the selection up one row. Moving up from the first result
// clears the selection.
func (c *Cursor) Prev() {
	if c.index >= 0 {
		c.index--
	}
}

// Reset clears the selection.
func (c *Cursor) Reset() {
	c.index = -1
}
