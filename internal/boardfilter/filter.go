// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package boardfilter evaluates compound board filters: a status subset
// combined with an optional "only boards I edited" restriction.
package boardfilter

import (
	"github.com/poster-atlas/posteratlas/internal/models"
)

// State holds the active filter selection. The zero value matches
// nothing; use NewState for the default everything-visible selection.
type State struct {
	Statuses     map[models.BoardStatus]bool
	ShowOnlyMine bool
}

// NewState returns the default filter: all statuses enabled, ownership
// restriction off.
func NewState() State {
	s := State{Statuses: make(map[models.BoardStatus]bool, 8)}
	for _, status := range models.AllStatuses() {
		s.Statuses[status] = true
	}
	return s
}

// ToggleStatus flips membership of one status, leaving the rest of the
// state untouched.
func (s *State) ToggleStatus(status models.BoardStatus) {
	if s.Statuses == nil {
		s.Statuses = make(map[models.BoardStatus]bool, 8)
	}
	if s.Statuses[status] {
		delete(s.Statuses, status)
		return
	}
	s.Statuses[status] = true
}

// ToggleShowOnlyMine flips the ownership restriction, leaving the status
// selection untouched.
func (s *State) ToggleShowOnlyMine() {
	s.ShowOnlyMine = !s.ShowOnlyMine
}

// SelectAll enables every status. ShowOnlyMine is preserved.
func (s *State) SelectAll() {
	s.Statuses = make(map[models.BoardStatus]bool, 8)
	for _, status := range models.AllStatuses() {
		s.Statuses[status] = true
	}
}

// DeselectAll disables every status. ShowOnlyMine is preserved.
func (s *State) DeselectAll() {
	s.Statuses = make(map[models.BoardStatus]bool, 8)
}

// Matches reports whether a single board passes the filter.
//
// A board passes iff its status is in the enabled set AND, when
// ShowOnlyMine is on, its ID is in editedIDs. With ShowOnlyMine on and an
// empty or nil editedIDs set, nothing passes: an unresolved ownership set
// must not leak other users' boards.
func (s State) Matches(b models.Board, editedIDs map[string]bool) bool {
	if !s.Statuses[b.Status] {
		return false
	}
	if s.ShowOnlyMine && !editedIDs[b.ID] {
		return false
	}
	return true
}

// Apply filters boards, preserving input order. The input slice is never
// modified. Runs in O(len(boards)) with O(1) membership checks.
func (s State) Apply(boards []models.Board, editedIDs map[string]bool) []models.Board {
	out := make([]models.Board, 0, len(boards))
	for _, b := range boards {
		if s.Matches(b, editedIDs) {
			out = append(out, b)
		}
	}
	return out
}
