// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package stats computes poster board progress aggregates.
//
// The reduction logic is shared between the datastore aggregate fast path
// and the paginated fallback scan so both produce identical results.
package stats

import (
	"github.com/poster-atlas/posteratlas/internal/models"
)

// CountStatuses reduces a stream of statuses into a per-status count map.
// Every valid status key is present in the result, zero-valued when
// unseen, so clients never have to nil-check individual statuses.
// Invalid statuses are counted under models.StatusOther rather than
// dropped; the board still exists even if its state is unrecognized.
func CountStatuses(statuses []models.BoardStatus) map[models.BoardStatus]int {
	counts := make(map[models.BoardStatus]int, 8)
	for _, s := range models.AllStatuses() {
		counts[s] = 0
	}
	for _, s := range statuses {
		if !s.Valid() {
			s = models.StatusOther
		}
		counts[s]++
	}
	return counts
}

// Total sums all status counts.
func Total(counts map[models.BoardStatus]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// RegisteredCount returns the progress denominator: every board except
// those in error_wrong_poster state. Boards carrying the wrong campaign's
// poster cannot meaningfully receive this campaign's poster, so counting
// them would deflate the completion rate.
func RegisteredCount(counts map[models.BoardStatus]int) int {
	registered := 0
	for status, n := range counts {
		if status == models.StatusErrorWrongPoster {
			continue
		}
		registered += n
	}
	return registered
}

// CompletedCount returns the progress numerator: boards in done state.
func CompletedCount(counts map[models.BoardStatus]int) int {
	return counts[models.StatusDone]
}

// ProgressRate returns the completion percentage, floored to an integer.
// A zero or negative denominator yields 0, never a division error.
func ProgressRate(completed, registered int) int {
	if registered <= 0 {
		return 0
	}
	return completed * 100 / registered
}

// BuildPrefectureStats assembles the full aggregate view for a prefecture
// from a per-status count map.
func BuildPrefectureStats(prefecture string, counts map[models.BoardStatus]int) models.PrefectureStats {
	registered := RegisteredCount(counts)
	completed := CompletedCount(counts)
	return models.PrefectureStats{
		Prefecture:   prefecture,
		TotalCount:   Total(counts),
		StatusCounts: counts,
		Registered:   registered,
		Completed:    completed,
		ProgressRate: ProgressRate(completed, registered),
	}
}
