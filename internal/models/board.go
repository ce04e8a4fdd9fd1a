// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package models

import (
	"time"
)

// BoardStatus is the lifecycle state of a poster board. The set is closed:
// any value outside the constants below is rejected at the API boundary.
type BoardStatus string

const (
	// StatusNotYet means no poster has been placed yet.
	StatusNotYet BoardStatus = "not_yet"

	// StatusNotYetDangerous means no poster yet and the board is in a
	// hazardous location (field teams need a safety note).
	StatusNotYetDangerous BoardStatus = "not_yet_dangerous"

	// StatusReserved means a volunteer has claimed the board.
	StatusReserved BoardStatus = "reserved"

	// StatusDone means the poster has been placed successfully.
	StatusDone BoardStatus = "done"

	// StatusErrorWrongPlace means the registered coordinates do not match
	// the physical board location.
	StatusErrorWrongPlace BoardStatus = "error_wrong_place"

	// StatusErrorDamaged means the board is physically damaged.
	StatusErrorDamaged BoardStatus = "error_damaged"

	// StatusErrorWrongPoster means a poster for the wrong campaign was
	// placed on the board. Boards in this state are excluded from the
	// progress denominator.
	StatusErrorWrongPoster BoardStatus = "error_wrong_poster"

	// StatusOther covers anything the other states do not.
	StatusOther BoardStatus = "other"
)

// allStatuses is the canonical ordering used by AllStatuses and the stats
// endpoints. Keep the zero-progress states first, terminal states last.
var allStatuses = []BoardStatus{
	StatusNotYet,
	StatusNotYetDangerous,
	StatusReserved,
	StatusDone,
	StatusErrorWrongPlace,
	StatusErrorDamaged,
	StatusErrorWrongPoster,
	StatusOther,
}

// AllStatuses returns every valid board status in canonical order.
// The returned slice is a copy; callers may modify it freely.
func AllStatuses() []BoardStatus {
	out := make([]BoardStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// Valid reports whether s is one of the closed set of board statuses.
func (s BoardStatus) Valid() bool {
	switch s {
	case StatusNotYet, StatusNotYetDangerous, StatusReserved, StatusDone,
		StatusErrorWrongPlace, StatusErrorDamaged, StatusErrorWrongPoster, StatusOther:
		return true
	}
	return false
}

// Board is a single poster board location. Lat and Long are pointers
// because imported records may lack coordinates; such boards are excluded
// from map rendering and clustering but still count toward stats.
type Board struct {
	ID         string      `json:"id"`
	Prefecture string      `json:"prefecture"`
	City       string      `json:"city"`
	Number     string      `json:"number"`
	Name       string      `json:"name"`
	Address    string      `json:"address"`
	Lat        *float64    `json:"lat"`
	Long       *float64    `json:"long"`
	Status     BoardStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// HasCoordinates reports whether the board can be placed on a map.
func (b *Board) HasCoordinates() bool {
	return b.Lat != nil && b.Long != nil
}

// ClusteredBoard is one grid cell of a clustered viewport result.
// Lat/Long are the geometric center of the cell, Count the number of
// member boards. Boards carries the members so the client can expand a
// cluster without a second round trip.
type ClusteredBoard struct {
	Lat    float64 `json:"lat"`
	Long   float64 `json:"long"`
	Count  int     `json:"count"`
	Boards []Board `json:"boards"`
}

// StatusHistoryRecord is one append-only entry in a board's status ledger.
// Records are never updated or deleted.
type StatusHistoryRecord struct {
	ID        string      `json:"id"`
	BoardID   string      `json:"board_id"`
	UserID    string      `json:"user_id"`
	Status    BoardStatus `json:"status"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// UserProfile is the minimal editor identity attached to history records.
type UserProfile struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	AddressPrefecture string `json:"address_prefecture,omitempty"`
}

// HistoryRecordWithUser is a ledger entry joined with its editor's
// profile. User is nil when the profile no longer exists; the record
// itself is always preserved.
type HistoryRecordWithUser struct {
	StatusHistoryRecord
	User *UserProfile `json:"user"`
}

// LatestEditor identifies the most recent editor of a board.
type LatestEditor struct {
	UserID   string      `json:"user_id"`
	Status   BoardStatus `json:"status"`
	EditedAt time.Time   `json:"edited_at"`
}

// PrefectureStats is the aggregate progress view for one prefecture.
//
// Registered excludes boards in error_wrong_poster state, so ProgressRate
// reflects only boards that can still meaningfully receive a poster.
type PrefectureStats struct {
	Prefecture   string              `json:"prefecture"`
	TotalCount   int                 `json:"total_count"`
	StatusCounts map[BoardStatus]int `json:"status_counts"`
	Registered   int                 `json:"registered"`
	Completed    int                 `json:"completed"`
	ProgressRate int                 `json:"progress_rate"`
}
