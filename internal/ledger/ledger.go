// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package ledger resolves editor attribution from the append-only status
// history: who touched a board last, and which profile belongs to each
// history record.
package ledger

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/poster-atlas/posteratlas/internal/models"
)

// batchSize bounds the number of board IDs per history fetch so a large
// viewport never produces an unbounded IN clause.
const batchSize = 100

// maxConcurrentBatches bounds the fan-out when resolving many batches.
const maxConcurrentBatches = 4

// HistoryFetcher is the datastore dependency of LatestEditors.
// HistoryForBoards must return all ledger rows for the given boards
// ordered by CreatedAt descending.
type HistoryFetcher interface {
	HistoryForBoards(ctx context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error)
}

// LatestEditors resolves the most recent editor for each board.
//
// Board IDs are partitioned into batches of 100 which are fetched
// concurrently; within each batch the rows arrive newest first and the
// first row seen per board wins. Boards with no history map to nil, so
// every requested ID is present in the result. Rows sharing an identical
// CreatedAt resolve by fetch order, which follows the datastore's
// secondary sort.
//
// Any batch error fails the whole resolution; a partial attribution map
// would silently misreport editors.
func LatestEditors(ctx context.Context, fetcher HistoryFetcher, boardIDs []string) (map[string]*models.LatestEditor, error) {
	result := make(map[string]*models.LatestEditor, len(boardIDs))
	for _, id := range boardIDs {
		result[id] = nil
	}
	if len(boardIDs) == 0 {
		return result, nil
	}

	batches := partition(boardIDs, batchSize)
	perBatch := make([]map[string]*models.LatestEditor, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for i, batch := range batches {
		g.Go(func() error {
			records, err := fetcher.HistoryForBoards(gctx, batch)
			if err != nil {
				return err
			}
			perBatch[i] = reduceLatest(records)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Batches partition the ID space, so merging is collision free.
	for _, m := range perBatch {
		for id, editor := range m {
			result[id] = editor
		}
	}
	return result, nil
}

// reduceLatest keeps the first (newest) record per board from a
// CreatedAt-descending stream.
func reduceLatest(records []models.StatusHistoryRecord) map[string]*models.LatestEditor {
	out := make(map[string]*models.LatestEditor)
	for _, rec := range records {
		if _, seen := out[rec.BoardID]; seen {
			continue
		}
		out[rec.BoardID] = &models.LatestEditor{
			UserID:   rec.UserID,
			Status:   rec.Status,
			EditedAt: rec.CreatedAt,
		}
	}
	return out
}

// AttachEditors joins history records with editor profiles. Records whose
// editor has no profile get a nil User; the record itself is preserved so
// history never loses entries to deleted accounts. Pure: neither input is
// modified and a new slice is returned.
func AttachEditors(records []models.StatusHistoryRecord, profiles []models.UserProfile) []models.HistoryRecordWithUser {
	byID := make(map[string]models.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	out := make([]models.HistoryRecordWithUser, len(records))
	for i, rec := range records {
		joined := models.HistoryRecordWithUser{StatusHistoryRecord: rec}
		if p, ok := byID[rec.UserID]; ok {
			profile := p
			joined.User = &profile
		}
		out[i] = joined
	}
	return out
}

// DistinctUserIDs returns the unique editor IDs in a record set, in first
// appearance order. Used to build the profile batch fetch for
// AttachEditors.
func DistinctUserIDs(records []models.StatusHistoryRecord) []string {
	seen := make(map[string]bool, len(records))
	var out []string
	for _, rec := range records {
		if rec.UserID == "" || seen[rec.UserID] {
			continue
		}
		seen[rec.UserID] = true
		out = append(out, rec.UserID)
	}
	return out
}

func partition(ids []string, size int) [][]string {
	var out [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		out = append(out, ids[start:end])
	}
	return out
}
