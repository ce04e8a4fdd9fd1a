// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/metrics"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// ErrInvalidStatus is returned when a status change carries a status
// outside the closed set.
var ErrInvalidStatus = errors.New("invalid board status")

const historyColumns = `id, board_id, user_id, status, note, created_at`

// RecordStatusChange appends a ledger entry and updates the board's
// current status in one transaction. Callers never observe a board whose
// status disagrees with its ledger head. Returns the created record.
//
// Write errors surface to the caller; a dropped status change would
// silently lose a volunteer's field report.
func (db *DB) RecordStatusChange(ctx context.Context, boardID, userID string, status models.BoardStatus, note string) (*models.StatusHistoryRecord, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("status_change", "poster_board_status_history", time.Since(start))
	}()

	record := &models.StatusHistoryRecord{
		ID:        uuid.New().String(),
		BoardID:   boardID,
		UserID:    userID,
		Status:    status,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin status change transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	// Guard against dangling ledger entries for unknown boards.
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM poster_boards WHERE id = ?)`, boardID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("board existence check failed: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, boardID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO poster_board_status_history (id, board_id, user_id, status, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		record.ID, record.BoardID, record.UserID, string(record.Status), record.Note, record.CreatedAt); err != nil {
		return nil, fmt.Errorf("history insert failed: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE poster_boards SET status = ?, updated_at = ? WHERE id = ?`,
		string(record.Status), record.CreatedAt, boardID); err != nil {
		return nil, fmt.Errorf("board status update failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("status change commit failed: %w", err)
	}
	return record, nil
}

// BoardHistory returns a board's full ledger, newest first.
func (db *DB) BoardHistory(ctx context.Context, boardID string) ([]models.StatusHistoryRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("history_select", "poster_board_status_history", time.Since(start))
	}()

	query := `SELECT ` + historyColumns + `
		FROM poster_board_status_history
		WHERE board_id = ?
		ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("history query failed: %w", err)
	}
	defer closeRows(rows)

	return scanHistory(rows)
}

// HistoryForBoards returns ledger rows for a batch of boards ordered by
// created_at descending, with ID as a deterministic tie-breaker. This is
// the fetch primitive behind ledger.LatestEditors.
func (db *DB) HistoryForBoards(ctx context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error) {
	if len(boardIDs) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("history_batch_select", "poster_board_status_history", time.Since(start))
	}()

	clause, args := inClause(boardIDs)
	query := `SELECT ` + historyColumns + `
		FROM poster_board_status_history
		WHERE board_id IN ` + clause + `
		ORDER BY created_at DESC, id DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history batch query failed: %w", err)
	}
	defer closeRows(rows)

	return scanHistory(rows)
}

// UserProfilesByIDs returns the profiles that exist for the given user
// IDs. Missing profiles are simply absent from the result; callers decide
// how to render deleted accounts.
func (db *DB) UserProfilesByIDs(ctx context.Context, userIDs []string) ([]models.UserProfile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("profiles_select", "user_profiles", time.Since(start))
	}()

	clause, args := inClause(userIDs)
	query := `SELECT id, name, address_prefecture FROM user_profiles WHERE id IN ` + clause

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("profiles query failed: %w", err)
	}
	defer closeRows(rows)

	var profiles []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(&p.ID, &p.Name, &p.AddressPrefecture); err != nil {
			return nil, fmt.Errorf("profile scan failed: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// UpsertUserProfile inserts or refreshes an editor profile.
func (db *DB) UpsertUserProfile(ctx context.Context, p *models.UserProfile) error {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_profiles (id, name, address_prefecture) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			address_prefecture = excluded.address_prefecture`,
		p.ID, p.Name, p.AddressPrefecture)
	if err != nil {
		return fmt.Errorf("profile upsert failed: %w", err)
	}
	return nil
}

func scanHistory(rows *sql.Rows) ([]models.StatusHistoryRecord, error) {
	var records []models.StatusHistoryRecord
	for rows.Next() {
		var (
			rec    models.StatusHistoryRecord
			status string
		)
		if err := rows.Scan(&rec.ID, &rec.BoardID, &rec.UserID, &status, &rec.Note, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("history scan failed: %w", err)
		}
		rec.Status = models.BoardStatus(status)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func rollbackQuietly(tx *sql.Tx) {
	// Rollback after a successful commit returns ErrTxDone; only real
	// rollback failures are worth a log line.
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Warn().Err(err).Msg("Transaction rollback failed")
	}
}
