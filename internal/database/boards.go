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

	"github.com/poster-atlas/posteratlas/internal/metrics"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// ErrBoardNotFound is returned when a board ID does not exist.
var ErrBoardNotFound = errors.New("board not found")

// DefaultViewportLimit caps viewport query results. A metropolitan
// viewport at street zoom stays well under this; anything larger should
// use the clustered endpoint.
const DefaultViewportLimit = 500

// scanPageSize is the page size for full-prefecture board scans.
const scanPageSize = 1000

const boardColumns = `id, prefecture, city, number, name, address, lat, long, status, created_at, updated_at`

// GetBoardsInViewport returns boards of a prefecture inside the bounding
// box, borders included, up to limit rows. A non-positive or oversized
// limit is clamped to DefaultViewportLimit.
func (db *DB) GetBoardsInViewport(ctx context.Context, prefecture string, v models.Viewport, limit int) ([]models.Board, error) {
	if limit <= 0 || limit > DefaultViewportLimit {
		limit = DefaultViewportLimit
	}

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("viewport_select", "poster_boards", time.Since(start))
	}()

	query := `SELECT ` + boardColumns + `
		FROM poster_boards
		WHERE prefecture = ?
		  AND lat BETWEEN ? AND ?
		  AND long BETWEEN ? AND ?
		LIMIT ?`

	rows, err := db.conn.QueryContext(ctx, query, prefecture, v.South, v.North, v.West, v.East, limit)
	if err != nil {
		return nil, fmt.Errorf("viewport query failed: %w", err)
	}
	defer closeRows(rows)

	return scanBoards(rows)
}

// GetBoard returns a single board by ID, or ErrBoardNotFound.
func (db *DB) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("board_select", "poster_boards", time.Since(start))
	}()

	query := `SELECT ` + boardColumns + ` FROM poster_boards WHERE id = ?`
	row := db.conn.QueryRowContext(ctx, query, id)

	b, err := scanBoard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBoardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("board query failed: %w", err)
	}
	return b, nil
}

// BoardsByPrefecture returns every board of a prefecture by scanning in
// fixed-size pages ordered by ID. A short page marks exhaustion. Feeds
// the search index and export paths; viewport rendering should use
// GetBoardsInViewport instead.
func (db *DB) BoardsByPrefecture(ctx context.Context, prefecture string) ([]models.Board, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("prefecture_scan", "poster_boards", time.Since(start))
	}()

	query := `SELECT ` + boardColumns + `
		FROM poster_boards
		WHERE prefecture = ?
		ORDER BY id
		LIMIT ? OFFSET ?`

	var all []models.Board
	for offset := 0; ; offset += scanPageSize {
		rows, err := db.conn.QueryContext(ctx, query, prefecture, scanPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("prefecture scan failed at offset %d: %w", offset, err)
		}

		page, err := scanBoards(rows)
		closeRows(rows)
		if err != nil {
			return nil, err
		}

		all = append(all, page...)
		if len(page) < scanPageSize {
			return all, nil
		}
	}
}

// UpsertBoard inserts a board or, on a (prefecture, city, number)
// conflict, refreshes its name, address and coordinates. Status and
// history are never touched by ingestion.
func (db *DB) UpsertBoard(ctx context.Context, b *models.Board) error {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("board_upsert", "poster_boards", time.Since(start))
	}()

	query := `INSERT INTO poster_boards
		(id, prefecture, city, number, name, address, lat, long, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, now(), now())
		ON CONFLICT (prefecture, city, number) DO UPDATE SET
			name = excluded.name,
			address = excluded.address,
			lat = excluded.lat,
			long = excluded.long,
			updated_at = now()`

	status := b.Status
	if status == "" {
		status = models.StatusNotYet
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	_, err := db.conn.ExecContext(ctx, query,
		b.ID, b.Prefecture, b.City, b.Number, b.Name, b.Address,
		nullFloat(b.Lat), nullFloat(b.Long), string(status))
	if err != nil {
		return fmt.Errorf("board upsert failed: %w", err)
	}
	return nil
}

// BoardIDsEditedBy returns the IDs of boards in a prefecture whose ledger
// contains at least one entry by the given user.
func (db *DB) BoardIDsEditedBy(ctx context.Context, prefecture, userID string) ([]string, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("edited_by_select", "poster_board_status_history", time.Since(start))
	}()

	query := `SELECT DISTINCT h.board_id
		FROM poster_board_status_history h
		JOIN poster_boards b ON b.id = h.board_id
		WHERE h.user_id = ? AND b.prefecture = ?
		ORDER BY h.board_id`

	rows, err := db.conn.QueryContext(ctx, query, userID, prefecture)
	if err != nil {
		return nil, fmt.Errorf("edited-by query failed: %w", err)
	}
	defer closeRows(rows)

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("edited-by scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBoard(row rowScanner) (*models.Board, error) {
	var (
		b         models.Board
		lat, long sql.NullFloat64
		status    string
	)
	err := row.Scan(&b.ID, &b.Prefecture, &b.City, &b.Number, &b.Name, &b.Address,
		&lat, &long, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}

	b.Status = models.BoardStatus(status)
	if lat.Valid {
		v := lat.Float64
		b.Lat = &v
	}
	if long.Valid {
		v := long.Float64
		b.Long = &v
	}
	return &b, nil
}

func scanBoards(rows *sql.Rows) ([]models.Board, error) {
	var boards []models.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("board scan failed: %w", err)
		}
		boards = append(boards, *b)
	}
	return boards, rows.Err()
}

func nullFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
