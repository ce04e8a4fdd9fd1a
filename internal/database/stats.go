// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/metrics"
	"github.com/poster-atlas/posteratlas/internal/models"
	"github.com/poster-atlas/posteratlas/internal/stats"
)

// statsScanPageSize is the page size for the fallback status scan. Larger
// than the board scan page because only the status column is fetched.
const statsScanPageSize = 5000

// statsBreaker wraps the aggregate fast path in a circuit breaker. When
// the aggregate query keeps failing the breaker opens and stats requests
// go straight to the paginated fallback instead of paying the failure
// latency every time.
type statsBreaker struct {
	cb *gobreaker.CircuitBreaker[map[models.BoardStatus]int]
}

func newStatsBreaker() *statsBreaker {
	return &statsBreaker{
		cb: gobreaker.NewCircuitBreaker[map[models.BoardStatus]int](gobreaker.Settings{
			Name:        "stats-aggregate",
			MaxRequests: 1,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Stats aggregate breaker state change")
			},
		}),
	}
}

// GetBoardStats returns the aggregate progress view for a prefecture.
//
// Fast path: a single GROUP BY aggregate, guarded by a circuit breaker.
// Fallback: a fixed-size paginated scan of the status column. Both paths
// feed the same reducer, so results are identical regardless of which
// path served the request.
func (db *DB) GetBoardStats(ctx context.Context, prefecture string) (models.PrefectureStats, error) {
	counts, err := db.statsBreaker.cb.Execute(func() (map[models.BoardStatus]int, error) {
		return db.statusCountsAggregate(ctx, prefecture)
	})
	if err != nil {
		logging.Warn().Err(err).Str("prefecture", prefecture).
			Msg("Stats aggregate unavailable, falling back to paginated scan")
		counts, err = db.statusCountsScan(ctx, prefecture)
		if err != nil {
			return models.PrefectureStats{}, fmt.Errorf("stats fallback scan failed: %w", err)
		}
	}

	return stats.BuildPrefectureStats(prefecture, counts), nil
}

// statusCountsAggregate is the single-query fast path.
func (db *DB) statusCountsAggregate(ctx context.Context, prefecture string) (map[models.BoardStatus]int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("stats_aggregate", "poster_boards", time.Since(start))
	}()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM poster_boards WHERE prefecture = ? GROUP BY status`,
		prefecture)
	if err != nil {
		return nil, fmt.Errorf("stats aggregate query failed: %w", err)
	}
	defer closeRows(rows)

	// Seed with the reducer's zero map so every status key is present.
	counts := stats.CountStatuses(nil)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("stats aggregate scan failed: %w", err)
		}
		s := models.BoardStatus(status)
		if !s.Valid() {
			s = models.StatusOther
		}
		counts[s] += n
	}
	return counts, rows.Err()
}

// statusCountsScan is the paginated fallback: status-only pages ordered
// by ID for a consistent walk, a short page marking exhaustion.
func (db *DB) statusCountsScan(ctx context.Context, prefecture string) (map[models.BoardStatus]int, error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("stats_scan", "poster_boards", time.Since(start))
	}()

	query := `SELECT status FROM poster_boards WHERE prefecture = ? ORDER BY id LIMIT ? OFFSET ?`

	var all []models.BoardStatus
	for offset := 0; ; offset += statsScanPageSize {
		rows, err := db.conn.QueryContext(ctx, query, prefecture, statsScanPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("stats scan failed at offset %d: %w", offset, err)
		}

		pageLen := 0
		for rows.Next() {
			var status string
			if err := rows.Scan(&status); err != nil {
				closeRows(rows)
				return nil, fmt.Errorf("stats scan row failed: %w", err)
			}
			all = append(all, models.BoardStatus(status))
			pageLen++
		}
		err = rows.Err()
		closeRows(rows)
		if err != nil {
			return nil, err
		}

		if pageLen < statsScanPageSize {
			return stats.CountStatuses(all), nil
		}
	}
}
