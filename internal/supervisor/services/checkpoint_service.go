// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package services

import (
	"context"
	"time"

	"github.com/poster-atlas/posteratlas/internal/logging"
)

// Checkpointer matches the database method the service needs.
// Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically flushes the embedded database's WAL to
// the main file. Board imports and status changes land in the WAL first;
// without checkpoints a crash forces a long WAL replay on the next start.
//
// A failed checkpoint is logged and retried on the next tick rather than
// crashing the service: the data is still durable in the WAL.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
	name     string
}

// NewCheckpointService creates a checkpoint loop with the given interval.
// Intervals <= 0 default to 5 minutes.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{
		db:       db,
		interval: interval,
		name:     "db-checkpoint",
	}
}

// Serve implements suture.Service.
func (c *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.db.Checkpoint(ctx); err != nil {
				logging.Warn().Err(err).Msg("Database checkpoint failed")
				continue
			}
			logging.Debug().Msg("Database checkpoint complete")
		}
	}
}

// String implements fmt.Stringer for suture log messages.
func (c *CheckpointService) String() string {
	return c.name
}
