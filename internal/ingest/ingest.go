// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package ingest loads poster board locations from CSV files into the
// datastore. Imports are idempotent: re-running a file updates existing
// boards in place without touching their status or history.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// BoardUpserter is the datastore dependency of the importer. Satisfied by
// *database.DB.
type BoardUpserter interface {
	UpsertBoard(ctx context.Context, b *models.Board) error
}

// Result summarizes an import run.
type Result struct {
	Files    int
	Records  int
	Upserted int
}

// Options control an import run.
type Options struct {
	// DryRun parses and validates without writing.
	DryRun bool
}

// Run imports every CSV file matching the glob pattern. Any parse or
// write failure aborts the run: poster board data is the foundation the
// rest of the service stands on, and a half-imported file is worse than
// no import at all.
func Run(ctx context.Context, store BoardUpserter, pattern string, opts Options) (*Result, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CSV files match %q", pattern)
	}

	result := &Result{}
	for _, file := range files {
		records, err := loadFile(file)
		if err != nil {
			return nil, err
		}

		result.Files++
		result.Records += len(records)
		logging.Info().Str("file", file).Int("records", len(records)).
			Bool("dry_run", opts.DryRun).Msg("Parsed board file")

		if opts.DryRun {
			continue
		}

		for i := range records {
			if err := store.UpsertBoard(ctx, records[i].Board()); err != nil {
				return nil, fmt.Errorf("%s: upsert %s: %w", file, records[i].Key(), err)
			}
			result.Upserted++
		}
	}

	return result, nil
}

func loadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("file", path).Msg("Failed to close CSV file")
		}
	}()

	return ParseCSV(f, filepath.Base(path))
}
