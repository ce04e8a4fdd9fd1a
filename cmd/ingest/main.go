// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Command ingest loads poster board CSV files into the datastore.
//
// Usage:
//
//	ingest --pattern 'poster_data/**.csv' [--dry-run]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/poster-atlas/posteratlas/internal/config"
	"github.com/poster-atlas/posteratlas/internal/database"
	"github.com/poster-atlas/posteratlas/internal/ingest"
	"github.com/poster-atlas/posteratlas/internal/logging"
)

func main() {
	var (
		pattern string
		dryRun  bool
	)

	cmd := &cobra.Command{
		Use:           "ingest",
		Short:         "Import poster board CSV files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), pattern, dryRun)
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "poster_data/*.csv", "glob pattern of CSV files to import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without writing")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, pattern string, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Failed to close database")
		}
	}()

	result, err := ingest.Run(ctx, db, pattern, ingest.Options{DryRun: dryRun})
	if err != nil {
		return err
	}

	logging.Info().
		Int("files", result.Files).
		Int("records", result.Records).
		Int("upserted", result.Upserted).
		Bool("dry_run", dryRun).
		Msg("Import complete")
	return nil
}
