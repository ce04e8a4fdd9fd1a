// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package database

import (
	"database/sql"
	"strings"

	"github.com/poster-atlas/posteratlas/internal/logging"
)

// closeRows closes a result set, logging instead of failing; a close
// error after a successful scan should not fail the read.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close rows")
	}
}

// inClause builds a "(?, ?, ...)" placeholder list and its argument slice
// for an IN condition. Callers must ensure values is non-empty.
func inClause(values []string) (string, []interface{}) {
	placeholders := make([]string, len(values))
	args := make([]interface{}, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		args[i] = v
	}
	return "(" + strings.Join(placeholders, ", ") + ")", args
}
