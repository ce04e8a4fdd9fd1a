// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total_count": 34, "status_counts": {...}},
//	  "metadata": {
//	    "timestamp": "2026-08-29T12:00:00Z",
//	    "query_time_ms": 12
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "grid_size must be greater than 0",
//	    "details": {"field": "grid_size"}
//	  },
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
//
// Fields:
//   - Timestamp: Server time when response was generated (RFC3339 format)
//   - QueryTimeMS: Datastore query execution time in milliseconds
//   - Degraded: True when a read was served empty after a backend failure
//     (viewport and history reads fail soft; clients should treat the
//     result as possibly incomplete)
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Degraded    bool      `json:"degraded,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - DATABASE_ERROR: Query or write execution failure
//   - NOT_FOUND: Resource doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StatusChangeRequest is the body of a status change submission.
// UserID identifies the editor; identity resolution happens upstream and
// arrives here as an opaque ID.
type StatusChangeRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=1000"`
}

// BoardsResponse wraps a viewport query result.
type BoardsResponse struct {
	Boards []Board `json:"boards"`
	Count  int     `json:"count"`
}

// ClusteredBoardsResponse wraps a clustered viewport query result.
type ClusteredBoardsResponse struct {
	Clusters []ClusteredBoard `json:"clusters"`
	GridSize float64          `json:"grid_size"`
	Count    int              `json:"count"`
}

// HistoryResponse wraps a board's status ledger with attached editors.
type HistoryResponse struct {
	BoardID string                  `json:"board_id"`
	History []HistoryRecordWithUser `json:"history"`
}

// LatestEditorsResponse maps board IDs to their most recent editor.
// Boards with no recorded history map to null.
type LatestEditorsResponse struct {
	Editors map[string]*LatestEditor `json:"editors"`
}

// EditedBoardsResponse lists the board IDs a user has edited in a
// prefecture. Used by clients to evaluate the "only mine" filter.
type EditedBoardsResponse struct {
	BoardIDs []string `json:"board_ids"`
}
