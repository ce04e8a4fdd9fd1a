// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

// Package api provides the HTTP surface of the tracking engine: viewport
// and cluster queries, the status ledger, stats, search and typeahead.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/poster-atlas/posteratlas/internal/config"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// Store is the datastore dependency of the handlers. Satisfied by
// *database.DB; tests substitute an in-memory fake.
type Store interface {
	GetBoardsInViewport(ctx context.Context, prefecture string, v models.Viewport, limit int) ([]models.Board, error)
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	BoardsByPrefecture(ctx context.Context, prefecture string) ([]models.Board, error)
	GetBoardStats(ctx context.Context, prefecture string) (models.PrefectureStats, error)
	RecordStatusChange(ctx context.Context, boardID, userID string, status models.BoardStatus, note string) (*models.StatusHistoryRecord, error)
	BoardHistory(ctx context.Context, boardID string) ([]models.StatusHistoryRecord, error)
	HistoryForBoards(ctx context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error)
	UserProfilesByIDs(ctx context.Context, userIDs []string) ([]models.UserProfile, error)
	BoardIDsEditedBy(ctx context.Context, prefecture, userID string) ([]string, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies of all HTTP handlers.
type Handler struct {
	store Store
	cfg   *config.Config
}

// NewHandler creates a Handler backed by the given store.
func NewHandler(store Store, cfg *config.Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// HealthLive reports process liveness. Always 200 while the process can
// serve requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, map[string]string{"status": "alive"}, time.Now())
}

// HealthReady reports readiness: the datastore must answer a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "datastore unavailable", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "ready"}, start)
}
