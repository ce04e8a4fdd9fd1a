// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/poster-atlas/posteratlas/internal/database"
	"github.com/poster-atlas/posteratlas/internal/ledger"
	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/metrics"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// maxLatestEditorIDs caps the batch size of a latest-editors request.
const maxLatestEditorIDs = 500

// PostStatusChange handles POST /api/v1/boards/{id}/status: appends a
// ledger entry and updates the board's current status atomically.
//
// Unlike reads, write failures surface to the caller: a silently dropped
// status change would lose a volunteer's field report.
func (h *Handler) PostStatusChange(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	boardID := chi.URLParam(r, "id")

	var req models.StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	status := models.BoardStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "status must be a valid board status", nil)
		return
	}

	record, err := h.store.RecordStatusChange(r.Context(), boardID, req.UserID, status, req.Note)
	if err != nil {
		if errors.Is(err, database.ErrBoardNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "board not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"failed to record status change, please retry", err)
		return
	}

	metrics.RecordStatusChange(string(status))
	logging.Ctx(r.Context()).Info().
		Str("board_id", sanitizeLogValue(boardID)).
		Str("status", string(status)).
		Msg("Status change recorded")

	respondSuccess(w, http.StatusCreated, record, start)
}

// GetBoardHistory handles GET /api/v1/boards/{id}/history: the board's
// full ledger, newest first, each entry joined with its editor's profile.
// Entries whose editor no longer exists carry a null user.
func (h *Handler) GetBoardHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	boardID := chi.URLParam(r, "id")

	records, err := h.store.BoardHistory(r.Context(), boardID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("History query failed, serving empty result")
		metrics.RecordDegradedRead("board_history")
		respondDegraded(w, models.HistoryResponse{BoardID: boardID, History: []models.HistoryRecordWithUser{}}, start)
		return
	}

	profiles, err := h.store.UserProfilesByIDs(r.Context(), ledger.DistinctUserIDs(records))
	if err != nil {
		// History itself loaded; render it with anonymous editors rather
		// than dropping the whole response.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Profile batch fetch failed, rendering history without editors")
		profiles = nil
	}

	history := ledger.AttachEditors(records, profiles)
	if history == nil {
		history = []models.HistoryRecordWithUser{}
	}

	respondSuccess(w, http.StatusOK, models.HistoryResponse{BoardID: boardID, History: history}, start)
}

// GetLatestEditors handles GET /api/v1/boards/latest-editors?ids=...:
// resolves the most recent editor for each requested board. Boards with
// no history map to null.
func (h *Handler) GetLatestEditors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ids := parseCommaSeparated(r.URL.Query().Get("ids"))
	if len(ids) == 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ids is required", nil)
		return
	}
	if len(ids) > maxLatestEditorIDs {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"ids exceeds the maximum batch size of 500", nil)
		return
	}

	editors, err := ledger.LatestEditors(r.Context(), h.store, ids)
	if err != nil {
		// Attribution is decoration on the map; serve all-null rather
		// than failing the viewport render.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Latest-editor resolution failed, serving null editors")
		metrics.RecordDegradedRead("latest_editors")
		editors = make(map[string]*models.LatestEditor, len(ids))
		for _, id := range ids {
			editors[id] = nil
		}
		respondDegraded(w, models.LatestEditorsResponse{Editors: editors}, start)
		return
	}

	respondSuccess(w, http.StatusOK, models.LatestEditorsResponse{Editors: editors}, start)
}

// GetStats handles GET /api/v1/stats/{prefecture}: the aggregate
// progress view. Both the aggregate fast path and the paginated fallback
// live in the store; if both fail the request errors out, because a
// fabricated zero-progress view is worse than an error.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	prefecture := chi.URLParam(r, "prefecture")

	prefStats, err := h.store.GetBoardStats(r.Context(), prefecture)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to compute stats", err)
		return
	}

	respondSuccess(w, http.StatusOK, prefStats, start)
}
