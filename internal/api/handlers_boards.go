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

	"github.com/poster-atlas/posteratlas/internal/boardfilter"
	"github.com/poster-atlas/posteratlas/internal/cluster"
	"github.com/poster-atlas/posteratlas/internal/database"
	"github.com/poster-atlas/posteratlas/internal/logging"
	"github.com/poster-atlas/posteratlas/internal/metrics"
	"github.com/poster-atlas/posteratlas/internal/models"
	"github.com/poster-atlas/posteratlas/internal/search"
)

// ViewportRequest carries the validated parameters of a viewport query.
type ViewportRequest struct {
	Prefecture string  `validate:"required,max=32"`
	North      float64 `validate:"gte=-90,lte=90"`
	South      float64 `validate:"gte=-90,lte=90"`
	East       float64 `validate:"gte=-180,lte=180"`
	West       float64 `validate:"gte=-180,lte=180"`
	Limit      int     `validate:"gte=0,lte=500"`
}

// parseViewportRequest extracts and validates viewport parameters.
// Returns nil and writes the error response when the request is invalid.
func (h *Handler) parseViewportRequest(w http.ResponseWriter, r *http.Request) *ViewportRequest {
	req := &ViewportRequest{
		Prefecture: r.URL.Query().Get("prefecture"),
		Limit:      getIntParam(r, "limit", 0),
	}

	coords := map[string]*float64{
		"north": &req.North, "south": &req.South,
		"east": &req.East, "west": &req.West,
	}
	for name, dst := range coords {
		v, ok := getFloatParam(r, name)
		if !ok {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				name+" is required and must be a number", nil)
			return nil
		}
		*dst = v
	}

	if apiErr := validateRequest(req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return nil
	}

	viewport := req.Viewport()
	if err := viewport.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return nil
	}

	return req
}

// Viewport converts the request bounds into a models.Viewport.
func (req *ViewportRequest) Viewport() models.Viewport {
	return models.Viewport{North: req.North, South: req.South, East: req.East, West: req.West}
}

// GetBoards handles GET /api/v1/boards: boards of a prefecture inside a
// viewport, optionally narrowed by status set and ownership.
//
// Query parameters: prefecture, north, south, east, west, limit,
// statuses (comma separated), user_id + only_mine=true.
func (h *Handler) GetBoards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := h.parseViewportRequest(w, r)
	if req == nil {
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > h.cfg.API.ViewportLimit {
		limit = h.cfg.API.ViewportLimit
	}

	boards, err := h.store.GetBoardsInViewport(r.Context(), req.Prefecture, req.Viewport(), limit)
	if err != nil {
		// Reads fail soft: an empty map is better UX than an error page,
		// and the degraded marker plus metrics keep the failure visible.
		logging.Ctx(r.Context()).Warn().Err(err).Str("prefecture", sanitizeLogValue(req.Prefecture)).
			Msg("Viewport query failed, serving empty result")
		metrics.RecordDegradedRead("boards")
		respondDegraded(w, models.BoardsResponse{Boards: []models.Board{}}, start)
		return
	}

	boards, ok := h.applyFilters(w, r, req.Prefecture, boards, start)
	if !ok {
		return
	}

	respondSuccess(w, http.StatusOK, models.BoardsResponse{Boards: boards, Count: len(boards)}, start)
}

// applyFilters narrows a board list by the statuses and only_mine query
// parameters. The bool result is false when a response was already
// written.
func (h *Handler) applyFilters(w http.ResponseWriter, r *http.Request, prefecture string, boards []models.Board, start time.Time) ([]models.Board, bool) {
	statuses := parseCommaSeparated(r.URL.Query().Get("statuses"))
	onlyMine := r.URL.Query().Get("only_mine") == "true"
	userID := r.URL.Query().Get("user_id")

	if len(statuses) == 0 && !onlyMine {
		if boards == nil {
			boards = []models.Board{}
		}
		return boards, true
	}

	state := boardfilter.NewState()
	if len(statuses) > 0 {
		state.DeselectAll()
		for _, s := range statuses {
			status := models.BoardStatus(s)
			if !status.Valid() {
				respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
					"statuses contains an invalid board status", nil)
				return nil, false
			}
			state.ToggleStatus(status)
		}
	}

	var editedIDs map[string]bool
	if onlyMine {
		if userID == "" {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"user_id is required when only_mine is set", nil)
			return nil, false
		}
		state.ToggleShowOnlyMine()

		ids, err := h.store.BoardIDsEditedBy(r.Context(), prefecture, userID)
		if err != nil {
			// Leave editedIDs empty: the filter fails closed, hiding
			// everything rather than leaking other users' boards.
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Edited-board resolution failed, filter fails closed")
			metrics.RecordDegradedRead("boards_only_mine")
		}
		editedIDs = make(map[string]bool, len(ids))
		for _, id := range ids {
			editedIDs[id] = true
		}
	}

	return state.Apply(boards, editedIDs), true
}

// GetClusteredBoards handles GET /api/v1/boards/clustered: the viewport
// query bucketed into grid cells for low zoom levels.
//
// Additional query parameter: grid_size in degrees, (0, 10].
func (h *Handler) GetClusteredBoards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := h.parseViewportRequest(w, r)
	if req == nil {
		return
	}

	gridSize := h.cfg.API.DefaultGridSize
	if v, ok := getFloatParam(r, "grid_size"); ok {
		gridSize = v
	}
	if gridSize <= 0 || gridSize > 10 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"grid_size must be greater than 0 and at most 10 degrees", nil)
		return
	}

	boards, err := h.store.GetBoardsInViewport(r.Context(), req.Prefecture, req.Viewport(), h.cfg.API.ViewportLimit)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("prefecture", sanitizeLogValue(req.Prefecture)).
			Msg("Clustered viewport query failed, serving empty result")
		metrics.RecordDegradedRead("boards_clustered")
		respondDegraded(w, models.ClusteredBoardsResponse{Clusters: []models.ClusteredBoard{}, GridSize: gridSize}, start)
		return
	}

	clusters := cluster.Cluster(boards, gridSize)
	if clusters == nil {
		clusters = []models.ClusteredBoard{}
	}

	respondSuccess(w, http.StatusOK, models.ClusteredBoardsResponse{
		Clusters: clusters,
		GridSize: gridSize,
		Count:    len(clusters),
	}, start)
}

// SearchBoards handles GET /api/v1/boards/search: typeahead over a
// prefecture's boards by number, name, address or city.
func (h *Handler) SearchBoards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	prefecture := r.URL.Query().Get("prefecture")
	if prefecture == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "prefecture is required", nil)
		return
	}
	query := r.URL.Query().Get("q")

	boards, err := h.store.BoardsByPrefecture(r.Context(), prefecture)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Search scan failed, serving empty result")
		metrics.RecordDegradedRead("boards_search")
		respondDegraded(w, models.BoardsResponse{Boards: []models.Board{}}, start)
		return
	}

	results := search.Search(boards, query)
	respondSuccess(w, http.StatusOK, models.BoardsResponse{Boards: results, Count: len(results)}, start)
}

// GetBoard handles GET /api/v1/boards/{id}: a single board by ID.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := chi.URLParam(r, "id")
	board, err := h.store.GetBoard(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrBoardNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "board not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load board", err)
		return
	}

	respondSuccess(w, http.StatusOK, board, start)
}

// GetEditedBoards handles GET /api/v1/boards/edited: the board IDs a
// user has edited in a prefecture. Clients use this to evaluate the
// "only mine" filter locally.
func (h *Handler) GetEditedBoards(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	prefecture := r.URL.Query().Get("prefecture")
	userID := r.URL.Query().Get("user_id")
	if prefecture == "" || userID == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "prefecture and user_id are required", nil)
		return
	}

	ids, err := h.store.BoardIDsEditedBy(r.Context(), prefecture, userID)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Edited-board query failed, serving empty result")
		metrics.RecordDegradedRead("boards_edited")
		respondDegraded(w, models.EditedBoardsResponse{BoardIDs: []string{}}, start)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	respondSuccess(w, http.StatusOK, models.EditedBoardsResponse{BoardIDs: ids}, start)
}
