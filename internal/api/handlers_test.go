// PosterAtlas - Poster Board Geospatial Tracking Engine
// Copyright 2026 PosterAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poster-atlas/posteratlas

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poster-atlas/posteratlas/internal/config"
	"github.com/poster-atlas/posteratlas/internal/database"
	"github.com/poster-atlas/posteratlas/internal/models"
)

// fakeStore implements Store with overridable function fields. Methods
// without an override return empty results.
type fakeStore struct {
	viewportFn     func(ctx context.Context, prefecture string, v models.Viewport, limit int) ([]models.Board, error)
	boardFn        func(ctx context.Context, id string) (*models.Board, error)
	byPrefectureFn func(ctx context.Context, prefecture string) ([]models.Board, error)
	statsFn        func(ctx context.Context, prefecture string) (models.PrefectureStats, error)
	recordFn       func(ctx context.Context, boardID, userID string, status models.BoardStatus, note string) (*models.StatusHistoryRecord, error)
	historyFn      func(ctx context.Context, boardID string) ([]models.StatusHistoryRecord, error)
	historyBatchFn func(ctx context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error)
	profilesFn     func(ctx context.Context, userIDs []string) ([]models.UserProfile, error)
	editedFn       func(ctx context.Context, prefecture, userID string) ([]string, error)
	pingFn         func(ctx context.Context) error
}

func (s *fakeStore) GetBoardsInViewport(ctx context.Context, prefecture string, v models.Viewport, limit int) ([]models.Board, error) {
	if s.viewportFn != nil {
		return s.viewportFn(ctx, prefecture, v, limit)
	}
	return nil, nil
}

func (s *fakeStore) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	if s.boardFn != nil {
		return s.boardFn(ctx, id)
	}
	return nil, errors.New("not configured")
}

func (s *fakeStore) BoardsByPrefecture(ctx context.Context, prefecture string) ([]models.Board, error) {
	if s.byPrefectureFn != nil {
		return s.byPrefectureFn(ctx, prefecture)
	}
	return nil, nil
}

func (s *fakeStore) GetBoardStats(ctx context.Context, prefecture string) (models.PrefectureStats, error) {
	if s.statsFn != nil {
		return s.statsFn(ctx, prefecture)
	}
	return models.PrefectureStats{Prefecture: prefecture}, nil
}

func (s *fakeStore) RecordStatusChange(ctx context.Context, boardID, userID string, status models.BoardStatus, note string) (*models.StatusHistoryRecord, error) {
	if s.recordFn != nil {
		return s.recordFn(ctx, boardID, userID, status, note)
	}
	return nil, errors.New("not configured")
}

func (s *fakeStore) BoardHistory(ctx context.Context, boardID string) ([]models.StatusHistoryRecord, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, boardID)
	}
	return nil, nil
}

func (s *fakeStore) HistoryForBoards(ctx context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error) {
	if s.historyBatchFn != nil {
		return s.historyBatchFn(ctx, boardIDs)
	}
	return nil, nil
}

func (s *fakeStore) UserProfilesByIDs(ctx context.Context, userIDs []string) ([]models.UserProfile, error) {
	if s.profilesFn != nil {
		return s.profilesFn(ctx, userIDs)
	}
	return nil, nil
}

func (s *fakeStore) BoardIDsEditedBy(ctx context.Context, prefecture, userID string) ([]string, error) {
	if s.editedFn != nil {
		return s.editedFn(ctx, prefecture, userID)
	}
	return nil, nil
}

func (s *fakeStore) Ping(ctx context.Context) error {
	if s.pingFn != nil {
		return s.pingFn(ctx)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 8710},
		Database: config.DatabaseConfig{Path: ":memory:"},
		API:      config.APIConfig{ViewportLimit: 500, DefaultGridSize: 0.01},
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func serve(t *testing.T, store Store, method, target string, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	router := NewRouter(NewHandler(store, testConfig()), testConfig())

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func ptr(f float64) *float64 { return &f }

func testBoard(id string, lat, long float64, status models.BoardStatus) models.Board {
	return models.Board{
		ID:         id,
		Prefecture: "tokyo",
		City:       "shinjuku",
		Number:     "1-1",
		Name:       "Board " + id,
		Address:    "Nishi-Shinjuku 2-8-1",
		Lat:        ptr(lat),
		Long:       ptr(long),
		Status:     status,
	}
}

const viewportQuery = "prefecture=tokyo&north=35.8&south=35.5&east=139.9&west=139.5"

func TestGetBoardsReturnsViewportResult(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(_ context.Context, prefecture string, v models.Viewport, limit int) ([]models.Board, error) {
			assert.Equal(t, "tokyo", prefecture)
			assert.Equal(t, 35.8, v.North)
			assert.Equal(t, 500, limit)
			return []models.Board{
				testBoard("b1", 35.6, 139.7, models.StatusDone),
				testBoard("b2", 35.7, 139.8, models.StatusNotYet),
			}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards?"+viewportQuery, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.False(t, resp.Metadata.Degraded)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	assert.Equal(t, 2, boards.Count)
	assert.Len(t, boards.Boards, 2)
}

func TestGetBoardsMissingCoordinate(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodGet,
		"/api/v1/boards?prefecture=tokyo&north=35.8&south=35.5&east=139.9", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestGetBoardsInvertedViewport(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodGet,
		"/api/v1/boards?prefecture=tokyo&north=35.5&south=35.8&east=139.9&west=139.5", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestGetBoardsDegradedOnStoreFailure(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(context.Context, string, models.Viewport, int) ([]models.Board, error) {
			return nil, errors.New("disk on fire")
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards?"+viewportQuery, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
	assert.True(t, resp.Metadata.Degraded)
	assert.Nil(t, resp.Error)
}

func TestGetBoardsStatusFilter(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(context.Context, string, models.Viewport, int) ([]models.Board, error) {
			return []models.Board{
				testBoard("b1", 35.6, 139.7, models.StatusDone),
				testBoard("b2", 35.7, 139.8, models.StatusNotYet),
				testBoard("b3", 35.7, 139.8, models.StatusReserved),
			}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet,
		"/api/v1/boards?"+viewportQuery+"&statuses=done,reserved", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	require.Len(t, boards.Boards, 2)
	assert.Equal(t, "b1", boards.Boards[0].ID)
	assert.Equal(t, "b3", boards.Boards[1].ID)
}

func TestGetBoardsRejectsInvalidStatusFilter(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodGet,
		"/api/v1/boards?"+viewportQuery+"&statuses=finished", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "invalid board status")
}

func TestGetBoardsOnlyMineRequiresUserID(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodGet,
		"/api/v1/boards?"+viewportQuery+"&only_mine=true", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Message, "user_id")
}

func TestGetBoardsOnlyMineFilters(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(context.Context, string, models.Viewport, int) ([]models.Board, error) {
			return []models.Board{
				testBoard("b1", 35.6, 139.7, models.StatusDone),
				testBoard("b2", 35.7, 139.8, models.StatusDone),
			}, nil
		},
		editedFn: func(_ context.Context, prefecture, userID string) ([]string, error) {
			assert.Equal(t, "tokyo", prefecture)
			assert.Equal(t, "u1", userID)
			return []string{"b2"}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet,
		"/api/v1/boards?"+viewportQuery+"&only_mine=true&user_id=u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	require.Len(t, boards.Boards, 1)
	assert.Equal(t, "b2", boards.Boards[0].ID)
}

func TestGetBoardsOnlyMineFailsClosed(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(context.Context, string, models.Viewport, int) ([]models.Board, error) {
			return []models.Board{testBoard("b1", 35.6, 139.7, models.StatusDone)}, nil
		},
		editedFn: func(context.Context, string, string) ([]string, error) {
			return nil, errors.New("query timeout")
		},
	}

	rec, resp := serve(t, store, http.MethodGet,
		"/api/v1/boards?"+viewportQuery+"&only_mine=true&user_id=u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	assert.Empty(t, boards.Boards)
}

func TestGetClusteredBoards(t *testing.T) {
	store := &fakeStore{
		viewportFn: func(context.Context, string, models.Viewport, int) ([]models.Board, error) {
			return []models.Board{
				testBoard("b1", 35.681, 139.767, models.StatusDone),
				testBoard("b2", 35.682, 139.768, models.StatusNotYet),
				testBoard("b3", 35.75, 139.70, models.StatusDone),
			}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/clustered?"+viewportQuery, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var clustered models.ClusteredBoardsResponse
	require.NoError(t, json.Unmarshal(data, &clustered))
	assert.Equal(t, 0.01, clustered.GridSize)
	assert.Equal(t, 2, clustered.Count)

	total := 0
	for _, c := range clustered.Clusters {
		total += c.Count
	}
	assert.Equal(t, 3, total)
}

func TestGetClusteredBoardsRejectsBadGridSize(t *testing.T) {
	for _, size := range []string{"0", "-1", "11"} {
		rec, resp := serve(t, &fakeStore{}, http.MethodGet,
			"/api/v1/boards/clustered?"+viewportQuery+"&grid_size="+size, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, "grid_size=%s", size)
		require.NotNil(t, resp.Error)
		assert.Contains(t, resp.Error.Message, "grid_size")
	}
}

func TestSearchBoards(t *testing.T) {
	store := &fakeStore{
		byPrefectureFn: func(context.Context, string) ([]models.Board, error) {
			b := testBoard("b1", 35.6, 139.7, models.StatusDone)
			b.Name = "Shinjuku Station East"
			return []models.Board{b}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet,
		"/api/v1/boards/search?prefecture=tokyo&q=station", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	assert.Equal(t, 1, boards.Count)
}

func TestSearchBoardsShortQueryReturnsEmpty(t *testing.T) {
	store := &fakeStore{
		byPrefectureFn: func(context.Context, string) ([]models.Board, error) {
			return []models.Board{testBoard("b1", 35.6, 139.7, models.StatusDone)}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/search?prefecture=tokyo&q=s", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var boards models.BoardsResponse
	require.NoError(t, json.Unmarshal(data, &boards))
	assert.Equal(t, 0, boards.Count)
}

func TestSearchBoardsRequiresPrefecture(t *testing.T) {
	rec, _ := serve(t, &fakeStore{}, http.MethodGet, "/api/v1/boards/search?q=station", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetBoardNotFound(t *testing.T) {
	store := &fakeStore{
		boardFn: func(context.Context, string) (*models.Board, error) {
			return nil, database.ErrBoardNotFound
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestGetBoardFound(t *testing.T) {
	store := &fakeStore{
		boardFn: func(_ context.Context, id string) (*models.Board, error) {
			b := testBoard(id, 35.6, 139.7, models.StatusReserved)
			return &b, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/b42", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var board models.Board
	require.NoError(t, json.Unmarshal(data, &board))
	assert.Equal(t, "b42", board.ID)
	assert.Equal(t, models.StatusReserved, board.Status)
}

func TestPostStatusChange(t *testing.T) {
	store := &fakeStore{
		recordFn: func(_ context.Context, boardID, userID string, status models.BoardStatus, note string) (*models.StatusHistoryRecord, error) {
			assert.Equal(t, "b1", boardID)
			assert.Equal(t, "u1", userID)
			assert.Equal(t, models.StatusDone, status)
			assert.Equal(t, "placed at dusk", note)
			return &models.StatusHistoryRecord{
				ID: "h1", BoardID: boardID, UserID: userID,
				Status: status, Note: note, CreatedAt: time.Now(),
			}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodPost, "/api/v1/boards/b1/status",
		`{"user_id":"u1","status":"done","note":"placed at dusk"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", resp.Status)

	data, _ := json.Marshal(resp.Data)
	var record models.StatusHistoryRecord
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, "h1", record.ID)
}

func TestPostStatusChangeRejectsUnknownStatus(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodPost, "/api/v1/boards/b1/status",
		`{"user_id":"u1","status":"finished"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestPostStatusChangeRejectsMissingUser(t *testing.T) {
	rec, _ := serve(t, &fakeStore{}, http.MethodPost, "/api/v1/boards/b1/status",
		`{"status":"done"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostStatusChangeBoardNotFound(t *testing.T) {
	store := &fakeStore{
		recordFn: func(context.Context, string, string, models.BoardStatus, string) (*models.StatusHistoryRecord, error) {
			return nil, database.ErrBoardNotFound
		},
	}

	rec, resp := serve(t, store, http.MethodPost, "/api/v1/boards/nope/status",
		`{"user_id":"u1","status":"done"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestPostStatusChangeFailsLoud(t *testing.T) {
	store := &fakeStore{
		recordFn: func(context.Context, string, string, models.BoardStatus, string) (*models.StatusHistoryRecord, error) {
			return nil, errors.New("write failed")
		},
	}

	rec, resp := serve(t, store, http.MethodPost, "/api/v1/boards/b1/status",
		`{"user_id":"u1","status":"done"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATABASE_ERROR", resp.Error.Code)
	assert.False(t, resp.Metadata.Degraded)
}

func TestGetBoardHistoryAttachesEditors(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		historyFn: func(_ context.Context, boardID string) ([]models.StatusHistoryRecord, error) {
			return []models.StatusHistoryRecord{
				{ID: "h2", BoardID: boardID, UserID: "u1", Status: models.StatusDone, CreatedAt: now},
				{ID: "h1", BoardID: boardID, UserID: "ghost", Status: models.StatusReserved, CreatedAt: now.Add(-time.Hour)},
			}, nil
		},
		profilesFn: func(context.Context, []string) ([]models.UserProfile, error) {
			return []models.UserProfile{{ID: "u1", Name: "Aoki"}}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/b1/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var history models.HistoryResponse
	require.NoError(t, json.Unmarshal(data, &history))
	require.Len(t, history.History, 2)
	require.NotNil(t, history.History[0].User)
	assert.Equal(t, "Aoki", history.History[0].User.Name)
	assert.Nil(t, history.History[1].User)
}

func TestGetBoardHistoryDegradedOnFailure(t *testing.T) {
	store := &fakeStore{
		historyFn: func(context.Context, string) ([]models.StatusHistoryRecord, error) {
			return nil, errors.New("scan failed")
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/b1/history", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Metadata.Degraded)
}

func TestGetLatestEditors(t *testing.T) {
	now := time.Now()
	store := &fakeStore{
		historyBatchFn: func(_ context.Context, boardIDs []string) ([]models.StatusHistoryRecord, error) {
			var out []models.StatusHistoryRecord
			for _, id := range boardIDs {
				if id == "b1" {
					out = append(out, models.StatusHistoryRecord{
						ID: "h1", BoardID: "b1", UserID: "u9",
						Status: models.StatusDone, CreatedAt: now,
					})
				}
			}
			return out, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/latest-editors?ids=b1,b2", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var editors models.LatestEditorsResponse
	require.NoError(t, json.Unmarshal(data, &editors))
	require.Len(t, editors.Editors, 2)
	require.NotNil(t, editors.Editors["b1"])
	assert.Equal(t, "u9", editors.Editors["b1"].UserID)
	assert.Nil(t, editors.Editors["b2"])
}

func TestGetLatestEditorsRequiresIDs(t *testing.T) {
	rec, _ := serve(t, &fakeStore{}, http.MethodGet, "/api/v1/boards/latest-editors", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLatestEditorsDegradedOnFailure(t *testing.T) {
	store := &fakeStore{
		historyBatchFn: func(context.Context, []string) ([]models.StatusHistoryRecord, error) {
			return nil, errors.New("scan failed")
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/boards/latest-editors?ids=b1,b2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Metadata.Degraded)

	data, _ := json.Marshal(resp.Data)
	var editors models.LatestEditorsResponse
	require.NoError(t, json.Unmarshal(data, &editors))
	require.Len(t, editors.Editors, 2)
	assert.Nil(t, editors.Editors["b1"])
}

func TestGetEditedBoards(t *testing.T) {
	store := &fakeStore{
		editedFn: func(context.Context, string, string) ([]string, error) {
			return []string{"b1", "b7"}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet,
		"/api/v1/boards/edited?prefecture=tokyo&user_id=u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var edited models.EditedBoardsResponse
	require.NoError(t, json.Unmarshal(data, &edited))
	assert.Equal(t, []string{"b1", "b7"}, edited.BoardIDs)
}

func TestGetStats(t *testing.T) {
	store := &fakeStore{
		statsFn: func(_ context.Context, prefecture string) (models.PrefectureStats, error) {
			return models.PrefectureStats{
				Prefecture: prefecture,
				TotalCount: 35,
				Registered: 34,
				Completed:  10,
				StatusCounts: map[models.BoardStatus]int{
					models.StatusDone: 10, models.StatusNotYet: 24, models.StatusErrorWrongPoster: 1,
				},
				ProgressRate: 29,
			}, nil
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/stats/tokyo", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data, _ := json.Marshal(resp.Data)
	var stats models.PrefectureStats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, "tokyo", stats.Prefecture)
	assert.Equal(t, 34, stats.Registered)
	assert.Equal(t, 29, stats.ProgressRate)
}

func TestGetStatsFailsLoud(t *testing.T) {
	store := &fakeStore{
		statsFn: func(context.Context, string) (models.PrefectureStats, error) {
			return models.PrefectureStats{}, errors.New("aggregate failed")
		},
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/stats/tokyo", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATABASE_ERROR", resp.Error.Code)
}

func TestHealthReady(t *testing.T) {
	rec, resp := serve(t, &fakeStore{}, http.MethodGet, "/api/v1/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", resp.Status)
}

func TestHealthReadyFailsWhenStoreDown(t *testing.T) {
	store := &fakeStore{
		pingFn: func(context.Context) error { return errors.New("no database") },
	}

	rec, resp := serve(t, store, http.MethodGet, "/api/v1/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_READY", resp.Error.Code)
}

func TestRequestIDHeaderPresent(t *testing.T) {
	rec, _ := serve(t, &fakeStore{}, http.MethodGet, "/api/v1/health/live", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
