package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeglass/analytics-backend/internal/api/dto"
	"github.com/storeglass/analytics-backend/internal/api/handlers"
	"github.com/storeglass/analytics-backend/internal/infrastructure/storage"
)

// Helper to set chi URL param in context
func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func seedRun(t *testing.T, repo *storage.MockRepository, start string) int64 {
	t.Helper()

	id, err := repo.StartReportRun(&storage.ReportRun{
		RequestID:   "req-" + start,
		StartDate:   start,
		EndDate:     "2024-12-31",
		StoresTotal: 4,
	})
	require.NoError(t, err)
	require.NoError(t, repo.CompleteReportRun(id, storage.RunOutcome{
		StoresFetched: 3,
		StoresSkipped: 1,
		TotalOrders:   12,
		TotalRevenue:  "345.67",
		Status:        "completed",
	}))

	return id
}

func TestRunsHandler_List(t *testing.T) {
	t.Run("returns empty list when no runs", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Runs)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("returns runs from repository", func(t *testing.T) {
		repo := storage.NewMockRepository()
		seedRun(t, repo, "2024-01-01")
		seedRun(t, repo, "2024-02-01")

		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 2, response.Count)
		require.Len(t, response.Runs, 2)
		assert.Equal(t, "2024-02-01", response.Runs[0].StartDate, "newest first")
	})

	t.Run("respects limit parameter", func(t *testing.T) {
		repo := storage.NewMockRepository()
		for _, start := range []string{"2024-01-01", "2024-02-01", "2024-03-01", "2024-04-01", "2024-05-01"} {
			seedRun(t, repo, start)
		}

		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=3", nil)
		rec := httptest.NewRecorder()

		handler.List(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Len(t, response.Runs, 3)
	})
}

func TestRunsHandler_Get(t *testing.T) {
	t.Run("returns run by ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		id := seedRun(t, repo, "2024-01-01")

		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/1", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "1"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ReportRunResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, id, response.ID)
		assert.Equal(t, "2024-01-01", response.StartDate)
		assert.Equal(t, 3, response.StoresFetched)
		assert.Equal(t, 12, response.TotalOrders)
		assert.Equal(t, "completed", response.Status)
	})

	t.Run("returns 404 for non-existent run", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/999", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "999"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("returns 400 for invalid ID", func(t *testing.T) {
		repo := storage.NewMockRepository()
		handler := handlers.NewRunsHandler(repo)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/invalid", nil)
		req = req.WithContext(setChiURLParam(req.Context(), "id", "invalid"))
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
