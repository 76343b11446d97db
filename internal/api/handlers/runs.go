package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeglass/analytics-backend/internal/api/dto"
	"github.com/storeglass/analytics-backend/internal/infrastructure/storage"
)

// RunsHandler handles report run history requests.
type RunsHandler struct {
	Base
	repo storage.Repository
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{repo: repo}
}

// List handles GET /api/runs - returns recent report runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListReportRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ReportRunListResponse{
		Runs:  make([]dto.ReportRunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toReportRunResponse(run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single report run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.repo.GetReportRun(id)
	if err != nil || run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("report run"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toReportRunResponse(*run))
}

// toReportRunResponse converts a storage ReportRun to an API response.
func toReportRunResponse(run storage.ReportRun) dto.ReportRunResponse {
	return dto.ReportRunResponse{
		ID:            run.ID,
		RequestID:     run.RequestID,
		StartDate:     run.StartDate,
		EndDate:       run.EndDate,
		StartedAt:     run.StartedAt,
		CompletedAt:   run.CompletedAt,
		StoresTotal:   run.StoresTotal,
		StoresFetched: run.StoresFetched,
		StoresSkipped: run.StoresSkipped,
		StoresPartial: run.StoresPartial,
		TotalOrders:   run.TotalOrders,
		TotalRevenue:  run.TotalRevenue,
		Status:        run.Status,
	}
}
