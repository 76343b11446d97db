package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/storeglass/analytics-backend/internal/api/dto"
	"github.com/storeglass/analytics-backend/internal/application/analytics"
	"github.com/storeglass/analytics-backend/internal/domain/report"
)

// ReportService builds a consolidated report for a date window.
type ReportService interface {
	BuildReport(ctx context.Context, p analytics.Params) (*report.Report, error)
}

// AnalyticsHandler handles report generation requests.
type AnalyticsHandler struct {
	Base
	service ReportService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(service ReportService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Get handles GET /api/analytics - builds and returns a report for the
// requested window. start_date and end_date (YYYY-MM-DD) are required;
// include_orders toggles the per-order list and defaults to on.
func (h *AnalyticsHandler) Get(w http.ResponseWriter, r *http.Request) {
	params := analytics.Params{
		Start:         ParseDateParam(r, "start_date"),
		End:           ParseDateParam(r, "end_date"),
		IncludeOrders: ParseBoolParam(r, "include_orders", true),
	}

	if params.Start.IsZero() || params.End.IsZero() {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("start_date and end_date are required (YYYY-MM-DD)"))
		return
	}

	rep, err := h.service.BuildReport(r.Context(), params)
	if err != nil {
		if errors.Is(err, analytics.ErrMissingDateRange) {
			h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, rep)
}
