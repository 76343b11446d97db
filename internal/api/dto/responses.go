package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// StoreResponse represents one configured store in API responses.
// Access tokens never leave the server.
type StoreResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Domain      string `json:"domain,omitempty"`
	Provisioned bool   `json:"provisioned"`
}

// StoreListResponse is returned when listing the store roster.
type StoreListResponse struct {
	Stores []StoreResponse `json:"stores"`
	Count  int             `json:"count"`
}

// ReportRunResponse represents a report run in API responses.
type ReportRunResponse struct {
	ID            int64  `json:"id"`
	RequestID     string `json:"request_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	StartedAt     string `json:"started_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	StoresTotal   int    `json:"stores_total"`
	StoresFetched int    `json:"stores_fetched"`
	StoresSkipped int    `json:"stores_skipped"`
	StoresPartial int    `json:"stores_partial"`
	TotalOrders   int    `json:"total_orders"`
	TotalRevenue  string `json:"total_revenue,omitempty"`
	Status        string `json:"status"`
}

// ReportRunListResponse is returned when listing report runs.
type ReportRunListResponse struct {
	Runs  []ReportRunResponse `json:"runs"`
	Count int                 `json:"count"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
