package storage

// ReportRun is one analytics invocation: its window, how the roster fared and
// the headline totals it produced.
type ReportRun struct {
	ID          int64  `json:"id"`
	RequestID   string `json:"request_id,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`

	StoresTotal   int `json:"stores_total"`
	StoresFetched int `json:"stores_fetched"`
	StoresSkipped int `json:"stores_skipped"`
	StoresPartial int `json:"stores_partial"`

	TotalOrders  int    `json:"total_orders"`
	TotalRevenue string `json:"total_revenue,omitempty"`

	Status string `json:"status"`
}
