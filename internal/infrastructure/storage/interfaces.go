package storage

// Repository defines the report-run history interface. The history is an
// audit trail only: the aggregation engine never reads it back as an input,
// so every report stays a full resync over its window.
type Repository interface {
	// StartReportRun records the start of a report run and returns the run ID
	StartReportRun(run *ReportRun) (int64, error)

	// CompleteReportRun records the outcome of a report run
	CompleteReportRun(runID int64, outcome RunOutcome) error

	// ListReportRuns returns recent report runs, newest first
	ListReportRuns(limit int) ([]ReportRun, error)

	// GetReportRun retrieves a report run by ID
	GetReportRun(runID int64) (*ReportRun, error)

	Close() error
}

// RunOutcome holds the completion counters for one report run.
type RunOutcome struct {
	StoresFetched int
	StoresSkipped int
	StoresPartial int
	TotalOrders   int
	TotalRevenue  string
	Status        string // "completed" or "completed_partial"
}
