package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for report-run history.
// It implements the Repository interface.
type Storage struct {
	db *sql.DB
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db}

	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartReportRun records the start of a report run and returns the run ID
func (s *Storage) StartReportRun(run *ReportRun) (int64, error) {
	query := `
		INSERT INTO report_runs (request_id, start_date, end_date, stores_total, status)
		VALUES (?, ?, ?, ?, 'running')
	`

	result, err := s.db.Exec(query, run.RequestID, run.StartDate, run.EndDate, run.StoresTotal)
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// CompleteReportRun records the outcome of a report run
func (s *Storage) CompleteReportRun(runID int64, outcome RunOutcome) error {
	status := outcome.Status
	if status == "" {
		status = "completed"
	}

	query := `
		UPDATE report_runs
		SET completed_at = CURRENT_TIMESTAMP,
		    stores_fetched = ?,
		    stores_skipped = ?,
		    stores_partial = ?,
		    total_orders = ?,
		    total_revenue = ?,
		    status = ?
		WHERE id = ?
	`

	_, err := s.db.Exec(query,
		outcome.StoresFetched,
		outcome.StoresSkipped,
		outcome.StoresPartial,
		outcome.TotalOrders,
		outcome.TotalRevenue,
		status,
		runID,
	)
	return err
}

// ListReportRuns returns recent report runs, newest first
func (s *Storage) ListReportRuns(limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, request_id, start_date, end_date,
		       started_at, COALESCE(completed_at, ''),
		       stores_total, stores_fetched, stores_skipped, stores_partial,
		       total_orders, total_revenue, status
		FROM report_runs
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var runs []ReportRun
	for rows.Next() {
		var run ReportRun
		if err := scanRun(rows.Scan, &run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetReportRun retrieves a report run by ID
func (s *Storage) GetReportRun(runID int64) (*ReportRun, error) {
	query := `
		SELECT id, request_id, start_date, end_date,
		       started_at, COALESCE(completed_at, ''),
		       stores_total, stores_fetched, stores_skipped, stores_partial,
		       total_orders, total_revenue, status
		FROM report_runs
		WHERE id = ?
	`

	var run ReportRun
	if err := scanRun(s.db.QueryRow(query, runID).Scan, &run); err != nil {
		return nil, err
	}

	return &run, nil
}

// scanRun scans one report_runs row through either sql.Row.Scan or
// sql.Rows.Scan.
func scanRun(scan func(...any) error, run *ReportRun) error {
	return scan(
		&run.ID,
		&run.RequestID,
		&run.StartDate,
		&run.EndDate,
		&run.StartedAt,
		&run.CompletedAt,
		&run.StoresTotal,
		&run.StoresFetched,
		&run.StoresSkipped,
		&run.StoresPartial,
		&run.TotalOrders,
		&run.TotalRevenue,
		&run.Status,
	)
}
