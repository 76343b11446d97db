package storage

import (
	"fmt"
	"sync"
	"time"
)

// MockRepository is an in-memory Repository for tests.
type MockRepository struct {
	mu     sync.Mutex
	nextID int64
	runs   map[int64]*ReportRun
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// NewMockRepository creates an empty in-memory repository.
func NewMockRepository() *MockRepository {
	return &MockRepository{
		nextID: 1,
		runs:   make(map[int64]*ReportRun),
	}
}

// StartReportRun records the start of a report run and returns the run ID
func (m *MockRepository) StartReportRun(run *ReportRun) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++

	stored := *run
	stored.ID = id
	stored.StartedAt = time.Now().UTC().Format(time.RFC3339)
	stored.Status = "running"
	m.runs[id] = &stored

	return id, nil
}

// CompleteReportRun records the outcome of a report run
func (m *MockRepository) CompleteReportRun(runID int64, outcome RunOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %d", runID)
	}

	run.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	run.StoresFetched = outcome.StoresFetched
	run.StoresSkipped = outcome.StoresSkipped
	run.StoresPartial = outcome.StoresPartial
	run.TotalOrders = outcome.TotalOrders
	run.TotalRevenue = outcome.TotalRevenue
	run.Status = outcome.Status
	if run.Status == "" {
		run.Status = "completed"
	}

	return nil
}

// ListReportRuns returns recent report runs, newest first
func (m *MockRepository) ListReportRuns(limit int) ([]ReportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}

	var runs []ReportRun
	for id := m.nextID - 1; id >= 1 && len(runs) < limit; id-- {
		if run, ok := m.runs[id]; ok {
			runs = append(runs, *run)
		}
	}

	return runs, nil
}

// GetReportRun retrieves a report run by ID
func (m *MockRepository) GetReportRun(runID int64) (*ReportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %d", runID)
	}

	copied := *run
	return &copied, nil
}

// Close is a no-op for the mock.
func (m *MockRepository) Close() error {
	return nil
}
