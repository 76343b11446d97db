package analytics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/storeglass/analytics-backend/internal/domain/report"
	"github.com/storeglass/analytics-backend/internal/infrastructure/config"
	"github.com/storeglass/analytics-backend/internal/infrastructure/storage"
)

// ErrMissingDateRange is returned when the caller omits the date window.
// It is the only error class the inbound interface surfaces; upstream
// failures show up as reduced data, never as a failed request.
var ErrMissingDateRange = errors.New("start_date and end_date are required")

// Params are the inputs of one report run.
type Params struct {
	Start         time.Time
	End           time.Time
	IncludeOrders bool
}

// Service builds consolidated reports across the configured store roster.
// It is stateless per invocation: every run is a full resync over the window.
type Service struct {
	stores        []config.Store
	maxConcurrent int
	fetcher       *Fetcher
	repo          storage.Repository // optional run-history audit trail
	logger        *slog.Logger
}

// NewService creates a report service from configuration. repo may be nil to
// disable run history.
func NewService(cfg *config.Config, repo storage.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return NewServiceWithFactory(cfg, repo, logger, DefaultClientFactory(cfg.Upstream, logger))
}

// NewServiceWithFactory creates a report service with a custom client
// factory. Tests use this to point stores at stub servers.
func NewServiceWithFactory(cfg *config.Config, repo storage.Repository, logger *slog.Logger, factory ClientFactory) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		stores:        cfg.Stores,
		maxConcurrent: cfg.Analytics.MaxConcurrentStores,
		fetcher:       NewFetcher(factory, logger),
		repo:          repo,
		logger:        logger,
	}
}

// BuildReport fetches every configured store for the window and folds the
// results into one report. Store pipelines run concurrently, bounded so no
// single upstream is hammered; aggregation starts only after every pipeline
// has finished or given up. A failing store reduces its own numbers and
// nothing else.
func (s *Service) BuildReport(ctx context.Context, p Params) (*report.Report, error) {
	if p.Start.IsZero() || p.End.IsZero() {
		return nil, ErrMissingDateRange
	}

	runUUID := uuid.NewString()
	started := time.Now()

	s.logger.Info("building report",
		"run_id", runUUID,
		"start_date", p.Start.Format("2006-01-02"),
		"end_date", p.End.Format("2006-01-02"),
		"stores", len(s.stores),
	)

	runID := s.recordStart(runUUID, p)

	window := Window{Start: p.Start, End: p.End}
	fetches := make([]StoreFetch, len(s.stores))

	g := new(errgroup.Group)
	g.SetLimit(s.maxConcurrent)
	for i, store := range s.stores {
		i, store := i, store
		g.Go(func() error {
			fetches[i] = s.fetcher.FetchStore(ctx, store, window)
			return nil
		})
	}
	// Merge barrier: every store pipeline has completed or terminated.
	_ = g.Wait()

	results := make([]report.StoreOrders, len(fetches))
	for i, fetch := range fetches {
		identity := report.StoreIdentity{
			ID:           fetch.Store.ID,
			Name:         fetch.Store.Name,
			APIDomain:    fetch.Store.Domain,
			PublicDomain: fetch.PublicDomain,
		}
		results[i] = report.StoreOrders{
			Store:  identity,
			Orders: report.EnrichOrders(identity, fetch.Orders, fetch.Index),
		}
	}

	rep := report.Assemble(results, p.IncludeOrders)

	s.recordCompletion(runID, fetches, rep)

	s.logger.Info("report built",
		"run_id", runUUID,
		"total_orders", rep.Summary.TotalOrders,
		"total_revenue", rep.Summary.TotalRevenue,
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return rep, nil
}

// Stores returns the configured roster.
func (s *Service) Stores() []config.Store {
	return s.stores
}

// recordStart opens a run-history row. History failures never block a report.
func (s *Service) recordStart(runUUID string, p Params) int64 {
	if s.repo == nil {
		return 0
	}

	id, err := s.repo.StartReportRun(&storage.ReportRun{
		RequestID:   runUUID,
		StartDate:   p.Start.Format("2006-01-02"),
		EndDate:     p.End.Format("2006-01-02"),
		StoresTotal: len(s.stores),
	})
	if err != nil {
		s.logger.Warn("failed to record report run start", "error", err)
		return 0
	}
	return id
}

// recordCompletion closes the run-history row with per-store counters.
func (s *Service) recordCompletion(runID int64, fetches []StoreFetch, rep *report.Report) {
	if s.repo == nil || runID == 0 {
		return
	}

	outcome := storage.RunOutcome{
		TotalOrders:  rep.Summary.TotalOrders,
		TotalRevenue: rep.Summary.TotalRevenue,
		Status:       "completed",
	}
	for _, fetch := range fetches {
		switch {
		case fetch.Skipped:
			outcome.StoresSkipped++
		default:
			outcome.StoresFetched++
			if fetch.Partial() {
				outcome.StoresPartial++
			}
		}
	}
	if outcome.StoresPartial > 0 {
		outcome.Status = "completed_partial"
	}

	if err := s.repo.CompleteReportRun(runID, outcome); err != nil {
		s.logger.Warn("failed to record report run completion", "error", err)
	}
}
