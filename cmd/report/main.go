// Command report builds a one-shot consolidated report and prints it as JSON.
// Useful for cron jobs and for eyeballing numbers without running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/storeglass/analytics-backend/internal/application/analytics"
	"github.com/storeglass/analytics-backend/internal/infrastructure/config"
	"github.com/storeglass/analytics-backend/internal/infrastructure/logging"
)

func main() {
	var (
		configFile    = flag.String("config", "config.yaml", "Configuration file path")
		startDate     = flag.String("start", "", "Window start date (YYYY-MM-DD)")
		endDate       = flag.String("end", "", "Window end date (YYYY-MM-DD)")
		includeOrders = flag.Bool("orders", false, "Include the per-order list in the output")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configFile)
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "report")

	params, err := parseWindow(*startDate, *endDate)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}
	params.IncludeOrders = *includeOrders

	// No run-history repository here: the CLI prints and exits.
	service := analytics.NewService(cfg, nil, logger)

	rep, err := service.BuildReport(context.Background(), params)
	if err != nil {
		logger.Error("report failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		logger.Error("failed to encode report", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseWindow(start, end string) (analytics.Params, error) {
	if start == "" || end == "" {
		return analytics.Params{}, fmt.Errorf("both -start and -end are required")
	}

	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		return analytics.Params{}, fmt.Errorf("invalid -start date %q: %w", start, err)
	}
	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		return analytics.Params{}, fmt.Errorf("invalid -end date %q: %w", end, err)
	}
	if endT.Before(startT) {
		return analytics.Params{}, fmt.Errorf("-end must not be before -start")
	}

	return analytics.Params{Start: startT, End: endT}, nil
}
