// Command etl extracts an hourly SWDOWN series from a directory of WRF output
// files, aggregates it by day, and writes the results to the configured sinks.
// All settings come from the environment (see internal/config).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	csvadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/csv"
	httpadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/kafka"
	plotadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/plot"
	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/config"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
	"github.com/couchcryptid/wrf-swdown-etl/internal/observability"
	"github.com/couchcryptid/wrf-swdown-etl/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, err := wrf.Discover(cfg.WRFDir, cfg.WRFDomain)
	if err != nil {
		logger.Error("failed to list input files", "dir", cfg.WRFDir, "error", err)
		return 1
	}
	logger.Info("input files found", "dir", cfg.WRFDir, "domain", cfg.WRFDomain, "count", len(files))

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		logger.Error("failed to create output dir", "dir", cfg.OutputDir, "error", err)
		return 1
	}

	loaders, closers, err := buildLoaders(ctx, cfg, logger)
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Error("sink close error", "error", err)
			}
		}
	}()
	if err != nil {
		logger.Error("failed to open sinks", "error", err)
		return 1
	}

	p := pipeline.New(wrf.NewReader(wrf.VarSWDOWN, logger), loaders, pipeline.Options{
		Selection:      cfg.Selection(),
		UTCOffsetHours: cfg.UTCOffsetHours,
		TargetMonth:    cfg.TargetMonth,
		Stats:          cfg.Stats,
		Workers:        cfg.Workers,
	}, logger, metrics)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, newRunStatus(p, loaders), logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	res, runErr := p.Run(ctx, files)

	if cfg.PushgatewayURL != "" {
		if err := observability.Push(cfg.PushgatewayURL, "wrf_swdown_etl", prometheus.DefaultGatherer); err != nil {
			logger.Error("metrics push failed", "url", cfg.PushgatewayURL, "error", err)
		}
	}

	printSummary(os.Stdout, len(files), res, cfg.Stats)

	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
		return 1
	}
	return 0
}

// buildLoaders opens the sinks enabled by cfg. The returned closers must be
// closed even when an error is returned.
func buildLoaders(ctx context.Context, cfg *config.Config, logger *slog.Logger) ([]pipeline.Loader, []io.Closer, error) {
	loaders := []pipeline.Loader{
		csvadapter.NewSink(cfg.OutputDir, cfg.OutputPrefix, cfg.Stats, logger),
	}
	var closers []io.Closer

	if cfg.PlotsEnabled {
		loaders = append(loaders, plotadapter.NewSink(cfg.OutputDir, cfg.OutputPrefix, cfg.Stats, cfg.PlotDPI, logger))
	}
	if cfg.SQLitePath != "" {
		store, err := sqlite.Open(ctx, cfg.SQLitePath, cfg.OutputPrefix, logger)
		if err != nil {
			return nil, closers, fmt.Errorf("open sqlite: %w", err)
		}
		loaders = append(loaders, store)
		closers = append(closers, store)
	}
	if len(cfg.KafkaBrokers) > 0 {
		w := kafkaadapter.NewWriter(cfg, logger)
		loaders = append(loaders, w)
		closers = append(closers, w)
	}

	names := make([]string, len(loaders))
	for i, l := range loaders {
		names[i] = l.Name()
	}
	logger.Info("sinks enabled", "sinks", strings.Join(names, ","))
	return loaders, closers, nil
}

// runStatus extends the pipeline's readiness with the readiness of every sink
// that can report it, so /readyz fails when e.g. the SQLite store is gone.
type runStatus struct {
	httpadapter.RunMonitor
	sinks []sharedobs.ReadinessChecker
}

func newRunStatus(run httpadapter.RunMonitor, loaders []pipeline.Loader) runStatus {
	rs := runStatus{RunMonitor: run}
	for _, l := range loaders {
		if c, ok := l.(sharedobs.ReadinessChecker); ok {
			rs.sinks = append(rs.sinks, c)
		}
	}
	return rs
}

func (r runStatus) CheckReadiness(ctx context.Context) error {
	if err := r.RunMonitor.CheckReadiness(ctx); err != nil {
		return err
	}
	for _, s := range r.sinks {
		if err := s.CheckReadiness(ctx); err != nil {
			return fmt.Errorf("sink not ready: %w", err)
		}
	}
	return nil
}

func printSummary(w io.Writer, found int, res pipeline.Result, stats []domain.Statistic) {
	fmt.Fprintln(w, "=== SWDOWN extraction summary ===")
	fmt.Fprintf(w, "Files: %d found, %d processed, %d skipped\n", found, res.Processed(), res.Skipped())
	counts := res.SkipCounts()
	for _, reason := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(w, "  skipped (%s): %d\n", reason, counts[reason])
	}
	fmt.Fprintf(w, "Rows: %d hourly, %d daily\n", len(res.Hourly), len(res.Daily))

	if res.Empty() {
		fmt.Fprintln(w, "No data.")
		return
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s", "date")
	for _, s := range stats {
		fmt.Fprintf(w, " %10s", s)
	}
	fmt.Fprintln(w)
	for _, d := range res.Daily {
		fmt.Fprintf(w, "%-10s", d.Date.Format(domain.DateLayout))
		for _, s := range stats {
			v, _ := d.Value(s)
			fmt.Fprintf(w, " %10.2f", v)
		}
		fmt.Fprintln(w)
	}
}
