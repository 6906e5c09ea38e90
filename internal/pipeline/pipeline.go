package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
	"github.com/couchcryptid/wrf-swdown-etl/internal/observability"
)

// FieldReader loads one model output file.
type FieldReader interface {
	ReadField(ctx context.Context, path string) (domain.Field, error)
}

// Loader writes a run's results to a destination.
type Loader interface {
	Name() string
	Load(ctx context.Context, hourly []domain.Row, daily []domain.DailySummary) error
}

// Options fixes what a run extracts and how it aggregates.
type Options struct {
	Selection      domain.Selection
	UTCOffsetHours int
	// TargetMonth keeps only rows of that month; 0 keeps all.
	TargetMonth int
	Stats       []domain.Statistic
	Workers     int
}

// Pipeline orchestrates the extract-assemble-aggregate-load run.
type Pipeline struct {
	reader  FieldReader
	loaders []Loader
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics

	ready     atomic.Bool
	processed atomic.Int64
	skipped   atomic.Int64
	total     atomic.Int64
}

// New creates a Pipeline with the given stages and observability.
func New(r FieldReader, loaders []Loader, opts Options, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if len(opts.Stats) == 0 {
		opts.Stats = domain.AllStatistics
	}
	return &Pipeline{
		reader:  r,
		loaders: loaders,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil once at least one file has contributed rows,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not processed any files yet")
	}
	return nil
}

// Status reports progress of the current run.
func (p *Pipeline) Status() Status {
	return Status{
		Files:     int(p.total.Load()),
		Processed: int(p.processed.Load()),
		Skipped:   int(p.skipped.Load()),
	}
}

// Run processes files and loads the results. Per-file faults become skipped
// FileResults and never abort the run. An empty result is returned without
// calling the loaders. Errors are returned for cancellation and sink failures.
func (p *Pipeline) Run(ctx context.Context, files []string) (Result, error) {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	p.total.Store(int64(len(files)))
	p.processed.Store(0)
	p.skipped.Store(0)
	p.logger.Info("pipeline started", "files", len(files), "workers", p.opts.Workers,
		"mode", p.opts.Selection.Mode, "utc_offset_hours", p.opts.UTCOffsetHours, "target_month", p.opts.TargetMonth)

	results := p.extractAll(ctx, files)
	if err := ctx.Err(); err != nil {
		return Result{Files: results}, fmt.Errorf("pipeline cancelled: %w", err)
	}

	res := Summarize(results, p.opts.TargetMonth, p.opts.Stats)
	p.metrics.RowsProduced.WithLabelValues("hourly").Add(float64(len(res.Hourly)))
	p.metrics.RowsProduced.WithLabelValues("daily").Add(float64(len(res.Daily)))

	if res.Empty() {
		p.logger.Warn("no data", "files", len(files), "skipped", res.Skipped())
		p.metrics.RunDuration.Observe(time.Since(start).Seconds())
		return res, nil
	}

	var errs []error
	for _, l := range p.loaders {
		if err := l.Load(ctx, res.Hourly, res.Daily); err != nil {
			p.logger.Error("load failed", "sink", l.Name(), "error", err)
			p.metrics.LoadErrors.WithLabelValues(l.Name()).Inc()
			errs = append(errs, fmt.Errorf("load %s: %w", l.Name(), err))
		}
	}

	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("pipeline finished",
		"files", len(files), "processed", res.Processed(), "skipped", res.Skipped(),
		"hourly_rows", len(res.Hourly), "daily_rows", len(res.Daily),
		"duration", time.Since(start).Round(time.Millisecond))
	return res, errors.Join(errs...)
}

// extractAll runs extractOne over files on a bounded worker pool. Results are
// stored by input index so completion order does not matter. Files never
// extracted because ctx ended keep a cancelled result.
func (p *Pipeline) extractAll(ctx context.Context, files []string) []FileResult {
	results := make([]FileResult, len(files))
	for i, f := range files {
		results[i] = FileResult{File: f, Skip: domain.SkipCancelled}
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(p.opts.Workers, max(len(files), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results[i] = p.extractOne(ctx, files[i])
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		for i := range results {
			if results[i].Skip == domain.SkipCancelled && results[i].Err == nil {
				results[i].Err = err
			}
		}
	}
	return results
}

// extractOne reads and reduces a single file, converting any fault into a
// skip reason.
func (p *Pipeline) extractOne(ctx context.Context, path string) FileResult {
	start := time.Now()
	p.logger.Debug("processing file", "file", path)

	part, err := p.buildPart(ctx, path)
	p.metrics.FileDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if ctx.Err() != nil {
			return FileResult{File: path, Skip: domain.SkipCancelled, Err: err}
		}
		reason := domain.ClassifySkip(err)
		p.logger.Warn("skipping file", "file", path, "reason", reason, "error", err)
		p.metrics.FilesSkipped.WithLabelValues(string(reason)).Inc()
		p.skipped.Add(1)
		return FileResult{File: path, Skip: reason, Err: err}
	}

	p.metrics.FilesProcessed.Inc()
	p.processed.Add(1)
	p.ready.Store(true)
	return FileResult{File: path, Part: part}
}

func (p *Pipeline) buildPart(ctx context.Context, path string) (domain.Part, error) {
	// The file name is checked first so badly named files are never opened.
	if _, err := domain.ParseFileTime(path); err != nil {
		return domain.Part{}, err
	}
	f, err := p.reader.ReadField(ctx, path)
	if err != nil {
		return domain.Part{}, err
	}
	return domain.BuildPart(f, p.opts.Selection, p.opts.UTCOffsetHours)
}
