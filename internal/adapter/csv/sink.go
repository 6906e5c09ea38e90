package csv

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// Sink writes <prefix>_hourly.csv and <prefix>_daily.csv into a directory.
// It implements pipeline.Loader.
type Sink struct {
	dir    string
	prefix string
	stats  []domain.Statistic
	logger *slog.Logger
}

// NewSink creates a CSV sink. stats fixes the daily column order.
func NewSink(dir, prefix string, stats []domain.Statistic, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, prefix: prefix, stats: stats, logger: logger}
}

func (s *Sink) Name() string { return "csv" }

// HourlyPath is the hourly table location.
func (s *Sink) HourlyPath() string { return filepath.Join(s.dir, s.prefix+"_hourly.csv") }

// DailyPath is the daily table location.
func (s *Sink) DailyPath() string { return filepath.Join(s.dir, s.prefix+"_daily.csv") }

// Load writes both tables, replacing existing files.
func (s *Sink) Load(ctx context.Context, hourly []domain.Row, daily []domain.DailySummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := CreateFile(s.HourlyPath(), func(w io.Writer) error { return WriteHourly(w, hourly) }); err != nil {
		return err
	}
	if err := CreateFile(s.DailyPath(), func(w io.Writer) error { return WriteDaily(w, daily, s.stats) }); err != nil {
		return err
	}
	s.logger.Info("csv written", "hourly", s.HourlyPath(), "daily", s.DailyPath(),
		"hourly_rows", len(hourly), "daily_rows", len(daily))
	return nil
}
