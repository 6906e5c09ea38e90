package plot

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// Sink renders <prefix>_timeseries.png and <prefix>_daily.png into a
// directory. It implements pipeline.Loader.
type Sink struct {
	dir    string
	prefix string
	stats  []domain.Statistic
	dpi    int
	logger *slog.Logger
}

// NewSink creates a plot sink.
func NewSink(dir, prefix string, stats []domain.Statistic, dpi int, logger *slog.Logger) *Sink {
	return &Sink{dir: dir, prefix: prefix, stats: stats, dpi: dpi, logger: logger}
}

func (s *Sink) Name() string { return "plot" }

// HourlyPath is the hourly figure location.
func (s *Sink) HourlyPath() string { return filepath.Join(s.dir, s.prefix+"_timeseries.png") }

// DailyPath is the daily figure location.
func (s *Sink) DailyPath() string { return filepath.Join(s.dir, s.prefix+"_daily.png") }

func (s *Sink) Load(ctx context.Context, hourly []domain.Row, daily []domain.DailySummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := HourlySeries(s.HourlyPath(), "Hourly SWDOWN Values", hourly, s.dpi); err != nil {
		return err
	}
	if err := DailyStatistics(s.DailyPath(), "Daily SWDOWN Statistics", daily, s.stats, s.dpi); err != nil {
		return err
	}
	s.logger.Info("plots written", "hourly", s.HourlyPath(), "daily", s.DailyPath(), "dpi", s.dpi)
	return nil
}
