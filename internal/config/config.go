package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
	"github.com/joho/godotenv"
)

// Config holds all batch settings, populated from environment variables.
type Config struct {
	WRFDir    string
	WRFDomain string

	Mode        domain.Mode
	Area        domain.BoundingBox
	Point       domain.Point
	TargetMonth int
	// UTCOffsetHours shifts the file-name time axis, e.g. -6 for UTC-6.
	UTCOffsetHours int
	Stats          []domain.Statistic

	OutputDir    string
	OutputPrefix string
	PlotsEnabled bool
	PlotDPI      int
	Workers      int

	LogLevel        string
	LogFormat       string
	HTTPAddr        string
	ShutdownTimeout time.Duration
	PushgatewayURL  string

	KafkaBrokers []string
	KafkaTopic   string
	SQLitePath   string
}

// Selection returns the spatial reduction described by the config.
func (c *Config) Selection() domain.Selection {
	switch c.Mode {
	case domain.ModePoint:
		return domain.Selection{Mode: c.Mode, Point: c.Point}
	case domain.ModeArea:
		return domain.Selection{Mode: c.Mode, Box: c.Area}
	default:
		return domain.Selection{Mode: c.Mode}
	}
}

// Load reads configuration from environment variables, applying defaults
// where unset. Variables from ENV_FILE (default ".env") are loaded first when
// the file exists; variables already set in the environment win.
func Load() (*Config, error) {
	if err := loadEnvFile(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	mode, err := domain.ParseMode(sharedcfg.EnvOrDefault("EXTRACT_MODE", string(domain.ModeArea)))
	if err != nil {
		return nil, fmt.Errorf("invalid EXTRACT_MODE: %w", err)
	}

	area, err := parseArea()
	if err != nil {
		return nil, err
	}

	point, err := parsePoint(mode)
	if err != nil {
		return nil, err
	}

	month, err := parseInt("TARGET_MONTH", 0)
	if err != nil {
		return nil, err
	}
	if month < 0 || month > 12 {
		return nil, errors.New("invalid TARGET_MONTH: must be 0 (all) or 1-12")
	}

	offset, err := parseInt("UTC_OFFSET_HOURS", 0)
	if err != nil {
		return nil, err
	}
	if offset < -14 || offset > 14 {
		return nil, errors.New("invalid UTC_OFFSET_HOURS: must be between -14 and 14")
	}

	stats, err := domain.ParseStatistics(sharedcfg.EnvOrDefault("STATS", "mean,max,min,std"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS: %w", err)
	}

	plotsEnabled, err := parseBool("PLOTS_ENABLED", true)
	if err != nil {
		return nil, err
	}

	dpi, err := parseInt("PLOT_DPI", 300)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, errors.New("invalid PLOT_DPI: must be positive")
	}

	workers, err := parseInt("WORKERS", runtime.NumCPU())
	if err != nil {
		return nil, err
	}
	if workers < 1 {
		return nil, errors.New("invalid WORKERS: must be at least 1")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		WRFDir:          sharedcfg.EnvOrDefault("WRF_DIR", "."),
		WRFDomain:       sharedcfg.EnvOrDefault("WRF_DOMAIN", "d02"),
		Mode:            mode,
		Area:            area,
		Point:           point,
		TargetMonth:     month,
		UTCOffsetHours:  offset,
		Stats:           stats,
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		OutputPrefix:    sharedcfg.EnvOrDefault("OUTPUT_PREFIX", "swdown"),
		PlotsEnabled:    plotsEnabled,
		PlotDPI:         dpi,
		Workers:         workers,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ""),
		ShutdownTimeout: shutdownTimeout,
		PushgatewayURL:  sharedcfg.EnvOrDefault("PUSHGATEWAY_URL", ""),
		KafkaBrokers:    sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "")),
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", "wrf-swdown"),
		SQLitePath:      sharedcfg.EnvOrDefault("SQLITE_PATH", ""),
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseArea() (domain.BoundingBox, error) {
	var b domain.BoundingBox
	var err error
	if b.LatMin, err = parseFloat("AREA_LAT_MIN", 19.3); err != nil {
		return b, err
	}
	if b.LatMax, err = parseFloat("AREA_LAT_MAX", 19.75); err != nil {
		return b, err
	}
	if b.LonMin, err = parseFloat("AREA_LON_MIN", -99.26); err != nil {
		return b, err
	}
	if b.LonMax, err = parseFloat("AREA_LON_MAX", -98.88); err != nil {
		return b, err
	}
	if err := b.Validate(); err != nil {
		return b, fmt.Errorf("invalid AREA bounds: %w", err)
	}
	return b, nil
}

func parsePoint(mode domain.Mode) (domain.Point, error) {
	latSet := envValue("POINT_LAT") != ""
	lonSet := envValue("POINT_LON") != ""
	if mode == domain.ModePoint && (!latSet || !lonSet) {
		return domain.Point{}, errors.New("POINT_LAT and POINT_LON are required when EXTRACT_MODE=point")
	}
	lat, err := parseFloat("POINT_LAT", 0)
	if err != nil {
		return domain.Point{}, err
	}
	lon, err := parseFloat("POINT_LON", 0)
	if err != nil {
		return domain.Point{}, err
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 360 {
		return domain.Point{}, errors.New("invalid POINT_LAT/POINT_LON: out of range")
	}
	return domain.Point{Lat: lat, Lon: lon}, nil
}
