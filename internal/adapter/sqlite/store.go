// Package sqlite persists hourly rows and daily summaries in a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS hourly (
	series    TEXT NOT NULL,
	ts        TEXT NOT NULL,
	swdown    REAL NOT NULL,
	mode      TEXT NOT NULL,
	lat_min   REAL,
	lat_max   REAL,
	lon_min   REAL,
	lon_max   REAL,
	lat       REAL,
	lon       REAL,
	grid_lat  REAL,
	grid_lon  REAL
);
CREATE INDEX IF NOT EXISTS hourly_series_ts ON hourly (series, ts);
CREATE TABLE IF NOT EXISTS daily (
	series TEXT NOT NULL,
	date   TEXT NOT NULL,
	count  INTEGER NOT NULL,
	mean   REAL,
	max    REAL,
	min    REAL,
	std    REAL,
	PRIMARY KEY (series, date)
);`

// Store writes one named series per Load, replacing earlier rows of the same
// series. It implements pipeline.Loader.
type Store struct {
	db     *sql.DB
	series string
	logger *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path, series string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return &Store{db: db, series: series, logger: logger}, nil
}

func (s *Store) Name() string { return "sqlite" }

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load replaces the series' rows in a single transaction.
func (s *Store) Load(ctx context.Context, hourly []domain.Row, daily []domain.DailySummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, table := range []string{"hourly", "daily"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE series = ?", s.series); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := insertHourly(ctx, tx, s.series, hourly); err != nil {
		return err
	}
	if err := insertDaily(ctx, tx, s.series, daily); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite tx: %w", err)
	}
	s.logger.Info("sqlite written", "series", s.series, "hourly_rows", len(hourly), "daily_rows", len(daily))
	return nil
}

func insertHourly(ctx context.Context, tx *sql.Tx, series string, rows []domain.Row) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO hourly
		(series, ts, swdown, mode, lat_min, lat_max, lon_min, lon_max, lat, lon, grid_lat, grid_lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare hourly insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		var box [4]sql.NullFloat64
		var pt [4]sql.NullFloat64
		switch r.Selection.Mode {
		case domain.ModeArea:
			b := r.Selection.Box
			box = [4]sql.NullFloat64{valid(b.LatMin), valid(b.LatMax), valid(b.LonMin), valid(b.LonMax)}
		case domain.ModePoint:
			p, c := r.Selection.Point, r.Selection.Cell
			pt = [4]sql.NullFloat64{valid(p.Lat), valid(p.Lon), valid(c.Lat), valid(c.Lon)}
		}
		if _, err := stmt.ExecContext(ctx, series, r.Timestamp.Format(domain.TimestampLayout), r.Value,
			string(r.Selection.Mode), box[0], box[1], box[2], box[3], pt[0], pt[1], pt[2], pt[3]); err != nil {
			return fmt.Errorf("insert hourly row %s: %w", r.Timestamp.Format(domain.TimestampLayout), err)
		}
	}
	return nil
}

func insertDaily(ctx context.Context, tx *sql.Tx, series string, days []domain.DailySummary) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO daily
		(series, date, count, mean, max, min, std) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare daily insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range days {
		if _, err := stmt.ExecContext(ctx, series, d.Date.Format(domain.DateLayout), d.Count,
			stat(d, domain.StatMean), stat(d, domain.StatMax), stat(d, domain.StatMin), stat(d, domain.StatStd)); err != nil {
			return fmt.Errorf("insert daily row %s: %w", d.Date.Format(domain.DateLayout), err)
		}
	}
	return nil
}

// Daily returns the stored summaries of the series, ordered by date.
func (s *Store) Daily(ctx context.Context) ([]domain.DailySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, count, mean, max, min, std FROM daily WHERE series = ? ORDER BY date`, s.series)
	if err != nil {
		return nil, fmt.Errorf("query daily: %w", err)
	}
	defer rows.Close()

	var out []domain.DailySummary
	for rows.Next() {
		var date string
		var d domain.DailySummary
		var mean, maxV, minV, std sql.NullFloat64
		if err := rows.Scan(&date, &d.Count, &mean, &maxV, &minV, &std); err != nil {
			return nil, fmt.Errorf("scan daily: %w", err)
		}
		if d.Date, err = time.ParseInLocation(domain.DateLayout, date, time.UTC); err != nil {
			return nil, fmt.Errorf("parse daily date %q: %w", date, err)
		}
		d.Values = make(map[domain.Statistic]float64)
		for st, v := range map[domain.Statistic]sql.NullFloat64{
			domain.StatMean: mean, domain.StatMax: maxV, domain.StatMin: minV, domain.StatStd: std,
		} {
			if v.Valid {
				d.Values[st] = v.Float64
			}
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// HourlyCount returns the number of stored hourly rows of the series.
func (s *Store) HourlyCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hourly WHERE series = ?`, s.series).Scan(&n); err != nil {
		return 0, fmt.Errorf("count hourly: %w", err)
	}
	return n, nil
}

func valid(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func stat(d domain.DailySummary, s domain.Statistic) sql.NullFloat64 {
	v, ok := d.Value(s)
	return sql.NullFloat64{Float64: v, Valid: ok}
}
