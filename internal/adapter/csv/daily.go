package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

const statSuffix = "_" + ValueColumn

// DailyHeader returns "date" followed by one "<stat>_SWDOWN" column per statistic.
func DailyHeader(stats []domain.Statistic) []string {
	h := make([]string, 0, len(stats)+1)
	h = append(h, "date")
	for _, s := range stats {
		h = append(h, string(s)+statSuffix)
	}
	return h
}

// WriteDaily writes one row per day. A statistic missing from a summary is
// written as an empty cell.
func WriteDaily(w io.Writer, days []domain.DailySummary, stats []domain.Statistic) error {
	cw := stdcsv.NewWriter(w)
	if err := cw.Write(DailyHeader(stats)); err != nil {
		return fmt.Errorf("write daily header: %w", err)
	}
	for _, d := range days {
		rec := make([]string, 0, len(stats)+1)
		rec = append(rec, d.Date.Format(domain.DateLayout))
		for _, s := range stats {
			if v, ok := d.Value(s); ok {
				rec = append(rec, strconv.FormatFloat(v, 'f', 2, 64))
			} else {
				rec = append(rec, "")
			}
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write daily row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadDaily parses a table written by WriteDaily. The statistics are taken
// from the header in column order.
func ReadDaily(r io.Reader) ([]domain.DailySummary, []domain.Statistic, error) {
	cr := stdcsv.NewReader(r)
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("read daily: empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read daily header: %w", err)
	}
	if len(header) < 2 || header[0] != "date" {
		return nil, nil, fmt.Errorf("read daily: unexpected header %v", header)
	}

	names := make([]string, 0, len(header)-1)
	for _, col := range header[1:] {
		names = append(names, strings.TrimSuffix(col, statSuffix))
	}
	stats, err := domain.ParseStatistics(strings.Join(names, ","))
	if err != nil {
		return nil, nil, fmt.Errorf("read daily header: %w", err)
	}
	if len(stats) != len(names) {
		return nil, nil, fmt.Errorf("read daily header: duplicate statistic in %v", header)
	}

	var days []domain.DailySummary
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read daily line %d: %w", line, err)
		}
		date, err := time.ParseInLocation(domain.DateLayout, rec[0], time.UTC)
		if err != nil {
			return nil, nil, fmt.Errorf("read daily line %d: %w", line, err)
		}
		d := domain.DailySummary{Date: date, Values: make(map[domain.Statistic]float64, len(stats))}
		for i, s := range stats {
			cell := strings.TrimSpace(rec[i+1])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("read daily line %d column %s: %w", line, header[i+1], err)
			}
			d.Values[s] = v
		}
		days = append(days, d)
	}
	return days, stats, nil
}
