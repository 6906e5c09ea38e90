package csv

import (
	stdcsv "encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// timestampLayouts are tried in order when parsing a timestamp cell.
var timestampLayouts = []string{
	domain.TimestampLayout,
	"2006-01-02 15:04",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	domain.DateLayout,
}

// SeriesSpec selects the timestamp and value columns of a table.
type SeriesSpec struct {
	TimeColumn  string
	ValueColumn string
	// Names, when set, names the columns of a headerless file.
	Names []string
}

// ParseTimestamp parses the timestamp formats found in station and model
// tables. Zone-less values are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ReadSeries reads (timestamp, value) samples in file order. Rows whose value
// cell is empty are dropped.
func ReadSeries(r io.Reader, spec SeriesSpec) ([]domain.Sample, error) {
	if spec.TimeColumn == "" {
		spec.TimeColumn = "timestamp"
	}
	if spec.ValueColumn == "" {
		return nil, errors.New("read series: value column is required")
	}

	cr := stdcsv.NewReader(r)
	cr.FieldsPerRecord = -1

	header := spec.Names
	line := 0
	if len(header) == 0 {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read series: empty file")
		}
		if err != nil {
			return nil, fmt.Errorf("read series header: %w", err)
		}
		header = rec
		line++
	}

	ti := slices.Index(header, spec.TimeColumn)
	vi := slices.Index(header, spec.ValueColumn)
	if ti < 0 {
		return nil, fmt.Errorf("read series: no %q column in %v", spec.TimeColumn, header)
	}
	if vi < 0 {
		return nil, fmt.Errorf("read series: no %q column in %v", spec.ValueColumn, header)
	}

	var out []domain.Sample
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read series line %d: %w", line, err)
		}
		if len(rec) <= ti || len(rec) <= vi {
			return nil, fmt.Errorf("read series line %d: %d fields", line, len(rec))
		}
		cell := strings.TrimSpace(rec[vi])
		if cell == "" {
			continue
		}
		ts, err := ParseTimestamp(rec[ti])
		if err != nil {
			return nil, fmt.Errorf("read series line %d: %w", line, err)
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("read series line %d: %w", line, err)
		}
		out = append(out, domain.Sample{Timestamp: ts, Value: v})
	}
	return out, nil
}
