package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// WriteJoined writes the correlator input table as timestamp,<x>,<y>.
func WriteJoined(w io.Writer, rows []domain.JoinedRow, xName, yName string) error {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{r.Timestamp.Format(domain.TimestampLayout), formatFloat(r.X), formatFloat(r.Y)}
	}
	return WriteTable(w, []string{"timestamp", xName, yName}, records)
}

// WriteTable writes a header and records.
func WriteTable(w io.Writer, header []string, records [][]string) error {
	cw := stdcsv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	return nil
}

// CreateFile creates path, including parent directories, and passes the file
// to write. The file is closed before returning.
func CreateFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close() //nolint:errcheck // already failing
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
