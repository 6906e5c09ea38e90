// Package csv reads and writes the comma-separated tables produced and
// consumed by the batch tools.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// ValueColumn is the header of the extracted variable.
const ValueColumn = "SWDOWN"

// HourlyHeader returns the hourly table header for a selection mode.
func HourlyHeader(mode domain.Mode) []string {
	h := []string{"timestamp", ValueColumn}
	h = append(h, metadataHeader(mode)...)
	return append(h, "date", "hour", "day", "month")
}

func metadataHeader(mode domain.Mode) []string {
	switch mode {
	case domain.ModeArea:
		return []string{"lat_min", "lat_max", "lon_min", "lon_max"}
	case domain.ModePoint:
		return []string{"lat", "lon", "grid_lat", "grid_lon"}
	default:
		return nil
	}
}

func metadataValues(sel domain.Selection) []string {
	switch sel.Mode {
	case domain.ModeArea:
		return []string{
			formatFloat(sel.Box.LatMin), formatFloat(sel.Box.LatMax),
			formatFloat(sel.Box.LonMin), formatFloat(sel.Box.LonMax),
		}
	case domain.ModePoint:
		return []string{
			formatFloat(sel.Point.Lat), formatFloat(sel.Point.Lon),
			formatFloat(sel.Cell.Lat), formatFloat(sel.Cell.Lon),
		}
	default:
		return nil
	}
}

// WriteHourly writes rows with calendar columns. The metadata columns follow
// the selection mode of the first row; an empty series gets the area header.
func WriteHourly(w io.Writer, rows []domain.Row) error {
	mode := domain.ModeArea
	if len(rows) > 0 {
		mode = rows[0].Selection.Mode
	}

	cw := stdcsv.NewWriter(w)
	if err := cw.Write(HourlyHeader(mode)); err != nil {
		return fmt.Errorf("write hourly header: %w", err)
	}
	for _, r := range rows {
		rec := []string{r.Timestamp.Format(domain.TimestampLayout), formatFloat(r.Value)}
		rec = append(rec, metadataValues(r.Selection)...)
		rec = append(rec,
			r.Date(),
			strconv.Itoa(r.Hour()),
			strconv.Itoa(r.Day()),
			strconv.Itoa(r.Month()),
		)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write hourly row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
