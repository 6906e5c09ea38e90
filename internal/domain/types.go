package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for grouping and output.
const DateLayout = "2006-01-02"

// TimestampLayout is the hourly timestamp format used for output.
const TimestampLayout = "2006-01-02 15:04:05"

// BoundingBox is a rectangular region in decimal degrees.
type BoundingBox struct {
	LatMin float64 `json:"lat_min" yaml:"lat_min"`
	LatMax float64 `json:"lat_max" yaml:"lat_max"`
	LonMin float64 `json:"lon_min" yaml:"lon_min"`
	LonMax float64 `json:"lon_max" yaml:"lon_max"`
}

// Validate reports an inverted or non-finite box.
func (b BoundingBox) Validate() error {
	if b.LatMin > b.LatMax {
		return fmt.Errorf("lat_min %g is greater than lat_max %g", b.LatMin, b.LatMax)
	}
	if b.LonMin > b.LonMax {
		return fmt.Errorf("lon_min %g is greater than lon_max %g", b.LonMin, b.LonMax)
	}
	return nil
}

// Contains reports whether (lat, lon) lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Pad grows the box by deg on every side.
func (b BoundingBox) Pad(deg float64) BoundingBox {
	return BoundingBox{
		LatMin: b.LatMin - deg,
		LatMax: b.LatMax + deg,
		LonMin: b.LonMin - deg,
		LonMax: b.LonMax + deg,
	}
}

// Point is a single location in decimal degrees.
type Point struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// Mode selects the spatial reduction applied to each file.
type Mode string

const (
	ModeArea   Mode = "area"
	ModePoint  Mode = "point"
	ModeDomain Mode = "domain"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeArea, ModePoint, ModeDomain:
		return m, nil
	default:
		return "", fmt.Errorf("unknown extraction mode %q", s)
	}
}

// Cell is a grid index together with its coordinates.
type Cell struct {
	SouthNorth int     `json:"south_north"`
	WestEast   int     `json:"west_east"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

// Selection describes where a row's value came from.
type Selection struct {
	Mode  Mode        `json:"mode"`
	Box   BoundingBox `json:"box,omitempty"`
	Point Point       `json:"point,omitempty"`
	Cell  Cell        `json:"cell,omitempty"`
}

// Field is one file's SWDOWN grid with its coordinates.
// Lat and Lon are south_north × west_east; Values is time × south_north × west_east.
type Field struct {
	Name   string
	Lat    [][]float64
	Lon    [][]float64
	Values [][][]float64
}

// Steps returns the number of time steps in the field.
func (f Field) Steps() int { return len(f.Values) }

// Validate checks that every slice of Values matches the coordinate grid.
func (f Field) Validate() error {
	ny := len(f.Lat)
	if ny == 0 || len(f.Lon) != ny {
		return fmt.Errorf("%w: lat has %d rows, lon has %d", ErrShapeMismatch, len(f.Lat), len(f.Lon))
	}
	nx := len(f.Lat[0])
	for j := 0; j < ny; j++ {
		if len(f.Lat[j]) != nx || len(f.Lon[j]) != nx {
			return fmt.Errorf("%w: ragged coordinate row %d", ErrShapeMismatch, j)
		}
	}
	for t, slice := range f.Values {
		if len(slice) != ny {
			return fmt.Errorf("%w: step %d has %d rows, want %d", ErrShapeMismatch, t, len(slice), ny)
		}
		for j := range slice {
			if len(slice[j]) != nx {
				return fmt.Errorf("%w: step %d row %d has %d columns, want %d", ErrShapeMismatch, t, j, len(slice[j]), nx)
			}
		}
	}
	return nil
}

// Part is the contribution of a single file: one value per hourly timestamp.
type Part struct {
	File      string
	Times     []time.Time
	Values    []float64
	Selection Selection
}

// Row is one hourly observation of the assembled series.
type Row struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"swdown"`
	Selection Selection `json:"selection"`
}

// Date returns the calendar date of the row as YYYY-MM-DD.
func (r Row) Date() string { return r.Timestamp.Format(DateLayout) }

// Hour returns the hour of day.
func (r Row) Hour() int { return r.Timestamp.Hour() }

// Day returns the day of month.
func (r Row) Day() int { return r.Timestamp.Day() }

// Month returns the calendar month number.
func (r Row) Month() int { return int(r.Timestamp.Month()) }

// DailySummary holds the requested statistics for one calendar date.
type DailySummary struct {
	Date   time.Time             `json:"date"`
	Count  int                   `json:"count"`
	Values map[Statistic]float64 `json:"values"`
}

// Value returns a statistic and whether it was computed.
func (d DailySummary) Value(s Statistic) (float64, bool) {
	v, ok := d.Values[s]
	return v, ok
}
