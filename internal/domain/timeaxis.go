package domain

import (
	"path/filepath"
	"regexp"
	"time"
)

// fileTimeRe captures the date and hour of names like
// "wrfout_d02_2022-05-01_00.nc" -> 2022-05-01, 00.
var fileTimeRe = regexp.MustCompile(`^.+_(\d{4}-\d{2}-\d{2})_(\d{2})(?:\.[A-Za-z0-9]+)?$`)

// ParseFileTime extracts the origin timestamp (UTC) encoded in a file name.
// Only the base name is inspected.
func ParseFileTime(name string) (time.Time, error) {
	base := filepath.Base(name)
	m := fileTimeRe.FindStringSubmatch(base)
	if m == nil {
		return time.Time{}, &FormatError{Name: base}
	}
	t, err := time.ParseInLocation("2006-01-02_15", m[1]+"_"+m[2], time.UTC)
	if err != nil {
		return time.Time{}, &FormatError{Name: base, Err: err}
	}
	return t, nil
}

// HourlyAxis returns n consecutive hourly timestamps starting at origin shifted
// by offsetHours.
func HourlyAxis(origin time.Time, n, offsetHours int) []time.Time {
	if n <= 0 {
		return []time.Time{}
	}
	start := origin.Add(time.Duration(offsetHours) * time.Hour)
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return out
}

// BuildPart reduces a field and attaches its reconstructed time axis.
func BuildPart(f Field, sel Selection, offsetHours int) (Part, error) {
	origin, err := ParseFileTime(f.Name)
	if err != nil {
		return Part{}, err
	}
	values, used, err := Extract(f, sel)
	if err != nil {
		return Part{}, err
	}
	return Part{
		File:      filepath.Base(f.Name),
		Times:     HourlyAxis(origin, len(values), offsetHours),
		Values:    values,
		Selection: used,
	}, nil
}
