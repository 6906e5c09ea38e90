package wrf

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Discover returns the wrfout_<nest>_*.nc files for a nest label (e.g. "d02") in dir,
// sorted by name. File names sort chronologically.
func Discover(dir, nest string) ([]string, error) {
	pattern := filepath.Join(dir, fmt.Sprintf("wrfout_%s_*.nc", nest))
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", pattern, err)
	}
	sort.Strings(files)
	return files, nil
}
