package wrf

import (
	"fmt"
	"slices"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// ReadExtent returns the coordinate bounding box of a geo_em or wrfout file.
// XLAT_M/XLONG_M are preferred; XLAT/XLONG are the fallback.
func ReadExtent(path string) (domain.BoundingBox, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer nc.Close()

	vars := nc.ListVariables()
	latName, lonName := VarLatM, VarLonM
	if !slices.Contains(vars, latName) || !slices.Contains(vars, lonName) {
		latName, lonName = VarLat, VarLon
	}
	if !slices.Contains(vars, latName) || !slices.Contains(vars, lonName) {
		return domain.BoundingBox{}, fmt.Errorf("read %s: %w", path, domain.ErrMissingCoordinates)
	}

	lat, err := readGrid2(nc, latName)
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("read %s: %w", path, err)
	}
	lon, err := readGrid2(nc, lonName)
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("read %s: %w", path, err)
	}
	box, err := domain.ExtentOf(lat, lon)
	if err != nil {
		return domain.BoundingBox{}, fmt.Errorf("extent of %s: %w", path, err)
	}
	return box, nil
}
