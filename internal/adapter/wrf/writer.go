package wrf

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

var dims3 = []string{"Time", "south_north", "west_east"}

type variable struct {
	name        string
	values      any
	units       string
	description string
}

// WriteField writes f as a minimal wrfout file: XLAT and XLONG repeated for
// every time step, plus the field under SWDOWN.
func WriteField(path string, f domain.Field) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	steps := f.Steps()
	if steps == 0 {
		return fmt.Errorf("write %s: no time steps", path)
	}
	return writeVars(path, []variable{
		{VarLat, narrow3(repeat(f.Lat, steps)), "degree_north", "LATITUDE, SOUTH IS NEGATIVE"},
		{VarLon, narrow3(repeat(f.Lon, steps)), "degree_east", "LONGITUDE, WEST IS NEGATIVE"},
		{VarSWDOWN, narrow3(f.Values), "W m-2", "DOWNWARD SHORT WAVE FLUX AT GROUND SURFACE"},
	})
}

// WriteStatic writes a minimal geo_em file holding XLAT_M and XLONG_M.
func WriteStatic(path string, lat, lon [][]float64) error {
	return writeVars(path, []variable{
		{VarLatM, narrow3(repeat(lat, 1)), "degrees latitude", "Latitude on mass grid"},
		{VarLonM, narrow3(repeat(lon, 1)), "degrees longitude", "Longitude on mass grid"},
	})
}

func writeVars(path string, vars []variable) error {
	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	for _, v := range vars {
		attrs, err := util.NewOrderedMap(
			[]string{"units", "description"},
			map[string]any{"units": v.units, "description": v.description},
		)
		if err != nil {
			cw.Close() //nolint:errcheck // already failing
			return fmt.Errorf("attributes for %s: %w", v.name, err)
		}
		if err := cw.AddVar(v.name, api.Variable{
			Values:     v.values,
			Dimensions: dims3,
			Attributes: attrs,
		}); err != nil {
			cw.Close() //nolint:errcheck // already failing
			return fmt.Errorf("add %s: %w", v.name, err)
		}
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

func repeat(g [][]float64, n int) [][][]float64 {
	out := make([][][]float64, n)
	for t := range out {
		out[t] = g
	}
	return out
}

func narrow3(g [][][]float64) [][][]float32 {
	out := make([][][]float32, len(g))
	for t, slice := range g {
		out[t] = make([][]float32, len(slice))
		for j, row := range slice {
			out[t][j] = make([]float32, len(row))
			for i, v := range row {
				out[t][j][i] = float32(v)
			}
		}
	}
	return out
}
