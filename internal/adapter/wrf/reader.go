// Package wrf reads and writes WRF model output (wrfout) and WPS static
// (geo_em) files in the classic NetCDF format.
package wrf

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// Variable names used by WRF.
const (
	VarLat    = "XLAT"
	VarLon    = "XLONG"
	VarLatM   = "XLAT_M"
	VarLonM   = "XLONG_M"
	VarSWDOWN = "SWDOWN"
)

// Reader loads one variable and its coordinates from a wrfout file.
// It implements pipeline.FieldReader.
type Reader struct {
	variable string
	logger   *slog.Logger
}

// NewReader creates a Reader for the named field variable, SWDOWN when empty.
func NewReader(variable string, logger *slog.Logger) *Reader {
	if variable == "" {
		variable = VarSWDOWN
	}
	return &Reader{variable: variable, logger: logger}
}

// ReadField opens path, reads XLAT, XLONG and the field variable, and closes
// the file before returning. Coordinates given per time step are reduced to
// their first slice.
func (r *Reader) ReadField(ctx context.Context, path string) (domain.Field, error) {
	if err := ctx.Err(); err != nil {
		return domain.Field{}, err
	}

	nc, err := netcdf.Open(path)
	if err != nil {
		return domain.Field{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer nc.Close()

	vars := nc.ListVariables()
	if !slices.Contains(vars, VarLat) || !slices.Contains(vars, VarLon) {
		return domain.Field{}, fmt.Errorf("read %s: %w", path, domain.ErrMissingCoordinates)
	}

	lat, err := readGrid2(nc, VarLat)
	if err != nil {
		return domain.Field{}, fmt.Errorf("read %s: %w", path, err)
	}
	lon, err := readGrid2(nc, VarLon)
	if err != nil {
		return domain.Field{}, fmt.Errorf("read %s: %w", path, err)
	}
	values, err := readGrid3(nc, r.variable)
	if err != nil {
		return domain.Field{}, fmt.Errorf("read %s: %w", path, err)
	}

	f := domain.Field{Name: path, Lat: lat, Lon: lon, Values: values}
	if err := f.Validate(); err != nil {
		return domain.Field{}, fmt.Errorf("read %s: %w", path, err)
	}
	r.logger.Debug("field loaded", "file", path, "variable", r.variable,
		"steps", f.Steps(), "south_north", len(lat), "west_east", len(lat[0]))
	return f, nil
}

func values(nc api.Group, name string) (any, error) {
	vg, err := nc.GetVarGetter(name)
	if err != nil {
		return nil, fmt.Errorf("variable %s: %w", name, err)
	}
	v, err := vg.Values()
	if err != nil {
		return nil, fmt.Errorf("variable %s values: %w", name, err)
	}
	return v, nil
}

// readGrid2 returns a south_north × west_east grid. A leading time dimension
// is dropped by taking the first slice.
func readGrid2(nc api.Group, name string) ([][]float64, error) {
	v, err := values(nc, name)
	if err != nil {
		return nil, err
	}
	switch g := v.(type) {
	case [][]float32:
		return widen2(g), nil
	case [][]float64:
		return g, nil
	case [][][]float32:
		if len(g) == 0 {
			return nil, fmt.Errorf("variable %s: %w: empty time dimension", name, domain.ErrShapeMismatch)
		}
		return widen2(g[0]), nil
	case [][][]float64:
		if len(g) == 0 {
			return nil, fmt.Errorf("variable %s: %w: empty time dimension", name, domain.ErrShapeMismatch)
		}
		return g[0], nil
	default:
		return nil, fmt.Errorf("variable %s: %w: unsupported type %T", name, domain.ErrShapeMismatch, v)
	}
}

// readGrid3 returns a time × south_north × west_east grid. A 2-D variable is
// treated as a single time step.
func readGrid3(nc api.Group, name string) ([][][]float64, error) {
	v, err := values(nc, name)
	if err != nil {
		return nil, err
	}
	switch g := v.(type) {
	case [][][]float32:
		out := make([][][]float64, len(g))
		for t := range g {
			out[t] = widen2(g[t])
		}
		return out, nil
	case [][][]float64:
		return g, nil
	case [][]float32:
		return [][][]float64{widen2(g)}, nil
	case [][]float64:
		return [][][]float64{g}, nil
	default:
		return nil, fmt.Errorf("variable %s: %w: unsupported type %T", name, domain.ErrShapeMismatch, v)
	}
}

func widen2(g [][]float32) [][]float64 {
	out := make([][]float64, len(g))
	for j, row := range g {
		out[j] = make([]float64, len(row))
		for i, v := range row {
			out[j][i] = float64(v)
		}
	}
	return out
}
