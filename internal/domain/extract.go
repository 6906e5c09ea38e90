package domain

import (
	"fmt"
	"math"
)

// AreaMean averages each time step over the cells inside box.
// NaN cells are ignored. A box that selects no cell returns ErrEmptySelection.
func AreaMean(f Field, box BoundingBox) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	mask, selected := areaMask(f, box)
	if selected == 0 {
		return nil, fmt.Errorf("%w: %+v", ErrEmptySelection, box)
	}
	return maskedMean(f, mask)
}

// DomainMean averages each time step over the whole grid.
func DomainMean(f Field) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	mask := make([][]bool, len(f.Lat))
	for j := range f.Lat {
		mask[j] = make([]bool, len(f.Lat[j]))
		for i := range mask[j] {
			mask[j][i] = true
		}
	}
	return maskedMean(f, mask)
}

func areaMask(f Field, box BoundingBox) ([][]bool, int) {
	selected := 0
	mask := make([][]bool, len(f.Lat))
	for j := range f.Lat {
		mask[j] = make([]bool, len(f.Lat[j]))
		for i := range f.Lat[j] {
			if box.Contains(f.Lat[j][i], f.Lon[j][i]) {
				mask[j][i] = true
				selected++
			}
		}
	}
	return mask, selected
}

func maskedMean(f Field, mask [][]bool) ([]float64, error) {
	out := make([]float64, f.Steps())
	for t, slice := range f.Values {
		var sum float64
		var n int
		for j := range slice {
			for i, v := range slice[j] {
				if !mask[j][i] || math.IsNaN(v) {
					continue
				}
				sum += v
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: step %d has no valid cells", ErrEmptySelection, t)
		}
		out[t] = sum / float64(n)
	}
	return out, nil
}

// NearestCell finds the grid cell minimizing |Δlat| + |Δlon| to p.
// Ties keep the first cell in row-major order.
func NearestCell(f Field, p Point) (Cell, error) {
	if len(f.Lat) == 0 || len(f.Lat[0]) == 0 {
		return Cell{}, fmt.Errorf("%w: empty coordinate grid", ErrShapeMismatch)
	}
	if len(f.Lon) != len(f.Lat) {
		return Cell{}, fmt.Errorf("%w: lat has %d rows, lon has %d", ErrShapeMismatch, len(f.Lat), len(f.Lon))
	}
	best := Cell{SouthNorth: -1}
	bestDist := math.Inf(1)
	for j := range f.Lat {
		for i := range f.Lat[j] {
			d := math.Abs(f.Lat[j][i]-p.Lat) + math.Abs(f.Lon[j][i]-p.Lon)
			if d < bestDist {
				bestDist = d
				best = Cell{SouthNorth: j, WestEast: i, Lat: f.Lat[j][i], Lon: f.Lon[j][i]}
			}
		}
	}
	if best.SouthNorth < 0 {
		return Cell{}, fmt.Errorf("%w: no finite coordinates", ErrShapeMismatch)
	}
	return best, nil
}

// PointSeries returns the full time series at one grid cell.
func PointSeries(f Field, c Cell) ([]float64, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if c.SouthNorth < 0 || c.SouthNorth >= len(f.Lat) || c.WestEast < 0 || c.WestEast >= len(f.Lat[0]) {
		return nil, fmt.Errorf("%w: cell (%d, %d) outside grid", ErrShapeMismatch, c.SouthNorth, c.WestEast)
	}
	out := make([]float64, f.Steps())
	for t, slice := range f.Values {
		out[t] = slice[c.SouthNorth][c.WestEast]
	}
	return out, nil
}

// Extract applies the reduction described by sel and returns the values
// together with the selection actually used (point mode fills in Cell).
func Extract(f Field, sel Selection) ([]float64, Selection, error) {
	switch sel.Mode {
	case ModeArea:
		v, err := AreaMean(f, sel.Box)
		return v, sel, err
	case ModePoint:
		cell, err := NearestCell(f, sel.Point)
		if err != nil {
			return nil, sel, err
		}
		sel.Cell = cell
		v, err := PointSeries(f, cell)
		return v, sel, err
	case ModeDomain:
		v, err := DomainMean(f)
		return v, sel, err
	default:
		return nil, sel, fmt.Errorf("unknown extraction mode %q", sel.Mode)
	}
}
