package domain

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DomainPadding is the margin around the outermost nest in a domain map.
	DomainPadding = 2.0
	// RegionPadding is the margin around a region of interest.
	RegionPadding = 0.5
)

// Place is a labeled reference location on a map.
type Place struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// ReferencePlaces are the default labeled cities around the CAMe region.
var ReferencePlaces = []Place{
	{Name: "CDMX", Lat: 19.433333, Lon: -99.133333},
	{Name: "Cuernavaca", Lat: 18.9167, Lon: -99.25},
	{Name: "Toluca", Lat: 19.2833, Lon: -99.6667},
	{Name: "Puebla", Lat: 19.0414, Lon: -98.2063},
}

// LabeledBox is a rectangle outline drawn on a map.
type LabeledBox struct {
	Label string
	Box   BoundingBox
}

// MapLayout is everything a renderer needs to draw a context map.
type MapLayout struct {
	Title  string
	Extent BoundingBox
	Boxes  []LabeledBox
	Places []Place
}

// ExtentOf returns the coordinate extremes of a grid, skipping NaN cells.
func ExtentOf(lat, lon [][]float64) (BoundingBox, error) {
	b := BoundingBox{
		LatMin: math.Inf(1), LatMax: math.Inf(-1),
		LonMin: math.Inf(1), LonMax: math.Inf(-1),
	}
	if len(lat) != len(lon) {
		return BoundingBox{}, fmt.Errorf("%w: lat has %d rows, lon has %d", ErrShapeMismatch, len(lat), len(lon))
	}
	for j := range lat {
		if len(lat[j]) != len(lon[j]) {
			return BoundingBox{}, fmt.Errorf("%w: ragged coordinate row %d", ErrShapeMismatch, j)
		}
		for i := range lat[j] {
			la, lo := lat[j][i], lon[j][i]
			if math.IsNaN(la) || math.IsNaN(lo) {
				continue
			}
			b.LatMin = math.Min(b.LatMin, la)
			b.LatMax = math.Max(b.LatMax, la)
			b.LonMin = math.Min(b.LonMin, lo)
			b.LonMax = math.Max(b.LonMax, lo)
		}
	}
	if math.IsInf(b.LatMin, 1) {
		return BoundingBox{}, fmt.Errorf("%w: no finite coordinates", ErrShapeMismatch)
	}
	return b, nil
}

// NestedDomainLayout builds a map of nests ordered outer to inner. The visible
// extent is the outermost nest padded by DomainPadding.
func NestedDomainLayout(title string, extents []BoundingBox) (MapLayout, error) {
	if len(extents) == 0 {
		return MapLayout{}, errors.New("at least one domain is required")
	}
	boxes := make([]LabeledBox, len(extents))
	for i, e := range extents {
		boxes[i] = LabeledBox{Label: fmt.Sprintf("Domain %d", i+1), Box: e}
	}
	return MapLayout{
		Title:  title,
		Extent: extents[0].Pad(DomainPadding),
		Boxes:  boxes,
	}, nil
}

// RegionLayout builds a map of a single region with reference places. The
// visible extent is the region padded by RegionPadding.
func RegionLayout(title string, box BoundingBox, places []Place) (MapLayout, error) {
	if err := box.Validate(); err != nil {
		return MapLayout{}, err
	}
	return MapLayout{
		Title:  title,
		Extent: box.Pad(RegionPadding),
		Boxes:  []LabeledBox{{Label: "Region", Box: box}},
		Places: places,
	}, nil
}
