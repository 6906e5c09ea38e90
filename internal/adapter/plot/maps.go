package plot

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

var (
	boxColors = []color.Color{red, blue, green, amber}
	boxDashes = [][]vg.Length{nil, {vg.Points(6), vg.Points(3)}, {vg.Points(2), vg.Points(2)}}
)

// mercatorY projects a latitude onto the Mercator y axis, in degrees.
func mercatorY(lat float64) float64 {
	phi := lat * math.Pi / 180
	return math.Log(math.Tan(math.Pi/4+phi/2)) * 180 / math.Pi
}

// inverseMercatorY returns the latitude of a Mercator y value in degrees.
func inverseMercatorY(y float64) float64 {
	return (2*math.Atan(math.Exp(y*math.Pi/180)) - math.Pi/2) * 180 / math.Pi
}

func project(lat, lon float64) plotter.XY {
	return plotter.XY{X: lon, Y: mercatorY(lat)}
}

// latitudeTicks places ticks at round latitudes on a Mercator axis.
type latitudeTicks struct{}

func (latitudeTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(inverseMercatorY(lo), inverseMercatorY(hi))
	for i := range ticks {
		lat := ticks[i].Value
		ticks[i].Value = mercatorY(lat)
		if ticks[i].Label != "" {
			ticks[i].Label = hemisphere(lat, "N", "S")
		}
	}
	return ticks
}

// longitudeTicks labels longitude ticks with their hemisphere.
type longitudeTicks struct{}

func (longitudeTicks) Ticks(lo, hi float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(lo, hi)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = hemisphere(ticks[i].Value, "E", "W")
		}
	}
	return ticks
}

func hemisphere(v float64, pos, neg string) string {
	if v < 0 {
		return fmt.Sprintf("%g°%s", math.Abs(v), neg)
	}
	return fmt.Sprintf("%g°%s", v, pos)
}

// RenderMap draws a map layout on a Mercator projection. Boundaries, when
// given, are drawn as thin grey polylines beneath the boxes.
func RenderMap(path string, layout domain.MapLayout, boundaries []orb.LineString, dpi int) error {
	if err := layout.Extent.Validate(); err != nil {
		return fmt.Errorf("map extent: %w", err)
	}

	p := plot.New()
	p.Title.Text = layout.Title
	p.X.Tick.Marker = longitudeTicks{}
	p.Y.Tick.Marker = latitudeTicks{}
	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	for _, ls := range boundaries {
		if len(ls) < 2 {
			continue
		}
		xys := make(plotter.XYs, len(ls))
		for i, pt := range ls {
			xys[i] = project(pt.Lat(), pt.Lon())
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			continue
		}
		line.Color = grey
		line.Width = vg.Points(0.75)
		line.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
		p.Add(line)
	}

	for i, lb := range layout.Boxes {
		b := lb.Box
		outline := plotter.XYs{
			project(b.LatMin, b.LonMin),
			project(b.LatMax, b.LonMin),
			project(b.LatMax, b.LonMax),
			project(b.LatMin, b.LonMax),
			project(b.LatMin, b.LonMin),
		}
		line, err := plotter.NewLine(outline)
		if err != nil {
			return fmt.Errorf("map box %q: %w", lb.Label, err)
		}
		line.Color = boxColors[i%len(boxColors)]
		line.Dashes = boxDashes[i%len(boxDashes)]
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(lb.Label, line)
	}

	if len(layout.Places) > 0 {
		if err := addPlaces(p, layout.Places); err != nil {
			return err
		}
	}

	p.Legend.Top = true
	p.X.Min, p.X.Max = layout.Extent.LonMin, layout.Extent.LonMax
	p.Y.Min, p.Y.Max = mercatorY(layout.Extent.LatMin), mercatorY(layout.Extent.LatMax)

	return savePlot(p, path, 12*vg.Inch, 8*vg.Inch, dpi)
}

func addPlaces(p *plot.Plot, places []domain.Place) error {
	marks := make(plotter.XYs, len(places))
	labels := plotter.XYLabels{XYs: make(plotter.XYs, len(places)), Labels: make([]string, len(places))}
	for i, pl := range places {
		marks[i] = project(pl.Lat, pl.Lon)
		labels.XYs[i] = project(pl.Lat-0.1, pl.Lon+0.1)
		labels.Labels[i] = pl.Name
	}

	s, err := plotter.NewScatter(marks)
	if err != nil {
		return fmt.Errorf("map places: %w", err)
	}
	s.GlyphStyle.Color = black
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(3)

	l, err := plotter.NewLabels(labels)
	if err != nil {
		return fmt.Errorf("map place labels: %w", err)
	}
	p.Add(s, l)
	return nil
}

// LoadBoundaries reads the line work of a GeoJSON FeatureCollection. Lines
// and polygon rings become polylines; other geometries are ignored.
func LoadBoundaries(path string) ([]orb.LineString, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundaries %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse boundaries %s: %w", path, err)
	}

	var out []orb.LineString
	for _, f := range fc.Features {
		out = appendLines(out, f.Geometry)
	}
	if len(out) == 0 {
		return nil, errors.New("boundaries contain no line work")
	}
	return out, nil
}

func appendLines(out []orb.LineString, g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		out = append(out, geom)
	case orb.MultiLineString:
		out = append(out, geom...)
	case orb.Polygon:
		for _, ring := range geom {
			out = append(out, orb.LineString(ring))
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			out = appendLines(out, poly)
		}
	case orb.Collection:
		for _, child := range geom {
			out = appendLines(out, child)
		}
	}
	return out
}
