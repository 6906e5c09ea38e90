package plot

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// Axis names one series of the correlation figure.
type Axis struct {
	Name  string
	Label string
}

// Correlation draws the scatter of y against x with the fitted line on the
// left, and the two time series stacked on the right.
func Correlation(path string, rows []domain.JoinedRow, reg domain.Regression, x, y Axis, dpi int) error {
	if len(rows) == 0 {
		return errors.New("correlation plot: no rows")
	}

	scatter, err := scatterPanel(rows, reg, x, y)
	if err != nil {
		return err
	}
	top, err := timePanel(rows, y, func(r domain.JoinedRow) float64 { return r.Y }, blue)
	if err != nil {
		return err
	}
	top.Title.Text = fmt.Sprintf("%s and %s Time Series", y.Name, x.Name)
	bottom, err := timePanel(rows, x, func(r domain.JoinedRow) float64 { return r.X }, red)
	if err != nil {
		return err
	}
	bottom.X.Label.Text = "Time"

	w, h := 15*vg.Inch, 6*vg.Inch
	return saveCanvas(path, w, h, dpi, func(dc draw.Canvas) {
		half := (dc.Max.X - dc.Min.X) / 2
		mid := (dc.Max.Y - dc.Min.Y) / 2
		scatter.Draw(draw.Crop(dc, 0, -half, 0, 0))
		top.Draw(draw.Crop(dc, half, 0, mid, 0))
		bottom.Draw(draw.Crop(dc, half, 0, 0, -mid))
	})
}

func scatterPanel(rows []domain.JoinedRow, reg domain.Regression, x, y Axis) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(rows))
	for i, r := range rows {
		xys[i] = plotter.XY{X: r.X, Y: r.Y}
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s Scatter Plot", y.Name, x.Name)
	p.X.Label.Text = x.Label
	p.Y.Label.Text = y.Label
	p.Add(plotter.NewGrid())

	s, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("correlation scatter: %w", err)
	}
	s.GlyphStyle.Color = blue
	s.GlyphStyle.Shape = draw.CircleGlyph{}
	s.GlyphStyle.Radius = vg.Points(2)
	p.Add(s)

	fit := plotter.NewFunction(func(v float64) float64 { return reg.Intercept + reg.Slope*v })
	fit.Color = red
	fit.Width = vg.Points(1.5)
	p.Add(fit)
	p.Legend.Add(fmt.Sprintf("R² = %.3f", reg.RSquared), fit)
	p.Legend.Add(fmt.Sprintf("p-value = %.3e", reg.PValue))
	p.Legend.Top = true
	p.Legend.Left = true
	return p, nil
}

func timePanel(rows []domain.JoinedRow, a Axis, value func(domain.JoinedRow) float64, c color.Color) (*plot.Plot, error) {
	xys := make(plotter.XYs, len(rows))
	for i, r := range rows {
		xys[i] = plotter.XY{X: unix(r.Timestamp), Y: value(r)}
	}

	p := plot.New()
	p.Y.Label.Text = a.Label
	p.X.Tick.Marker = plot.TimeTicks{Format: "01-02\n15:04", Time: plot.UTCUnixTime}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, fmt.Errorf("correlation time series %s: %w", a.Name, err)
	}
	line.Color = c
	p.Add(line)
	p.Legend.Add(a.Name, line)
	p.Legend.Top = true
	return p, nil
}
