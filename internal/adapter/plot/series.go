package plot

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

const fluxLabel = "SWDOWN (W/m²)"

func unix(t time.Time) float64 { return float64(t.Unix()) }

// HourlySeries draws the hourly values as a single line.
func HourlySeries(path, title string, rows []domain.Row, dpi int) error {
	if len(rows) == 0 {
		return errors.New("hourly plot: no rows")
	}
	xys := make(plotter.XYs, len(rows))
	for i, r := range rows {
		xys[i] = plotter.XY{X: unix(r.Timestamp), Y: r.Value}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time"
	p.Y.Label.Text = fluxLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02\n15:04", Time: plot.UTCUnixTime}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("hourly plot: %w", err)
	}
	line.Color = blue
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add("Hourly SWDOWN", line)
	p.Legend.Top = true

	return savePlot(p, path, 15*vg.Inch, 6*vg.Inch, dpi)
}

// DailyStatistics draws one line per statistic over the days.
func DailyStatistics(path, title string, days []domain.DailySummary, stats []domain.Statistic, dpi int) error {
	if len(days) == 0 {
		return errors.New("daily plot: no days")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = fluxLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02", Time: plot.UTCUnixTime}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, st := range stats {
		var xys plotter.XYs
		for _, d := range days {
			if v, ok := d.Value(st); ok {
				xys = append(xys, plotter.XY{X: unix(d.Date), Y: v})
			}
		}
		if len(xys) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("daily plot %s: %w", st, err)
		}
		c := palette[i%len(palette)]
		line.Color = c
		points.GlyphStyle.Color = c
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(line, points)
		p.Legend.Add(statLabel(st), line, points)
	}

	return savePlot(p, path, 15*vg.Inch, 6*vg.Inch, dpi)
}

func statLabel(s domain.Statistic) string {
	switch s {
	case domain.StatMean:
		return "Daily Mean"
	case domain.StatMax:
		return "Daily Max"
	case domain.StatMin:
		return "Daily Min"
	case domain.StatStd:
		return "Daily Std"
	default:
		return string(s)
	}
}
