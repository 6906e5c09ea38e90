// Package plot renders the raster figures of the batch tools with gonum/plot.
package plot

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultDPI is the raster resolution used when none is configured.
const DefaultDPI = 300

var (
	blue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	red   = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	green = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	amber = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	grey  = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	black = color.RGBA{A: 255}
)

var palette = []color.Color{blue, amber, green, red}

// savePlot renders a single plot to a PNG file.
func savePlot(p *plot.Plot, path string, w, h vg.Length, dpi int) error {
	return saveCanvas(path, w, h, dpi, func(dc draw.Canvas) { p.Draw(dc) })
}

// saveCanvas renders onto a w × h canvas at dpi and writes it as PNG,
// creating parent directories as needed.
func saveCanvas(path string, w, h vg.Length, dpi int, render func(draw.Canvas)) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	c := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseDPI(dpi))
	render(draw.New(c))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(f); err != nil {
		f.Close() //nolint:errcheck // already failing
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
