// Command genmock writes synthetic wrfout files with a clear-sky diurnal
// SWDOWN cycle over central Mexico. The files exercise the full etl run
// without model output at hand.
//
// Usage:
//
//	go run ./cmd/genmock --dir data/mock --start 2022-05-01 --days 3
package main

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/akamensky/argparse"

	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// grid is the synthetic nest: ny × nx cells spanning box.
type grid struct {
	box    domain.BoundingBox
	ny, nx int
}

type settings struct {
	dir       string
	nest      string
	start     time.Time
	days      int
	grid      grid
	peak      float64
	utcOffset int
	seed      uint64
}

func main() {
	s, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(s); err != nil {
		log.Fatal(err)
	}
}

func parseArgs(args []string) (settings, error) {
	parser := argparse.NewParser("genmock", "Writes synthetic wrfout files for demos and smoke runs")

	dir := parser.String("d", "dir", &argparse.Options{Default: "data/mock", Help: "Output directory"})
	nest := parser.String("n", "domain", &argparse.Options{Default: "d02", Help: "Nest name in the file names"})
	start := parser.String("s", "start", &argparse.Options{Default: "2022-05-01", Help: "First day, YYYY-MM-DD"})
	days := parser.Int("", "days", &argparse.Options{Default: 3, Help: "Number of daily files"})
	ny := parser.Int("", "rows", &argparse.Options{Default: 10, Help: "south_north cells"})
	nx := parser.Int("", "cols", &argparse.Options{Default: 12, Help: "west_east cells"})
	peak := parser.Float("", "peak", &argparse.Options{Default: 950.0, Help: "Clear-sky noon SWDOWN in W m-2"})
	offset := parser.Int("", "utc-offset", &argparse.Options{Default: -6, Help: "Local time offset used to place solar noon"})
	seed := parser.Int("", "seed", &argparse.Options{Default: 1, Help: "Cloud noise seed"})

	if err := parser.Parse(args); err != nil {
		return settings{}, errors.New(parser.Usage(err))
	}

	t, err := time.ParseInLocation(domain.DateLayout, *start, time.UTC)
	if err != nil {
		return settings{}, fmt.Errorf("invalid --start: %w", err)
	}
	if *days < 1 || *ny < 1 || *nx < 1 {
		return settings{}, errors.New("--days, --rows and --cols must be positive")
	}
	return settings{
		dir:   *dir,
		nest:  *nest,
		start: t,
		days:  *days,
		grid: grid{
			box: domain.BoundingBox{LatMin: 18.9, LatMax: 20.1, LonMin: -99.7, LonMax: -98.5},
			ny:  *ny,
			nx:  *nx,
		},
		peak:      *peak,
		utcOffset: *offset,
		seed:      uint64(*seed),
	}, nil
}

func run(s settings) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}
	rng := rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	for d := range s.days {
		day := s.start.AddDate(0, 0, d)
		name := fmt.Sprintf("wrfout_%s_%s_00.nc", s.nest, day.Format(domain.DateLayout))
		path := filepath.Join(s.dir, name)
		f := synthField(day, s, rng)
		if err := wrf.WriteField(path, f); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		log.Printf("wrote %s (%d steps, %dx%d)", path, f.Steps(), s.grid.ny, s.grid.nx)
	}
	return nil
}

// synthField builds 24 hourly steps starting at origin (UTC). Each hour has a
// single cloud factor in [0.7, 1] applied to every cell, plus a small
// west-to-east gradient.
func synthField(origin time.Time, s settings, rng *rand.Rand) domain.Field {
	g := s.grid
	lat := make([][]float64, g.ny)
	lon := make([][]float64, g.ny)
	for j := range g.ny {
		lat[j] = make([]float64, g.nx)
		lon[j] = make([]float64, g.nx)
		for i := range g.nx {
			lat[j][i] = step(g.box.LatMin, g.box.LatMax, j, g.ny)
			lon[j][i] = step(g.box.LonMin, g.box.LonMax, i, g.nx)
		}
	}

	values := make([][][]float64, 24)
	for t := range values {
		local := origin.Add(time.Duration(t+s.utcOffset) * time.Hour)
		sun := clearSky(local, s.peak)
		cloud := 0.7 + 0.3*rng.Float64()
		values[t] = make([][]float64, g.ny)
		for j := range g.ny {
			values[t][j] = make([]float64, g.nx)
			for i := range g.nx {
				gradient := 1 - 0.05*float64(i)/float64(max(g.nx-1, 1))
				values[t][j][i] = sun * cloud * gradient
			}
		}
	}
	return domain.Field{Lat: lat, Lon: lon, Values: values}
}

// clearSky is a half-sine between 06:00 and 18:00 local time, zero at night.
func clearSky(local time.Time, peak float64) float64 {
	h := float64(local.Hour()) + float64(local.Minute())/60
	if h <= 6 || h >= 18 {
		return 0
	}
	return peak * math.Sin(math.Pi*(h-6)/12)
}

func step(lo, hi float64, i, n int) float64 {
	if n == 1 {
		return (lo + hi) / 2
	}
	return lo + (hi-lo)*float64(i)/float64(n-1)
}
