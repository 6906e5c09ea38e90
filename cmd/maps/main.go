// Command maps renders context maps: the outlines of nested WRF domains, or a
// region of interest with reference places.
//
// Usage:
//
//	go run ./cmd/maps domains -g geo_em.d01.nc -g geo_em.d02.nc -o wrf_domains.png
//	go run ./cmd/maps region --config region.yaml -o area_came.png --dpi 150 -b geo_em.d02.nc
//
// The subcommand comes first; shared flags (--dpi, -b) follow it.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"
	"github.com/paulmach/orb"
	"gopkg.in/yaml.v3"

	plotadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/plot"
	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// regionFile is the YAML description of a region map.
type regionFile struct {
	Title  string             `yaml:"title"`
	Region domain.BoundingBox `yaml:"region"`
	Places []domain.Place     `yaml:"places"`
}

// defaultRegion is the CAMe area with the usual reference cities.
var defaultRegion = regionFile{
	Title:  "Area of interest (CAMe)",
	Region: domain.BoundingBox{LatMin: 19.18, LatMax: 19.45, LonMin: -99.15, LonMax: -98.52},
	Places: domain.ReferencePlaces,
}

type request struct {
	layout     domain.MapLayout
	output     string
	boundaries string
	dpi        int
}

func main() {
	req, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := render(req, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "maps: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (request, error) {
	parser := argparse.NewParser("maps", "Renders WRF domain and region context maps")

	boundaries := parser.String("b", "boundaries", &argparse.Options{
		Help: "GeoJSON FeatureCollection with coastlines or state lines"})
	dpi := parser.Int("", "dpi", &argparse.Options{
		Default: plotadapter.DefaultDPI,
		Help:    "Figure resolution"})

	domainsCmd := parser.NewCommand("domains", "Outlines nested domains from geo_em or wrfout files")
	geoFiles := domainsCmd.StringList("g", "geo-em", &argparse.Options{
		Required: true,
		Help:     "Domain file, outermost first; repeat per nest"})
	domainsOut := domainsCmd.String("o", "output", &argparse.Options{
		Default: "wrf_domains.png",
		Help:    "Output PNG path"})
	domainsTitle := domainsCmd.String("t", "title", &argparse.Options{
		Default: "WRF domains",
		Help:    "Figure title"})

	regionCmd := parser.NewCommand("region", "Outlines a region of interest with reference places")
	configPath := regionCmd.String("c", "config", &argparse.Options{
		Help: "YAML file with title, region and places"})
	regionOut := regionCmd.String("o", "output", &argparse.Options{
		Default: "area_came.png",
		Help:    "Output PNG path"})

	if err := parser.Parse(args); err != nil {
		return request{}, errors.New(parser.Usage(err))
	}
	if *dpi <= 0 {
		return request{}, fmt.Errorf("invalid --dpi %d: must be positive", *dpi)
	}

	req := request{boundaries: *boundaries, dpi: *dpi}
	switch {
	case domainsCmd.Happened():
		extents := make([]domain.BoundingBox, 0, len(*geoFiles))
		for _, path := range *geoFiles {
			b, err := wrf.ReadExtent(path)
			if err != nil {
				return request{}, err
			}
			extents = append(extents, b)
		}
		layout, err := domain.NestedDomainLayout(*domainsTitle, extents)
		if err != nil {
			return request{}, err
		}
		req.layout, req.output = layout, *domainsOut

	case regionCmd.Happened():
		rf := defaultRegion
		if *configPath != "" {
			loaded, err := loadRegionFile(*configPath)
			if err != nil {
				return request{}, err
			}
			rf = loaded
		}
		layout, err := domain.RegionLayout(regionTitle(rf), rf.Region, rf.Places)
		if err != nil {
			return request{}, err
		}
		req.layout, req.output = layout, *regionOut
	}
	return req, nil
}

// loadRegionFile reads a region description. Unset fields keep the CAMe
// defaults; an explicit empty places list draws no places.
func loadRegionFile(path string) (regionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return regionFile{}, fmt.Errorf("read region config: %w", err)
	}
	rf := defaultRegion
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return regionFile{}, fmt.Errorf("parse region config %s: %w", path, err)
	}
	return rf, nil
}

func regionTitle(rf regionFile) string {
	b := rf.Region
	return fmt.Sprintf("%s, lat %.2f to %.2f, lon %.2f to %.2f", rf.Title, b.LatMin, b.LatMax, b.LonMin, b.LonMax)
}

func render(req request, out io.Writer) error {
	var lines []orb.LineString
	if req.boundaries != "" {
		var err error
		if lines, err = plotadapter.LoadBoundaries(req.boundaries); err != nil {
			return err
		}
	}
	if err := plotadapter.RenderMap(req.output, req.layout, lines, req.dpi); err != nil {
		return err
	}
	fmt.Fprintf(out, "Map saved to %s\n", req.output)
	return nil
}
