package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

func TestParseArgs_Region(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "region.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
title: ZMVM
region:
  lat_min: 19.3
  lat_max: 19.75
  lon_min: -99.26
  lon_max: -98.88
places:
  - name: CDMX
    lat: 19.433333
    lon: -99.133333
`), 0o600))

	req, err := parseArgs([]string{"maps", "region", "-c", cfg, "-o", "zmvm.png", "--dpi", "20"})
	require.NoError(t, err)

	assert.Equal(t, "zmvm.png", req.output)
	assert.Equal(t, 20, req.dpi)
	require.Len(t, req.layout.Boxes, 1)
	assert.Equal(t, domain.BoundingBox{LatMin: 19.3, LatMax: 19.75, LonMin: -99.26, LonMax: -98.88}, req.layout.Boxes[0].Box)
	require.Len(t, req.layout.Places, 1)
	assert.Equal(t, "CDMX", req.layout.Places[0].Name)
	assert.Contains(t, req.layout.Title, "ZMVM")
}

func TestParseArgs_SharedFlagsFollowSubcommand(t *testing.T) {
	req, err := parseArgs([]string{"maps", "region", "--dpi", "72", "-b", "states.geojson"})
	require.NoError(t, err)
	assert.Equal(t, 72, req.dpi)
	assert.Equal(t, "states.geojson", req.boundaries)

	_, err = parseArgs([]string{"maps", "--dpi", "72", "region"})
	require.Error(t, err, "the subcommand must come first")
}

func TestParseArgs_RegionDefaults(t *testing.T) {
	req, err := parseArgs([]string{"maps", "region"})
	require.NoError(t, err)
	assert.Equal(t, "area_came.png", req.output)
	assert.Equal(t, defaultRegion.Region, req.layout.Boxes[0].Box)
	assert.Len(t, req.layout.Places, len(domain.ReferencePlaces))
}

func TestParseArgs_Domains(t *testing.T) {
	dir := t.TempDir()
	outer := filepath.Join(dir, "geo_em.d01.nc")
	inner := filepath.Join(dir, "geo_em.d02.nc")
	require.NoError(t, wrf.WriteStatic(outer,
		[][]float64{{14, 14}, {23, 23}}, [][]float64{{-105, -94}, {-105, -94}}))
	require.NoError(t, wrf.WriteStatic(inner,
		[][]float64{{18.5, 18.5}, {20.5, 20.5}}, [][]float64{{-100.5, -98}, {-100.5, -98}}))

	req, err := parseArgs([]string{"maps", "domains", "-g", outer, "-g", inner})
	require.NoError(t, err)

	assert.Equal(t, "wrf_domains.png", req.output)
	require.Len(t, req.layout.Boxes, 2)
	assert.Equal(t, "Domain 1", req.layout.Boxes[0].Label)
	assert.Equal(t, domain.BoundingBox{LatMin: 12, LatMax: 25, LonMin: -107, LonMax: -92}, req.layout.Extent)
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := parseArgs([]string{"maps", "domains"})
	require.Error(t, err, "at least one domain file is required")

	_, err = parseArgs([]string{"maps", "region", "-c", "missing.yaml"})
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("region:\n  lat_min: 20\n  lat_max: 19\n"), 0o600))
	_, err = parseArgs([]string{"maps", "region", "-c", bad})
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	geo := filepath.Join(dir, "states.geojson")
	require.NoError(t, os.WriteFile(geo, []byte(`{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{},"geometry":{"type":"LineString","coordinates":[[-99.5,19],[-98.7,19.6]]}}]}`), 0o600))

	req, err := parseArgs([]string{"maps", "region", "-o", filepath.Join(dir, "area.png"), "--dpi", "20", "-b", geo})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, render(req, &out))
	assert.Contains(t, out.String(), "Map saved to")

	png, err := os.ReadFile(req.output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
