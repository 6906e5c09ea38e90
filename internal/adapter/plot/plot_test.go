package plot

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

const testDPI = 20

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func requirePNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func hourlyRows() []domain.Row {
	var rows []domain.Row
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 48; i++ {
		v := 0.0
		if h := i % 24; h >= 7 && h <= 18 {
			v = float64((h - 6) * 70)
		}
		rows = append(rows, domain.Row{Timestamp: start.Add(time.Duration(i) * time.Hour), Value: v})
	}
	return rows
}

func TestHourlySeries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hourly.png")
	require.NoError(t, HourlySeries(path, "Hourly", hourlyRows(), testDPI))
	requirePNG(t, path)

	require.Error(t, HourlySeries(path, "Hourly", nil, testDPI))
}

func TestDailyStatistics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.png")
	days := domain.Aggregate(hourlyRows(), domain.AllStatistics)
	require.NoError(t, DailyStatistics(path, "Daily", days, domain.AllStatistics, testDPI))
	requirePNG(t, path)

	require.Error(t, DailyStatistics(path, "Daily", nil, domain.AllStatistics, testDPI))
}

func TestCorrelation(t *testing.T) {
	start := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	var rows []domain.JoinedRow
	for i := 0; i < 5; i++ {
		x := float64(100 * (i + 1))
		rows = append(rows, domain.JoinedRow{Timestamp: start.Add(time.Duration(i) * time.Hour), X: x, Y: 2*x + 1})
	}
	reg, err := domain.Regress(rows)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "corr.png")
	require.NoError(t, Correlation(path, rows, reg,
		Axis{Name: "SWDOWN", Label: "SWDOWN (W/m²)"},
		Axis{Name: "O3", Label: "O3 Concentration (ppb)"}, testDPI))
	requirePNG(t, path)
}

func TestMercator(t *testing.T) {
	assert.InDelta(t, 0, mercatorY(0), 1e-12)
	for _, lat := range []float64{-60, -19.4, 0, 19.4, 45, 70} {
		assert.InDelta(t, lat, inverseMercatorY(mercatorY(lat)), 1e-9)
	}
	// Mercator stretches latitude away from the equator.
	assert.Greater(t, mercatorY(60), 60.0)
}

func TestLatitudeTicks(t *testing.T) {
	ticks := latitudeTicks{}.Ticks(mercatorY(18), mercatorY(21))
	require.NotEmpty(t, ticks)
	var labeled int
	for _, tk := range ticks {
		assert.GreaterOrEqual(t, tk.Value, mercatorY(18)-1e-9)
		assert.LessOrEqual(t, tk.Value, mercatorY(21)+1e-9)
		if tk.Label != "" {
			labeled++
			assert.Contains(t, tk.Label, "°N")
		}
	}
	assert.Positive(t, labeled)
	assert.Equal(t, "99.5°W", hemisphere(-99.5, "E", "W"))
}

func TestRenderMap_Region(t *testing.T) {
	box := domain.BoundingBox{LatMin: 19.18, LatMax: 19.45, LonMin: -99.15, LonMax: -98.52}
	layout, err := domain.RegionLayout("CAMe", box, domain.ReferencePlaces)
	require.NoError(t, err)

	border := []orb.LineString{{{-100, 19}, {-98, 19.2}}, {{-99, 20}}}
	path := filepath.Join(t.TempDir(), "region.png")
	require.NoError(t, RenderMap(path, layout, border, testDPI))
	requirePNG(t, path)
}

func TestRenderMap_Domains(t *testing.T) {
	layout, err := domain.NestedDomainLayout("Domains", []domain.BoundingBox{
		{LatMin: 10, LatMax: 25, LonMin: -110, LonMax: -90},
		{LatMin: 18, LatMax: 21, LonMin: -101, LonMax: -97},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "domains.png")
	require.NoError(t, RenderMap(path, layout, nil, testDPI))
	requirePNG(t, path)

	require.Error(t, RenderMap(path, domain.MapLayout{Extent: domain.BoundingBox{LatMin: 2, LatMax: 1}}, nil, testDPI))
}

func TestLoadBoundaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "states.geojson")
	doc := `{"type":"FeatureCollection","features":[
		{"type":"Feature","properties":{"name":"A"},"geometry":{"type":"Polygon","coordinates":[[[-99.5,19],[-99,19],[-99,19.5],[-99.5,19]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"MultiLineString","coordinates":[[[-98,18],[-97,18]],[[-96,18],[-95,18]]]}},
		{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[-99,19]}}
	]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	lines, err := LoadBoundaries(path)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, orb.Point{-99.5, 19}, lines[0][0])

	pointsOnly := filepath.Join(t.TempDir(), "points.geojson")
	require.NoError(t, os.WriteFile(pointsOnly, []byte(`{"type":"FeatureCollection","features":[]}`), 0o600))
	_, err = LoadBoundaries(pointsOnly)
	require.Error(t, err)
}

func TestSink_Load(t *testing.T) {
	dir := t.TempDir()
	s := NewSink(dir, "came", []domain.Statistic{domain.StatMax}, testDPI, slog.Default())
	assert.Equal(t, "plot", s.Name())

	rows := hourlyRows()
	require.NoError(t, s.Load(context.Background(), rows, domain.Aggregate(rows, []domain.Statistic{domain.StatMax})))
	requirePNG(t, filepath.Join(dir, "came_timeseries.png"))
	requirePNG(t, filepath.Join(dir, "came_daily.png"))
}
