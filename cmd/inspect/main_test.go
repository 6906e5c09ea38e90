package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wrfout_d02_2022-05-01_00.nc")
	f := domain.Field{
		Lat:    [][]float64{{19.4, 19.4}, {19.6, 19.6}},
		Lon:    [][]float64{{-99.2, -99.0}, {-99.2, -99.0}},
		Values: [][][]float64{{{1, 2}, {3, 4}}},
	}
	require.NoError(t, wrf.WriteField(path, f))
	return path
}

func TestParseArgs(t *testing.T) {
	opts, err := parseArgs([]string{"inspect", "wrfout.nc"})
	require.NoError(t, err)
	assert.Equal(t, "wrfout.nc", opts.path)
	assert.Equal(t, []string{"swdown"}, opts.keywords)
	assert.False(t, opts.all)

	opts, err = parseArgs([]string{"inspect", "-k", "xlat", "-k", "xlong", "-o", "vars.csv", "wrfout.nc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"xlat", "xlong"}, opts.keywords)
	assert.Equal(t, "vars.csv", opts.csvPath)
}

func TestRun(t *testing.T) {
	path := writeSample(t)
	csvPath := filepath.Join(t.TempDir(), "vars.csv")

	var out bytes.Buffer
	require.NoError(t, run(options{path: path, keywords: []string{"swdown"}, csvPath: csvPath}, &out))

	text := out.String()
	assert.Contains(t, text, "Found 1 variables")
	assert.Contains(t, text, "SWDOWN\n")
	assert.Regexp(t, `Shape:\s+\(1, 2, 2\)`, text)
	assert.Contains(t, text, "Downward shortwave radiation flux at ground surface")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Variable,Dimensions,Units,Description,Shape,Standard_Description", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "SWDOWN,"))
}

func TestRun_NoMatches(t *testing.T) {
	path := writeSample(t)
	var out bytes.Buffer
	require.NoError(t, run(options{path: path, keywords: []string{"ozone"}}, &out))
	assert.Contains(t, out.String(), "No variables matching ozone")
}

func TestRun_All(t *testing.T) {
	path := writeSample(t)
	var out bytes.Buffer
	require.NoError(t, run(options{path: path, keywords: []string{"swdown"}, all: true}, &out))
	assert.Contains(t, out.String(), "Found 3 variables")
}

func TestFormatShape(t *testing.T) {
	assert.Equal(t, "(24, 99, 120)", formatShape([]int64{24, 99, 120}))
	assert.Equal(t, "()", formatShape(nil))
}
