// Command correlate joins the hourly SWDOWN series with an externally prepared
// station series (for example O₃), fits a least-squares line, and writes the
// correlation figure and the joined table.
//
// Usage:
//
//	go run ./cmd/correlate \
//	  --swdown swdown_hourly.csv \
//	  --station RAMA_O3_MAYO_2022_155ppb.csv --station-headerless \
//	  --plot o3_swdown_correlation.png --csv o3_swdown_correlation_data.csv
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/akamensky/argparse"

	csvadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/csv"
	plotadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/plot"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

type options struct {
	swdownPath   string
	swdownColumn string
	stationPath  string
	stationCol   string
	headerless   bool
	stationLabel string
	plotPath     string
	csvPath      string
	dpi          int
}

func main() {
	opts, err := parseArgs(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "correlate: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (options, error) {
	parser := argparse.NewParser("correlate", "Correlates the hourly SWDOWN series with a station series")

	swdown := parser.String("", "swdown", &argparse.Options{
		Default: "swdown_hourly.csv",
		Help:    "Hourly SWDOWN CSV written by etl"})
	swdownCol := parser.String("", "swdown-column", &argparse.Options{
		Default: csvadapter.ValueColumn,
		Help:    "Value column of the SWDOWN table"})
	station := parser.String("", "station", &argparse.Options{
		Required: true,
		Help:     "Station CSV with a timestamp and a value column"})
	stationCol := parser.String("", "station-column", &argparse.Options{
		Default: "o3_concentration",
		Help:    "Value column of the station table"})
	headerless := parser.Flag("", "station-headerless", &argparse.Options{
		Help: "Station CSV has no header; columns are timestamp,<station-column>"})
	label := parser.String("", "station-label", &argparse.Options{
		Default: "O₃ Concentration (ppb)",
		Help:    "Axis label of the station series"})
	plotPath := parser.String("", "plot", &argparse.Options{
		Default: "o3_swdown_correlation.png",
		Help:    "Output PNG path; empty disables the figure"})
	csvPath := parser.String("", "csv", &argparse.Options{
		Default: "o3_swdown_correlation_data.csv",
		Help:    "Output path of the joined table; empty disables it"})
	dpi := parser.Int("", "dpi", &argparse.Options{
		Default: plotadapter.DefaultDPI,
		Help:    "Figure resolution"})

	if err := parser.Parse(args); err != nil {
		return options{}, errors.New(parser.Usage(err))
	}
	if *dpi <= 0 {
		return options{}, fmt.Errorf("invalid --dpi %d: must be positive", *dpi)
	}
	return options{
		swdownPath:   *swdown,
		swdownColumn: *swdownCol,
		stationPath:  *station,
		stationCol:   *stationCol,
		headerless:   *headerless,
		stationLabel: *label,
		plotPath:     *plotPath,
		csvPath:      *csvPath,
		dpi:          *dpi,
	}, nil
}

func run(opts options, out io.Writer) error {
	swdown, err := readSeries(opts.swdownPath, csvadapter.SeriesSpec{ValueColumn: opts.swdownColumn})
	if err != nil {
		return err
	}

	stationSpec := csvadapter.SeriesSpec{ValueColumn: opts.stationCol}
	if opts.headerless {
		stationSpec.Names = []string{"timestamp", opts.stationCol}
	}
	station, err := readSeries(opts.stationPath, stationSpec)
	if err != nil {
		return err
	}

	rows := domain.InnerJoin(swdown, station)
	fmt.Fprintf(out, "Joined %d rows (%d SWDOWN, %d %s)\n", len(rows), len(swdown), len(station), opts.stationCol)

	reg, err := domain.Regress(rows)
	if err != nil {
		return fmt.Errorf("regress: %w", err)
	}

	if opts.plotPath != "" {
		x := plotadapter.Axis{Name: "SWDOWN", Label: "SWDOWN (W/m²)"}
		y := plotadapter.Axis{Name: opts.stationCol, Label: opts.stationLabel}
		if err := plotadapter.Correlation(opts.plotPath, rows, reg, x, y, opts.dpi); err != nil {
			return err
		}
		fmt.Fprintf(out, "Figure saved to %s\n", opts.plotPath)
	}

	printRegression(out, reg)
	printDescribe(out, rows, opts.stationCol)

	if opts.csvPath != "" {
		err := csvadapter.CreateFile(opts.csvPath, func(w io.Writer) error {
			return csvadapter.WriteJoined(w, rows, "SWDOWN", opts.stationCol)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nProcessed data saved to %s\n", opts.csvPath)
	}
	return nil
}

func readSeries(path string, spec csvadapter.SeriesSpec) ([]domain.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	samples, err := csvadapter.ReadSeries(f, spec)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return samples, nil
}

func printRegression(w io.Writer, reg domain.Regression) {
	fmt.Fprintln(w, "\nCorrelation Analysis Results:")
	fmt.Fprintf(w, "Pearson correlation coefficient (R): %.3f\n", reg.R)
	fmt.Fprintf(w, "R-squared (R²): %.3f\n", reg.RSquared)
	fmt.Fprintf(w, "P-value: %.3e\n", reg.PValue)
	fmt.Fprintf(w, "Slope: %.3f\n", reg.Slope)
	fmt.Fprintf(w, "Intercept: %.3f\n", reg.Intercept)
	fmt.Fprintf(w, "Std. error of slope: %.3f\n", reg.StdErr)
}

func printDescribe(w io.Writer, rows []domain.JoinedRow, stationCol string) {
	xs := make([]float64, len(rows))
	ys := make([]float64, len(rows))
	for i, r := range rows {
		xs[i] = r.X
		ys[i] = r.Y
	}
	cols := []struct {
		name string
		d    domain.Describe
	}{
		{"SWDOWN", domain.DescribeValues(xs)},
		{stationCol, domain.DescribeValues(ys)},
	}

	fmt.Fprintln(w, "\nSummary Statistics:")
	fmt.Fprintf(w, "%-20s %8s %12s %12s %12s %12s\n", "column", "count", "mean", "std", "min", "max")
	for _, c := range cols {
		fmt.Fprintf(w, "%-20s %8d %12.3f %12.3f %12.3f %12.3f\n", c.name, c.d.Count, c.d.Mean, c.d.Std, c.d.Min, c.d.Max)
	}
}
