// Command validate cross-checks the tables written by etl: the daily
// statistics are recomputed from the hourly series and compared, and the
// hourly series is checked for ordering and coverage.
//
// Usage:
//
//	go run ./cmd/validate --hourly swdown_hourly.csv --daily swdown_daily.csv
package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/akamensky/argparse"

	csvadapter "github.com/couchcryptid/wrf-swdown-etl/internal/adapter/csv"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// tolerance covers the two-decimal rounding of the daily table.
const tolerance = 0.0051

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	parser := argparse.NewParser("validate", "Cross-checks the hourly and daily SWDOWN tables")
	hourly := parser.String("", "hourly", &argparse.Options{Default: "swdown_hourly.csv", Help: "Hourly CSV"})
	daily := parser.String("", "daily", &argparse.Options{Default: "swdown_daily.csv", Help: "Daily CSV"})
	if err := parser.Parse(os.Args); err != nil {
		fmt.Fprint(os.Stderr, parser.Usage(err))
		os.Exit(2)
	}

	if code := run(*hourly, *daily, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(hourlyPath, dailyPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== SWDOWN Table Validation ===")
	fmt.Fprintln(out)

	rows, err := loadHourly(hourlyPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load hourly CSV: %v\n", err)
		return 1
	}
	days, stats, err := loadDaily(dailyPath)
	if err != nil {
		fmt.Fprintf(out, "FATAL: load daily CSV: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateHourlyOrder(rows),
		validateCoverage(rows, days),
		validateDailyStatistics(rows, days, stats),
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d hourly, %d daily (%d statistics)\n", len(rows), len(days), len(stats))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

func loadHourly(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	samples, err := csvadapter.ReadSeries(f, csvadapter.SeriesSpec{ValueColumn: csvadapter.ValueColumn})
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, errors.New("no data rows")
	}
	rows := make([]domain.Row, len(samples))
	for i, s := range samples {
		rows[i] = domain.Row{Timestamp: s.Timestamp, Value: s.Value}
	}
	return rows, nil
}

func loadDaily(path string) ([]domain.DailySummary, []domain.Statistic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return csvadapter.ReadDaily(f)
}

// validateHourlyOrder checks the series is ascending and reports missing hours
// inside each day.
func validateHourlyOrder(rows []domain.Row) *phase {
	p := &phase{name: "Hourly series ordering"}
	for i := 1; i < len(rows); i++ {
		prev, cur := rows[i-1].Timestamp, rows[i].Timestamp
		if cur.Before(prev) {
			p.errorf("row %d: %s precedes %s", i+1, cur.Format(domain.TimestampLayout), prev.Format(domain.TimestampLayout))
			continue
		}
		if cur.Equal(prev) {
			p.errorf("row %d: duplicate timestamp %s", i+1, cur.Format(domain.TimestampLayout))
		}
	}
	return p
}

// validateCoverage checks both tables cover the same dates.
func validateCoverage(rows []domain.Row, days []domain.DailySummary) *phase {
	p := &phase{name: "Date coverage"}
	hourlyDates := make(map[string]bool)
	for _, r := range rows {
		hourlyDates[r.Date()] = true
	}
	dailyDates := make(map[string]bool, len(days))
	for _, d := range days {
		date := d.Date.Format(domain.DateLayout)
		dailyDates[date] = true
		if !hourlyDates[date] {
			p.errorf("daily date %s has no hourly rows", date)
		}
	}
	for date := range hourlyDates {
		if !dailyDates[date] {
			p.errorf("hourly date %s missing from daily table", date)
		}
	}
	return p
}

// validateDailyStatistics recomputes every daily statistic from the hourly
// rows and compares it with the table.
func validateDailyStatistics(rows []domain.Row, days []domain.DailySummary, stats []domain.Statistic) *phase {
	p := &phase{name: "Daily statistics recomputation"}
	recomputed := make(map[string]domain.DailySummary)
	for _, d := range domain.Aggregate(rows, stats) {
		recomputed[d.Date.Format(domain.DateLayout)] = d
	}
	for _, d := range days {
		want, ok := recomputed[d.Date.Format(domain.DateLayout)]
		if !ok {
			continue // reported by validateCoverage
		}
		for _, s := range stats {
			got, gotOK := d.Value(s)
			exp, _ := want.Value(s)
			if !gotOK {
				p.errorf("%s: %s is empty", d.Date.Format(domain.DateLayout), s)
				continue
			}
			if math.Abs(got-exp) > tolerance {
				p.errorf("%s: %s is %.2f, hourly rows give %.2f", d.Date.Format(domain.DateLayout), s, got, exp)
			}
		}
	}
	return p
}
