package pipeline

import (
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// FileResult is the outcome of one file: either a Part or a skip reason.
type FileResult struct {
	File string
	Part domain.Part
	Skip domain.SkipReason
	Err  error
}

// OK reports whether the file contributed a part.
func (r FileResult) OK() bool { return r.Skip == domain.SkipNone }

// Result is the assembled output of a run.
type Result struct {
	// Files holds one entry per input file, in input order.
	Files  []FileResult
	Hourly []domain.Row
	Daily  []domain.DailySummary
}

// Empty reports the "no data" outcome: no rows survived extraction and
// month filtering.
func (r Result) Empty() bool { return len(r.Hourly) == 0 }

// Processed counts files that contributed a part.
func (r Result) Processed() int {
	n := 0
	for _, f := range r.Files {
		if f.OK() {
			n++
		}
	}
	return n
}

// Skipped counts files that were skipped.
func (r Result) Skipped() int { return len(r.Files) - r.Processed() }

// SkipCounts tallies skipped files by reason.
func (r Result) SkipCounts() map[domain.SkipReason]int {
	out := make(map[domain.SkipReason]int)
	for _, f := range r.Files {
		if !f.OK() {
			out[f.Skip]++
		}
	}
	return out
}

// Status is a progress snapshot of a running pipeline.
type Status struct {
	Files     int `json:"files"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
}

// Summarize assembles the successful parts in file order, applies the month
// filter, and aggregates by day.
func Summarize(results []FileResult, month int, stats []domain.Statistic) Result {
	parts := make([]domain.Part, 0, len(results))
	for _, r := range results {
		if r.OK() {
			parts = append(parts, r.Part)
		}
	}
	hourly := domain.FilterMonth(domain.Assemble(parts), month)
	return Result{
		Files:  results,
		Hourly: hourly,
		Daily:  domain.Aggregate(hourly, stats),
	}
}
