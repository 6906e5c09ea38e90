package domain

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Statistic names a daily reduction.
type Statistic string

const (
	StatMean Statistic = "mean"
	StatMax  Statistic = "max"
	StatMin  Statistic = "min"
	StatStd  Statistic = "std"
)

// AllStatistics is the canonical output order.
var AllStatistics = []Statistic{StatMean, StatMax, StatMin, StatStd}

// ParseStatistics parses a comma-separated list such as "mean,max".
// Order is preserved and duplicates are dropped.
func ParseStatistics(s string) ([]Statistic, error) {
	seen := make(map[Statistic]bool)
	var out []Statistic
	for _, part := range strings.Split(s, ",") {
		name := Statistic(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}
		switch name {
		case StatMean, StatMax, StatMin, StatStd:
		default:
			return nil, fmt.Errorf("unknown statistic %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no statistics in %q", s)
	}
	return out, nil
}

// Aggregate groups rows by calendar date and computes stats for each day,
// rounded to two decimals. Days are returned in ascending order.
func Aggregate(rows []Row, stats []Statistic) []DailySummary {
	groups := make(map[string][]float64)
	dates := make(map[string]time.Time)
	var keys []string
	for _, r := range rows {
		k := r.Date()
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
			y, m, d := r.Timestamp.Date()
			dates[k] = time.Date(y, m, d, 0, 0, 0, 0, r.Timestamp.Location())
		}
		groups[k] = append(groups[k], r.Value)
	}
	// YYYY-MM-DD keys sort lexically in date order.
	sort.Strings(keys)

	out := make([]DailySummary, 0, len(keys))
	for _, k := range keys {
		values := groups[k]
		s := DailySummary{
			Date:   dates[k],
			Count:  len(values),
			Values: make(map[Statistic]float64, len(stats)),
		}
		for _, st := range stats {
			s.Values[st] = round2(compute(st, values))
		}
		out = append(out, s)
	}
	return out
}

func compute(st Statistic, values []float64) float64 {
	switch st {
	case StatMean:
		return stat.Mean(values, nil)
	case StatMax:
		return floats.Max(values)
	case StatMin:
		return floats.Min(values)
	case StatStd:
		if len(values) < 2 {
			return 0
		}
		_, std := stat.PopMeanStdDev(values, nil)
		return std
	default:
		return math.NaN()
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
