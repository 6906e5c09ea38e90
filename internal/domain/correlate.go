package domain

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sample is one timestamped value of an externally prepared series.
type Sample struct {
	Timestamp time.Time
	Value     float64
}

// JoinedRow pairs the values of two series at the same timestamp.
type JoinedRow struct {
	Timestamp time.Time
	X         float64
	Y         float64
}

// InnerJoin matches x and y on exact timestamp equality. Rows follow x's order;
// a timestamp repeated in y yields one joined row per match.
func InnerJoin(x, y []Sample) []JoinedRow {
	byTime := make(map[int64][]float64, len(y))
	for _, s := range y {
		k := s.Timestamp.UnixNano()
		byTime[k] = append(byTime[k], s.Value)
	}
	out := make([]JoinedRow, 0, len(x))
	for _, s := range x {
		for _, v := range byTime[s.Timestamp.UnixNano()] {
			out = append(out, JoinedRow{Timestamp: s.Timestamp, X: s.Value, Y: v})
		}
	}
	return out
}

// Regression is an ordinary least-squares fit y = Intercept + Slope*x.
type Regression struct {
	N         int
	Slope     float64
	Intercept float64
	R         float64
	RSquared  float64
	// PValue is two-tailed for the null hypothesis Slope == 0.
	PValue float64
	// StdErr is the standard error of Slope.
	StdErr float64
}

// Regress fits y against x over the joined rows.
func Regress(rows []JoinedRow) (Regression, error) {
	n := len(rows)
	if n < 3 {
		return Regression{}, fmt.Errorf("%w: got %d", ErrInsufficientData, n)
	}
	x := make([]float64, n)
	y := make([]float64, n)
	for i, r := range rows {
		x[i], y[i] = r.X, r.Y
	}
	varX := stat.Variance(x, nil)
	if varX == 0 {
		return Regression{}, ErrZeroVariance
	}
	varY := stat.Variance(y, nil)
	if varY == 0 {
		// A flat y is a valid fit with no linear association.
		return Regression{N: n, Intercept: y[0], PValue: 1}, nil
	}

	intercept, slope := stat.LinearRegression(x, y, nil, false)
	r := stat.Correlation(x, y, nil)
	r = math.Max(-1, math.Min(1, r))
	reg := Regression{
		N:         n,
		Slope:     slope,
		Intercept: intercept,
		R:         r,
		RSquared:  stat.RSquared(x, y, nil, intercept, slope),
	}

	df := float64(n - 2)
	oneMinusR2 := (1 - r) * (1 + r)
	if oneMinusR2 <= 1e-15 {
		// Exact fit: t is infinite.
		reg.PValue = 0
		reg.StdErr = 0
		return reg, nil
	}
	t := r * math.Sqrt(df/oneMinusR2)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	reg.PValue = 2 * dist.Survival(math.Abs(t))
	reg.StdErr = math.Sqrt(oneMinusR2 * varY / varX / df)
	return reg, nil
}

// Describe summarizes a column: count, mean, sample std, min, max.
type Describe struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// DescribeValues computes a Describe. Std uses n-1 and is 0 for a single value.
func DescribeValues(values []float64) Describe {
	if len(values) == 0 {
		return Describe{}
	}
	d := Describe{
		Count: len(values),
		Mean:  stat.Mean(values, nil),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
	}
	if len(values) > 1 {
		d.Std = stat.StdDev(values, nil)
	}
	return d
}
