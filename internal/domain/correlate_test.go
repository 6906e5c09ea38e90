package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samples(start time.Time, values ...float64) []Sample {
	out := make([]Sample, len(values))
	for i, v := range values {
		out[i] = Sample{Timestamp: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return out
}

func TestInnerJoin_Intersection(t *testing.T) {
	start := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	x := samples(start, 1, 2, 3, 4)
	y := samples(start.Add(2*time.Hour), 30, 40, 50)

	joined := InnerJoin(x, y)

	require.Len(t, joined, 2)
	assert.Equal(t, JoinedRow{Timestamp: start.Add(2 * time.Hour), X: 3, Y: 30}, joined[0])
	assert.Equal(t, JoinedRow{Timestamp: start.Add(3 * time.Hour), X: 4, Y: 40}, joined[1])
}

func TestInnerJoin_NoSharedTimestamps(t *testing.T) {
	start := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	x := samples(start, 1, 2)
	y := samples(start.Add(30*time.Minute), 1, 2)

	assert.Empty(t, InnerJoin(x, y))
}

func TestRegress_ExactLinearRelation(t *testing.T) {
	start := time.Date(2022, 5, 1, 10, 0, 0, 0, time.UTC)
	swdown := []float64{120, 340, 515, 780, 905}
	o3 := make([]float64, len(swdown))
	for i, v := range swdown {
		o3[i] = 2.0*v + 1.0
	}

	reg, err := Regress(InnerJoin(samples(start, swdown...), samples(start, o3...)))

	require.NoError(t, err)
	assert.Equal(t, 5, reg.N)
	assert.InDelta(t, 2.0, reg.Slope, 1e-9)
	assert.InDelta(t, 1.0, reg.Intercept, 1e-6)
	assert.InDelta(t, 1.0, reg.RSquared, 1e-9)
	assert.InDelta(t, 1.0, reg.R, 1e-9)
	assert.InDelta(t, 0.0, reg.PValue, 1e-9)
}

func TestRegress_NoisyRelation(t *testing.T) {
	rows := []JoinedRow{
		{X: 1, Y: 2.1}, {X: 2, Y: 3.9}, {X: 3, Y: 6.2}, {X: 4, Y: 7.8}, {X: 5, Y: 10.1},
	}

	reg, err := Regress(rows)

	require.NoError(t, err)
	assert.InDelta(t, 1.99, reg.Slope, 1e-9)
	assert.InDelta(t, 0.05, reg.Intercept, 1e-9)
	assert.Greater(t, reg.RSquared, 0.99)
	assert.Less(t, reg.PValue, 0.001)
	assert.Greater(t, reg.StdErr, 0.0)
}

func TestRegress_Errors(t *testing.T) {
	_, err := Regress([]JoinedRow{{X: 1, Y: 1}, {X: 2, Y: 2}})
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = Regress([]JoinedRow{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}})
	require.ErrorIs(t, err, ErrZeroVariance)
}

func TestRegress_ConstantY(t *testing.T) {
	reg, err := Regress([]JoinedRow{{X: 100, Y: 7}, {X: 450, Y: 7}, {X: 900, Y: 7}, {X: 300, Y: 7}})
	require.NoError(t, err)
	assert.Equal(t, 4, reg.N)
	assert.InDelta(t, 0, reg.Slope, 0)
	assert.InDelta(t, 7, reg.Intercept, 0)
	assert.InDelta(t, 0, reg.R, 0)
	assert.InDelta(t, 0, reg.RSquared, 0)
	assert.InDelta(t, 1, reg.PValue, 0)
	assert.InDelta(t, 0, reg.StdErr, 0)
}

func TestDescribeValues(t *testing.T) {
	d := DescribeValues([]float64{2, 4, 6})
	assert.Equal(t, 3, d.Count)
	assert.InDelta(t, 4.0, d.Mean, 1e-12)
	assert.InDelta(t, 2.0, d.Std, 1e-12)
	assert.InDelta(t, 2.0, d.Min, 1e-12)
	assert.InDelta(t, 6.0, d.Max, 1e-12)

	assert.Zero(t, DescribeValues([]float64{5}).Std)
	assert.Equal(t, Describe{}, DescribeValues(nil))
}
