package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(start time.Time, values ...float64) Part {
	return Part{
		Times:     HourlyAxis(start, len(values), 0),
		Values:    values,
		Selection: Selection{Mode: ModeDomain},
	}
}

func TestAssemble_NonOverlappingIsStrictlyAscending(t *testing.T) {
	day1 := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	// Supplied out of order on purpose.
	rows := Assemble([]Part{hourly(day2, 3, 4), hourly(day1, 1, 2)})

	require.Len(t, rows, 4)
	for i := 1; i < len(rows); i++ {
		assert.True(t, rows[i].Timestamp.After(rows[i-1].Timestamp))
	}
	assert.Equal(t, []float64{1, 2, 3, 4}, values(rows))
}

func TestAssemble_OverlapKeepsAllRowsInInsertionOrder(t *testing.T) {
	start := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	a := hourly(start, 1, 2, 3)
	b := hourly(start.Add(time.Hour), 20, 30)

	rows := Assemble([]Part{a, b})

	require.Len(t, rows, 5)
	// 00:00 a, 01:00 a then b, 02:00 a then b.
	assert.Equal(t, []float64{1, 2, 20, 3, 30}, values(rows))
}

func TestAssemble_EmptyIsNotNil(t *testing.T) {
	rows := Assemble(nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows = Assemble([]Part{{}})
	assert.Empty(t, rows)
}

func TestRow_CalendarFields(t *testing.T) {
	r := Row{Timestamp: time.Date(2022, 5, 7, 13, 0, 0, 0, time.UTC)}
	assert.Equal(t, "2022-05-07", r.Date())
	assert.Equal(t, 13, r.Hour())
	assert.Equal(t, 7, r.Day())
	assert.Equal(t, 5, r.Month())
}

func TestFilterMonth(t *testing.T) {
	// 30 April 22:00 through 1 May 01:00.
	rows := Assemble([]Part{hourly(time.Date(2022, 4, 30, 22, 0, 0, 0, time.UTC), 1, 2, 3, 4)})

	may := FilterMonth(rows, 5)
	assert.Equal(t, []float64{3, 4}, values(may))

	assert.Len(t, FilterMonth(rows, 0), 4)
	assert.Empty(t, FilterMonth(rows, 6))
}

func TestFilterMonth_Idempotent(t *testing.T) {
	rows := Assemble([]Part{hourly(time.Date(2022, 4, 30, 12, 0, 0, 0, time.UTC), make([]float64, 48)...)})

	once := FilterMonth(rows, 5)
	twice := FilterMonth(once, 5)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second filter changed rows (-once +twice):\n%s", diff)
	}
}

func values(rows []Row) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Value
	}
	return out
}
