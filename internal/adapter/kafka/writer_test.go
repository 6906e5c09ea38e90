package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wrf-swdown-etl/internal/config"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

func TestSerializeHourly_Area(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	row := domain.Row{
		Timestamp: time.Date(2022, 5, 1, 13, 0, 0, 0, time.UTC),
		Value:     812.5,
		Selection: domain.Selection{Mode: domain.ModeArea, Box: domain.BoundingBox{LatMin: 19.3, LatMax: 19.75, LonMin: -99.26, LonMax: -98.88}},
	}

	msg, err := serializeHourly("came", row, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("came/2022-05-01 13:00:00"), msg.Key)
	assert.JSONEq(t, `{
		"series": "came",
		"timestamp": "2022-05-01 13:00:00",
		"swdown": 812.5,
		"mode": "area",
		"box": {"lat_min": 19.3, "lat_max": 19.75, "lon_min": -99.26, "lon_max": -98.88}
	}`, string(msg.Value))

	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "record_type", msg.Headers[0].Key)
	assert.Equal(t, []byte(RecordHourly), msg.Headers[0].Value)
	assert.Equal(t, "series", msg.Headers[1].Key)
	assert.Equal(t, "processed_at", msg.Headers[2].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[2].Value)
}

func TestSerializeHourly_Point(t *testing.T) {
	row := domain.Row{
		Timestamp: time.Date(2022, 5, 1, 13, 0, 0, 0, time.UTC),
		Value:     1,
		Selection: domain.Selection{
			Mode:  domain.ModePoint,
			Point: domain.Point{Lat: 19.43, Lon: -99.13},
			Cell:  domain.Cell{SouthNorth: 2, WestEast: 5, Lat: 19.41, Lon: -99.12},
		},
	}
	msg, err := serializeHourly("station", row, time.Now())
	require.NoError(t, err)

	var got HourlyMessage
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Nil(t, got.Box)
	require.NotNil(t, got.Cell)
	assert.Equal(t, 5, got.Cell.WestEast)
	assert.Equal(t, domain.Point{Lat: 19.43, Lon: -99.13}, *got.Point)
}

func TestSerializeDaily(t *testing.T) {
	now := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	d := domain.DailySummary{
		Date:   time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC),
		Count:  24,
		Values: map[domain.Statistic]float64{domain.StatMax: 500, domain.StatStd: 0},
	}
	msg, err := serializeDaily("came", d, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("came/2022-05-02"), msg.Key)
	assert.JSONEq(t, `{"series":"came","date":"2022-05-02","count":24,"stats":{"max":500,"std":0}}`, string(msg.Value))
	assert.Equal(t, []byte(RecordDaily), msg.Headers[0].Value)
	assert.Equal(t, []byte("came"), msg.Headers[1].Value)
}

func TestNewWriter(t *testing.T) {
	w := NewWriter(&config.Config{
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "wrf-swdown",
		OutputPrefix: "came",
	}, nil)
	t.Cleanup(func() { _ = w.Close() })

	assert.Equal(t, "kafka", w.Name())
	assert.Equal(t, "wrf-swdown", w.writer.Topic)
	assert.Equal(t, "came", w.series)
	// Nothing to publish never touches the broker.
	require.NoError(t, w.Load(t.Context(), nil, nil))
}
