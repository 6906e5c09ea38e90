//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/kafka"
	"github.com/couchcryptid/wrf-swdown-etl/internal/adapter/wrf"
	"github.com/couchcryptid/wrf-swdown-etl/internal/config"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
	"github.com/couchcryptid/wrf-swdown-etl/internal/observability"
	"github.com/couchcryptid/wrf-swdown-etl/internal/pipeline"
)

const testTopic = "test-swdown"

// publishedMessage holds a message read back from the topic.
type publishedMessage struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

func readAll(ctx context.Context, t *testing.T, consumer *kafkago.Reader, n int) []publishedMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out := make([]publishedMessage, 0, n)
	for len(out) < n {
		msg, err := consumer.ReadMessage(readCtx)
		require.NoError(t, err, "read from topic")
		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		out = append(out, publishedMessage{Key: string(msg.Key), Value: msg.Value, Headers: headers})
	}
	return out
}

func writeFixtures(t *testing.T, dir string) {
	t.Helper()
	for d, v := range []float64{400, 600} {
		values := make([][][]float64, 24)
		for h := range values {
			values[h] = [][]float64{{v, v}, {v, v}}
		}
		f := domain.Field{
			Lat:    [][]float64{{19.4, 19.4}, {19.6, 19.6}},
			Lon:    [][]float64{{-99.2, -99.0}, {-99.2, -99.0}},
			Values: values,
		}
		name := fmt.Sprintf("wrfout_d02_2022-05-%02d_00.nc", d+1)
		require.NoError(t, wrf.WriteField(filepath.Join(dir, name), f))
	}
}

// TestPipelineToKafka runs the full extraction over NetCDF fixtures and reads
// the published hourly and daily records back from the broker.
func TestPipelineToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	dir := t.TempDir()
	writeFixtures(t, dir)
	files, err := wrf.Discover(dir, "d02")
	require.NoError(t, err)
	require.Len(t, files, 2)

	cfg := &config.Config{
		KafkaBrokers: []string{broker},
		KafkaTopic:   testTopic,
		OutputPrefix: "came",
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	p := pipeline.New(wrf.NewReader(wrf.VarSWDOWN, discardLogger()), []pipeline.Loader{writer}, pipeline.Options{
		Selection: domain.Selection{
			Mode: domain.ModeArea,
			Box:  domain.BoundingBox{LatMin: 19.3, LatMax: 19.75, LonMin: -99.26, LonMax: -98.88},
		},
		Stats:   domain.AllStatistics,
		Workers: 2,
	}, discardLogger(), observability.NewMetricsForTesting())

	res, err := p.Run(ctx, files)
	require.NoError(t, err)
	require.Len(t, res.Hourly, 48)
	require.Len(t, res.Daily, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   []string{broker},
		Topic:     testTopic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	msgs := readAll(ctx, t, consumer, 50)

	var hourly []kafka.HourlyMessage
	var daily []kafka.DailyMessage
	for _, m := range msgs {
		assert.Equal(t, "came", m.Headers["series"])
		switch m.Headers["record_type"] {
		case kafka.RecordHourly:
			var h kafka.HourlyMessage
			require.NoError(t, json.Unmarshal(m.Value, &h))
			hourly = append(hourly, h)
		case kafka.RecordDaily:
			var d kafka.DailyMessage
			require.NoError(t, json.Unmarshal(m.Value, &d))
			assert.Equal(t, "came/"+d.Date, m.Key)
			daily = append(daily, d)
		default:
			t.Fatalf("unexpected record_type %q", m.Headers["record_type"])
		}
	}

	require.Len(t, hourly, 48)
	require.Len(t, daily, 2)
	assert.Equal(t, domain.ModeArea, hourly[0].Mode)
	assert.InDelta(t, 400, hourly[0].SWDOWN, 1e-3)

	assert.Equal(t, "2022-05-01", daily[0].Date)
	assert.Equal(t, 24, daily[0].Count)
	assert.InDelta(t, 400, daily[0].Stats[domain.StatMean], 1e-3)
	assert.InDelta(t, 600, daily[1].Stats[domain.StatMax], 1e-3)
	assert.InDelta(t, 0, daily[1].Stats[domain.StatStd], 1e-3)
}
