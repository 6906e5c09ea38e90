package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/wrf-swdown-etl/internal/config"
	"github.com/couchcryptid/wrf-swdown-etl/internal/domain"
)

// Record types carried in the record_type header.
const (
	RecordHourly = "hourly"
	RecordDaily  = "daily"
)

// HourlyMessage is the JSON value of an hourly record.
type HourlyMessage struct {
	Series    string              `json:"series"`
	Timestamp string              `json:"timestamp"`
	SWDOWN    float64             `json:"swdown"`
	Mode      domain.Mode         `json:"mode"`
	Box       *domain.BoundingBox `json:"box,omitempty"`
	Point     *domain.Point       `json:"point,omitempty"`
	Cell      *domain.Cell        `json:"cell,omitempty"`
}

// DailyMessage is the JSON value of a daily record.
type DailyMessage struct {
	Series string                       `json:"series"`
	Date   string                       `json:"date"`
	Count  int                          `json:"count"`
	Stats  map[domain.Statistic]float64 `json:"stats"`
}

// Writer publishes a run's results to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	series string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic. The output
// prefix names the series.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, series: cfg.OutputPrefix, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load serializes every hourly row and daily summary and publishes them in a
// single WriteMessages call. Hourly records precede daily ones.
func (w *Writer) Load(ctx context.Context, hourly []domain.Row, daily []domain.DailySummary) error {
	if len(hourly) == 0 && len(daily) == 0 {
		return nil
	}
	processedAt := domain.Now()
	msgs := make([]kafkago.Message, 0, len(hourly)+len(daily))
	for _, r := range hourly {
		msg, err := serializeHourly(w.series, r, processedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	for _, d := range daily {
		msg, err := serializeDaily(w.series, d, processedAt)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records: %w", len(msgs), err)
	}
	w.logger.Info("kafka published", "topic", w.writer.Topic, "series", w.series,
		"hourly_rows", len(hourly), "daily_rows", len(daily))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeHourly marshals a Row into a Kafka message keyed by series and timestamp.
func serializeHourly(series string, r domain.Row, processedAt time.Time) (kafkago.Message, error) {
	ts := r.Timestamp.Format(domain.TimestampLayout)
	m := HourlyMessage{Series: series, Timestamp: ts, SWDOWN: r.Value, Mode: r.Selection.Mode}
	switch r.Selection.Mode {
	case domain.ModeArea:
		box := r.Selection.Box
		m.Box = &box
	case domain.ModePoint:
		p, c := r.Selection.Point, r.Selection.Cell
		m.Point, m.Cell = &p, &c
	}
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize hourly row: %w", err)
	}
	return message(series+"/"+ts, data, RecordHourly, series, processedAt), nil
}

// serializeDaily marshals a DailySummary into a Kafka message keyed by series and date.
func serializeDaily(series string, d domain.DailySummary, processedAt time.Time) (kafkago.Message, error) {
	date := d.Date.Format(domain.DateLayout)
	data, err := json.Marshal(DailyMessage{Series: series, Date: date, Count: d.Count, Stats: d.Values})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily summary: %w", err)
	}
	return message(series+"/"+date, data, RecordDaily, series, processedAt), nil
}

func message(key string, value []byte, recordType, series string, processedAt time.Time) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafkago.Header{
			{Key: "record_type", Value: []byte(recordType)},
			{Key: "series", Value: []byte(series)},
			{Key: "processed_at", Value: []byte(processedAt.Format(time.RFC3339))},
		},
	}
}
