// Package kafka publishes normalized schedule records to a broker topic so
// downstream receiver fleets can pick up label updates without polling files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/kiwidx/eibi-schedule-etl/internal/config"
	"github.com/kiwidx/eibi-schedule-etl/internal/domain"
)

// Writer produces schedule records to a Kafka topic.
// It implements pipeline.RecordEmitter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// EmitRecords serializes and publishes all records in a single WriteMessages
// call for efficiency.
func (w *Writer) EmitRecords(ctx context.Context, window domain.SeasonWindow, records []domain.NormalizedRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(window, records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message. The key groups
// all windows of one station on one frequency into the same partition.
func serializeToMessage(window domain.SeasonWindow, rec domain.NormalizedRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", rec.Station, err)
	}
	return kafkago.Message{
		Key:   fmt.Appendf(nil, "%g:%s", rec.Freq, rec.Station),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "season", Value: []byte(window.Label())},
			{Key: "record_type", Value: []byte(rec.Type)},
		},
	}, nil
}
