package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quakemap/internal/domain"
	"github.com/couchcryptid/quakemap/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes styled markers to a Kafka topic.
// It implements pipeline.MarkerSink.
type Writer struct {
	writer  messageWriter
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewWriter creates a Kafka producer for the marker topic.
func NewWriter(brokers []string, topic string, metrics *observability.Metrics, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, metrics: metrics, logger: logger}
}

// Publish serializes the markers and writes them in a single WriteMessages
// call. Messages are keyed by event ID so updates to one event stay on one
// partition. A marker that cannot be serialized is logged and left out.
func (w *Writer) Publish(ctx context.Context, markers []domain.Marker) error {
	msgs := make([]kafkago.Message, 0, len(markers))
	for i := range markers {
		msg, err := serializeToMessage(markers[i])
		if err != nil {
			w.metrics.SinkErrors.Inc()
			w.logger.Warn("marker not published", "event_id", markers[i].ID, "error", err)
			continue
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		w.metrics.SinkErrors.Inc()
		return fmt.Errorf("write markers: %w", err)
	}
	w.metrics.SinkMessages.Add(float64(len(msgs)))
	w.logger.Debug("markers published", "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Marker into a Kafka message.
func serializeToMessage(m domain.Marker) (kafkago.Message, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize marker %q: %w", m.ID, err)
	}
	headers := []kafkago.Header{
		{Key: "band", Value: []byte(m.Band.String())},
	}
	if m.Time != nil {
		headers = append(headers, kafkago.Header{Key: "event_time", Value: []byte(m.Time.UTC().Format(time.RFC3339))})
	}
	return kafkago.Message{
		Key:     []byte(m.ID),
		Value:   data,
		Headers: headers,
	}, nil
}
