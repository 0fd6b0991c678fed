package producer

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
)

const writeTimeout = 5 * time.Second

// KafkaSink implements the audit repository Sink by writing each entry as a
// JSON message. Messages are keyed by user id so one subject's events stay ordered.
type KafkaSink struct {
	writer MessageWriter
}

// NewKafkaSink creates a sink that writes to topic on brokers. Call Close when shutting down.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	if len(brokers) == 0 {
		return nil, errors.New("producer: at least one broker is required")
	}
	if topic == "" {
		return nil, errors.New("producer: topic is required")
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaSink{writer: writer}, nil
}

func newKafkaSinkWithWriter(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

// Create serializes a and writes it to the topic, waiting at most writeTimeout.
func (s *KafkaSink) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	if s == nil || s.writer == nil || a == nil {
		return nil
	}
	payload, err := json.Marshal(NewEvent(a))
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(a.UserID),
		Value: payload,
		Time:  a.CreatedAt,
		Headers: []kafka.Header{
			{Key: "action", Value: []byte(a.Action)},
		},
	})
}

// Close closes the Kafka writer. Safe to call on a nil sink.
func (s *KafkaSink) Close() error {
	if s == nil || s.writer == nil {
		return nil
	}
	return s.writer.Close()
}
