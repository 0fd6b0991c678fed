// Package producer publishes audit events to Kafka for downstream consumers.
package producer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
)

// Event is the JSON document published for one audit entry.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEvent converts an audit entry to its published form.
func NewEvent(a *auditdomain.AuditLog) Event {
	return Event{
		ID:        a.ID,
		UserID:    a.UserID,
		Action:    a.Action,
		Resource:  a.Resource,
		IP:        a.IP,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}

// MessageWriter is the part of *kafka.Writer used by KafkaSink.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}
