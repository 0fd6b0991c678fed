package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
)

const auditScope = "hotelbooking.account.audit"

// recordEmitter is the part of otellog.Logger used by AuditSink.
type recordEmitter interface {
	Emit(ctx context.Context, record otellog.Record)
}

// AuditSink writes audit entries as OTel log records. It implements the
// audit repository Sink used when no database is configured.
type AuditSink struct {
	logger recordEmitter
}

// NewAuditSink returns an AuditSink emitting through provider.
func NewAuditSink(provider *sdklog.LoggerProvider) *AuditSink {
	return &AuditSink{logger: provider.Logger(auditScope)}
}

func newAuditSinkWithEmitter(e recordEmitter) *AuditSink {
	return &AuditSink{logger: e}
}

// Create emits a as one log record with the event fields as attributes.
func (s *AuditSink) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	if a == nil {
		return nil
	}
	rec := otellog.Record{}
	ts := a.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	rec.SetTimestamp(ts)
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetEventName(a.Action)
	rec.SetBody(otellog.StringValue(a.Action + " " + a.Resource))
	rec.AddAttributes(
		otellog.String("audit.id", a.ID),
		otellog.String("audit.action", a.Action),
		otellog.String("audit.resource", a.Resource),
		otellog.String("client.ip", a.IP),
	)
	if a.UserID != "" {
		rec.AddAttributes(otellog.String("user.id", a.UserID))
	}
	if a.Metadata != "" {
		rec.AddAttributes(otellog.String("audit.metadata", a.Metadata))
	}
	s.logger.Emit(ctx, rec)
	return nil
}
