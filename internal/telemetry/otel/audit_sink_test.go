package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
)

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec   otellog.Record
	count int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.count++
}

func attributes(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestAuditSink_Create(t *testing.T) {
	capture := &recordCapture{}
	sink := newAuditSinkWithEmitter(capture)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err := sink.Create(context.Background(), &auditdomain.AuditLog{
		ID: "id-1", UserID: "u-1", Action: "login_success", Resource: "authentication",
		IP: "10.0.0.1", Metadata: "role=ADMIN", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rec := capture.rec
	if !rec.Timestamp().Equal(created) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), created)
	}
	if rec.EventName() != "login_success" {
		t.Errorf("event name = %q", rec.EventName())
	}
	want := map[string]string{
		"audit.id": "id-1", "audit.action": "login_success", "audit.resource": "authentication",
		"client.ip": "10.0.0.1", "user.id": "u-1", "audit.metadata": "role=ADMIN",
	}
	attrs := attributes(rec)
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestAuditSink_OptionalFields(t *testing.T) {
	capture := &recordCapture{}
	sink := newAuditSinkWithEmitter(capture)
	if err := sink.Create(context.Background(), &auditdomain.AuditLog{Action: "login_failure", Resource: "authentication"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	attrs := attributes(capture.rec)
	if _, ok := attrs["user.id"]; ok {
		t.Error("user.id should be omitted for anonymous events")
	}
	if _, ok := attrs["audit.metadata"]; ok {
		t.Error("audit.metadata should be omitted when empty")
	}
	if capture.rec.Timestamp().IsZero() {
		t.Error("zero CreatedAt should be replaced with the current time")
	}
}

func TestAuditSink_NilEntry(t *testing.T) {
	capture := &recordCapture{}
	if err := newAuditSinkWithEmitter(capture).Create(context.Background(), nil); err != nil {
		t.Fatalf("Create(nil): %v", err)
	}
	if capture.count != 0 {
		t.Fatal("nil entry should not emit")
	}
}

func TestNewAuditSink_Provider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	if err := NewAuditSink(provider).Create(context.Background(), &auditdomain.AuditLog{Action: "logout"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
}
