package telemetry

import (
	"context"
	"errors"
	"testing"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
)

func TestFanout_WritesEverySink(t *testing.T) {
	failing := &mockSink{err: errors.New("unavailable")}
	ok := &mockSink{}
	f := NewFanout(failing, nil, ok)
	if len(f) != 2 {
		t.Fatalf("nil sink should be dropped, len = %d", len(f))
	}

	err := f.Create(context.Background(), &auditdomain.AuditLog{ID: "id-1"})
	if err == nil || err.Error() != "unavailable" {
		t.Fatalf("err = %v, want the failing sink's error", err)
	}
	if len(ok.getEntries()) != 1 || len(failing.getEntries()) != 1 {
		t.Error("every sink should receive the entry")
	}
}

func TestFanout_Empty(t *testing.T) {
	if err := NewFanout().Create(context.Background(), &auditdomain.AuditLog{}); err != nil {
		t.Errorf("empty fanout: %v", err)
	}
}
