package telemetry

import (
	"context"
	"errors"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
	auditrepo "hotel-booking-account/backend/internal/audit/repository"
)

// Fanout writes every entry to each sink in order. A failing sink does not
// stop the others; the errors are joined.
type Fanout []auditrepo.Sink

// NewFanout drops nil sinks from sinks.
func NewFanout(sinks ...auditrepo.Sink) Fanout {
	out := make(Fanout, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// Create implements the audit repository Sink.
func (f Fanout) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	var errs []error
	for _, s := range f {
		if err := s.Create(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
