// Package telemetry composes audit sinks: fan-out to several backends and
// asynchronous delivery off the request path.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	auditdomain "hotel-booking-account/backend/internal/audit/domain"
	auditrepo "hotel-booking-account/backend/internal/audit/repository"
)

// emitTimeout is the max time allowed for a single async write. Used by AsyncSink and by ShutdownDrainDuration.
const emitTimeout = 5 * time.Second

// ShutdownDrainDuration is how long Close waits for in-flight writes. Must be >= emitTimeout.
const ShutdownDrainDuration = emitTimeout

// AsyncSink runs Create of the wrapped sink in a goroutine with a short
// timeout so the caller is not blocked. Errors are logged.
type AsyncSink struct {
	sink   auditrepo.Sink
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewAsyncSink wraps sink. logger may be nil.
func NewAsyncSink(sink auditrepo.Sink, logger *slog.Logger) *AsyncSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &AsyncSink{sink: sink, logger: logger}
}

// Create schedules the write and returns nil. The write does not inherit the
// caller's cancellation, so an entry is still delivered after the request ends.
func (s *AsyncSink) Create(ctx context.Context, a *auditdomain.AuditLog) error {
	if s.sink == nil || a == nil {
		return nil
	}
	entry := *a
	base := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		emitCtx, cancel := context.WithTimeout(base, emitTimeout)
		defer cancel()
		if err := s.sink.Create(emitCtx, &entry); err != nil {
			s.logger.Warn("audit: async write failed",
				slog.String("action", entry.Action),
				slog.Any("error", err))
		}
	}()
	return nil
}

// Close waits until in-flight writes finish or ctx is done.
func (s *AsyncSink) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
