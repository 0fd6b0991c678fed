// Package audit records security events such as logins and access denials.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hotel-booking-account/backend/internal/audit/domain"
	auditrepo "hotel-booking-account/backend/internal/audit/repository"
)

// Actions recorded outside the auth service.
const (
	ActionAccessDenied = "access_denied"
)

// IPExtractor returns the client IP of the request in ctx.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event with explicit action/resource.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger on top of a Sink.
type Logger struct {
	sink        auditrepo.Sink
	ipExtractor IPExtractor
	logger      *slog.Logger
	nowF        func() time.Time
}

// NewLogger returns an AuditLogger that writes to sink. ipExtractor may be
// nil; then the IP stored with WithClientIP is used, or "unknown".
func NewLogger(sink auditrepo.Sink, ipExtractor IPExtractor, logger *slog.Logger) *Logger {
	if ipExtractor == nil {
		ipExtractor = ClientIP
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{sink: sink, ipExtractor: ipExtractor, logger: logger, nowF: time.Now}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l == nil || l.sink == nil {
		return
	}
	ip := l.ipExtractor(ctx)
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: l.nowF().UTC(),
	}
	if err := l.sink.Create(ctx, entry); err != nil {
		l.logger.WarnContext(ctx, "audit: failed to log event",
			slog.String("action", action),
			slog.String("resource", resource),
			slog.Any("error", err))
	}
}

type clientIPKey struct{}

// WithClientIP returns a context carrying the caller's IP for audit entries.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the IP stored by WithClientIP, or "unknown".
func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(clientIPKey{}).(string); ok && ip != "" {
		return ip
	}
	return "unknown"
}
