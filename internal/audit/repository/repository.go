package repository

import (
	"context"

	"hotel-booking-account/backend/internal/audit/domain"
)

// Sink receives audit log entries.
type Sink interface {
	Create(ctx context.Context, a *domain.AuditLog) error
}

// Repository defines persistence for audit logs.
type Repository interface {
	Sink
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	// ListByUser returns the newest entries of userID first.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
