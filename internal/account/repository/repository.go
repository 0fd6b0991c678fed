package repository

import (
	"context"

	"hotel-booking-account/backend/internal/account/domain"
)

// Lookup is the read side used by authentication. Both methods return nil and no
// error when no active (non-deleted) account matches.
type Lookup interface {
	// FindActiveByIdentifier matches identifier against email (case-insensitive) or username.
	FindActiveByIdentifier(ctx context.Context, identifier string) (*domain.Account, error)
	FindActiveByID(ctx context.Context, id string) (*domain.Account, error)
}

// Repository defines persistence for accounts.
type Repository interface {
	Lookup
	Create(ctx context.Context, a *domain.Account) error
	// SoftDelete sets deleted_at on the account. Deleting twice is a no-op.
	SoftDelete(ctx context.Context, id string) error
}
