package service

import (
	"context"
	"errors"
	"log/slog"

	accountdomain "hotel-booking-account/backend/internal/account/domain"
	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	"hotel-booking-account/backend/internal/role/catalog"
	roledomain "hotel-booking-account/backend/internal/role/domain"
	"hotel-booking-account/backend/internal/security"
)

// PrincipalBuilder turns accounts and validated claims into principals.
type PrincipalBuilder struct {
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewPrincipalBuilder returns a PrincipalBuilder resolving permissions through c.
// logger may be nil.
func NewPrincipalBuilder(c catalog.Catalog, logger *slog.Logger) *PrincipalBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrincipalBuilder{catalog: c, logger: logger}
}

// Build returns the principal for acc. A catalog failure is logged and yields
// a principal without permissions rather than an error.
func (b *PrincipalBuilder) Build(ctx context.Context, acc *accountdomain.Account) (*identitydomain.Principal, error) {
	if acc == nil {
		return nil, errors.New("account is required")
	}
	perms, err := b.catalog.ResolvePermissions(ctx, acc.Role)
	if err != nil {
		b.logger.WarnContext(ctx, "principal: resolve permissions failed",
			slog.String("subject_id", acc.ID),
			slog.String("role", acc.Role),
			slog.Any("error", err))
		perms = roledomain.NewPermissionSet()
	}
	if perms == nil {
		perms = roledomain.NewPermissionSet()
	}
	return &identitydomain.Principal{
		SubjectID:   acc.ID,
		Username:    acc.Username,
		Email:       acc.Email,
		Role:        acc.Role,
		Permissions: perms,
		Deleted:     !acc.Active(),
	}, nil
}

// FromClaims reconstructs the principal carried by a validated access token.
func FromClaims(claims *security.AccessClaims) *identitydomain.Principal {
	if claims == nil {
		return nil
	}
	return &identitydomain.Principal{
		SubjectID:   claims.Subject,
		Role:        claims.Role,
		Permissions: roledomain.NewPermissionSet(claims.Permissions...),
	}
}
