package rbac

import (
	"context"

	identitydomain "hotel-booking-account/backend/internal/identity/domain"
)

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p *identitydomain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal set by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (*identitydomain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*identitydomain.Principal)
	return p, ok && p != nil
}
