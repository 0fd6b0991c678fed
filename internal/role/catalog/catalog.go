// Package catalog maps role identifiers to permission sets.
package catalog

import (
	"context"

	"hotel-booking-account/backend/internal/role/domain"
)

// Catalog resolves the permissions granted to a role. An unknown role
// resolves to an empty set and a nil error; errors are reserved for
// infrastructure failures.
type Catalog interface {
	ResolvePermissions(ctx context.Context, role string) (domain.PermissionSet, error)
}

// Func adapts a function to the Catalog interface.
type Func func(ctx context.Context, role string) (domain.PermissionSet, error)

// ResolvePermissions calls f.
func (f Func) ResolvePermissions(ctx context.Context, role string) (domain.PermissionSet, error) {
	return f(ctx, role)
}
