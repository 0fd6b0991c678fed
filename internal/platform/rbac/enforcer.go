// Package rbac enforces permission and role requirements on guarded operations.
package rbac

import (
	"context"

	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// Requirement is the precondition of a guarded operation. A non-empty
// Permissions list is satisfied by holding any one of them; a non-empty Roles
// list by having one of the roles. When both are set both must hold. The zero
// Requirement only requires an authenticated principal.
type Requirement struct {
	Permissions []string
	Roles       []string
}

// AnyPermission requires at least one of perms.
func AnyPermission(perms ...string) Requirement {
	return Requirement{Permissions: perms}
}

// AnyRole requires one of roles.
func AnyRole(roles ...string) Requirement {
	return Requirement{Roles: roles}
}

// Authenticated requires only a principal.
func Authenticated() Requirement {
	return Requirement{}
}

// Enforce returns nil when p satisfies req and an access denial otherwise.
func Enforce(p *identitydomain.Principal, req Requirement) error {
	if p == nil {
		return apperrors.NotAuthenticated()
	}
	if len(req.Roles) > 0 && !p.HasRole(req.Roles...) {
		return apperrors.MissingRole(req.Roles, p.Role)
	}
	if len(req.Permissions) > 0 && !p.HasAnyPermission(req.Permissions...) {
		return apperrors.MissingPermissions(req.Permissions)
	}
	return nil
}

// Require enforces req against the principal stored in ctx and returns it.
func Require(ctx context.Context, req Requirement) (*identitydomain.Principal, error) {
	p, _ := PrincipalFromContext(ctx)
	if err := Enforce(p, req); err != nil {
		return nil, err
	}
	return p, nil
}

// Guard wraps op so that req is enforced before op runs. A denied call never
// reaches op.
func Guard[Req, Resp any](req Requirement, op func(context.Context, Req) (Resp, error)) func(context.Context, Req) (Resp, error) {
	return func(ctx context.Context, in Req) (Resp, error) {
		if _, err := Require(ctx, req); err != nil {
			var zero Resp
			return zero, err
		}
		return op(ctx, in)
	}
}
