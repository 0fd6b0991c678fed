package domain

import (
	roledomain "hotel-booking-account/backend/internal/role/domain"
)

// Principal is the authenticated subject of a request: who it is, its role,
// and the permissions that role resolved to. It is never persisted.
type Principal struct {
	SubjectID   string
	Username    string
	Email       string
	Role        string
	Permissions roledomain.PermissionSet
	Deleted     bool // soft-delete state of the account when the principal was built
}

// HasPermission reports whether the principal holds p.
func (p *Principal) HasPermission(perm string) bool {
	return p != nil && p.Permissions.Has(perm)
}

// HasAnyPermission reports whether the principal holds at least one of perms.
func (p *Principal) HasAnyPermission(perms ...string) bool {
	return p != nil && p.Permissions.HasAny(perms...)
}

// HasRole reports whether the principal's role is one of roles. Comparison is case-insensitive.
func (p *Principal) HasRole(roles ...string) bool {
	if p == nil {
		return false
	}
	mine := roledomain.NormalizeRole(p.Role)
	for _, r := range roles {
		if roledomain.NormalizeRole(r) == mine {
			return true
		}
	}
	return false
}

func (p *Principal) IsAdmin() bool { return p.HasRole(roledomain.RoleAdmin) }
func (p *Principal) IsStaff() bool { return p.HasRole(roledomain.RoleStaff) }
func (p *Principal) IsUser() bool  { return p.HasRole(roledomain.RoleUser) }

// CanAccessBookingService reports whether the principal may call the booking service at any tier.
func (p *Principal) CanAccessBookingService() bool {
	return p.HasAnyPermission(
		roledomain.AdminBookingService,
		roledomain.StaffBookingService,
		roledomain.UserBookingService,
	)
}

// CanAccessPaymentService reports whether the principal may call the payment service at any tier.
func (p *Principal) CanAccessPaymentService() bool {
	return p.HasAnyPermission(
		roledomain.AdminPaymentService,
		roledomain.UserPaymentService,
	)
}
