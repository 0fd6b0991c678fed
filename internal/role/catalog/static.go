package catalog

import (
	"context"

	"hotel-booking-account/backend/internal/role/domain"
)

var userPermissions = domain.NewPermissionSet(
	domain.ViewOwnAccount,
	domain.UpdateOwnAccount,
	domain.ViewOwnBookings,
	domain.CreateOwnBooking,
	domain.UpdateOwnBooking,
	domain.CancelOwnBooking,
	domain.ViewOwnPayments,
	domain.MakePayment,
	domain.UserBookingService,
	domain.UserPaymentService,
)

var staffPermissions = domain.NewPermissionSet(
	domain.ViewCustomerAccounts,
	domain.UpdateCustomerAccount,
	domain.ViewBookings,
	domain.CreateBooking,
	domain.UpdateBooking,
	domain.CancelBooking,
	domain.ViewPayments,
	domain.ProcessPayment,
	domain.StaffBookingService,
)

var adminOnlyPermissions = domain.NewPermissionSet(
	domain.ManageAccounts,
	domain.ViewAllAccounts,
	domain.CreateAccount,
	domain.UpdateAccount,
	domain.DeleteAccount,
	domain.ManageRoles,
	domain.ViewRoles,
	domain.CreateRole,
	domain.UpdateRole,
	domain.DeleteRole,
	domain.SystemConfig,
	domain.ViewLogs,
	domain.ManageSystem,
	domain.ViewAllBookings,
	domain.ManageBookings,
	domain.CancelAnyBooking,
	domain.ViewAllPayments,
	domain.ManagePayments,
	domain.ProcessRefunds,
	domain.AdminBookingService,
	domain.AdminPaymentService,
)

// ADMIN inherits everything STAFF and USER hold.
var defaultTable = map[string]domain.PermissionSet{
	domain.RoleUser:  userPermissions,
	domain.RoleStaff: staffPermissions,
	domain.RoleAdmin: adminOnlyPermissions.Union(staffPermissions, userPermissions),
}

// Static is an immutable in-process catalog. Role lookup is case-insensitive.
type Static struct {
	table map[string]domain.PermissionSet
}

// NewStatic returns the catalog for the fixed ADMIN, STAFF and USER roles.
func NewStatic() *Static {
	return &Static{table: defaultTable}
}

// ResolvePermissions returns a copy of the role's permission set, or an empty
// set for an unknown role.
func (s *Static) ResolvePermissions(_ context.Context, role string) (domain.PermissionSet, error) {
	return s.Permissions(role), nil
}

// Permissions is ResolvePermissions without the context.
func (s *Static) Permissions(role string) domain.PermissionSet {
	perms, ok := s.table[domain.NormalizeRole(role)]
	if !ok {
		return domain.PermissionSet{}
	}
	return perms.Union()
}

// Roles returns the fixed role identifiers.
func (s *Static) Roles() []string {
	return []string{domain.RoleAdmin, domain.RoleStaff, domain.RoleUser}
}

// AllPermissions returns every permission named by the table, sorted.
func (s *Static) AllPermissions() []string {
	all := domain.PermissionSet{}
	for _, perms := range s.table {
		all = all.Union(perms)
	}
	return all.Slice()
}
