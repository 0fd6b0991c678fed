package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel-booking-account/backend/internal/platform/rbac"
	roledomain "hotel-booking-account/backend/internal/role/domain"
)

// demoRoute is a guarded endpoint that only reports whether access was granted.
type demoRoute struct {
	path        string
	requirement rbac.Requirement
	granted     string
}

var demoRoutes = []demoRoute{
	{"/admin-only", rbac.AnyRole(roledomain.RoleAdmin), "Admin access granted"},
	{"/staff-and-admin", rbac.AnyRole(roledomain.RoleStaff, roledomain.RoleAdmin), "Staff/Admin access granted"},
	{"/all-authenticated", rbac.AnyRole(roledomain.RoleUser, roledomain.RoleStaff, roledomain.RoleAdmin), "Authenticated user access granted"},
	{"/manage-accounts", rbac.AnyPermission(roledomain.ManageAccounts, roledomain.ViewCustomerAccounts), "Account management permission granted"},
	{"/view-own-data", rbac.AnyPermission(roledomain.ViewOwnAccount, roledomain.ViewCustomerAccounts, roledomain.ViewAllAccounts), "View data permission granted"},
	{"/admin-users", rbac.AnyPermission(roledomain.ManageAccounts, roledomain.ViewAllAccounts), "Admin can view and filter users"},
	{"/test-auth", rbac.Authenticated(), "JWT Authentication is working!"},
}

// mountDemo registers the demo endpoints on r. Every route requires
// authentication; guard wraps each handler with its requirement.
func mountDemo(r chi.Router, guard func(rbac.Requirement) func(http.Handler) http.Handler) {
	for _, d := range demoRoutes {
		granted := d.granted
		r.With(guard(d.requirement)).Get(d.path, func(w http.ResponseWriter, _ *http.Request) {
			writeSuccess(w, http.StatusOK, successMessage, granted)
		})
	}
}
