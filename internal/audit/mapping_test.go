package audit

import "testing"

func TestParseFullMethod(t *testing.T) {
	testCases := []struct {
		fullMethod       string
		action, resource string
	}{
		{"/hotelbooking.booking.v1.BookingService/GetBooking", "get", "booking"},
		{"/hotelbooking.booking.v1.BookingService/ListBookings", "list", "booking"},
		{"/hotelbooking.payment.v1.PaymentService/CreatePayment", "create", "payment"},
		{"/hotelbooking.account.v1.RoleService/SetRolePermissions", "update", "role"},
		{"/hotelbooking.booking.v1.BookingService/CancelBooking", "cancel", "booking"},
		{"/hotelbooking.account.v1.AccountService/DeleteAccount", "delete", "account"},
		{"/grpc.health.v1.Health/Check", "check", "health"},
		{"/NoPackage/Watch", "watch", "unknown"},
		{"garbage", "unknown", "unknown"},
		{"/x.Service/Get", "get", "unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.fullMethod, func(t *testing.T) {
			ar := ParseFullMethod(tc.fullMethod)
			if ar.Action != tc.action || ar.Resource != tc.resource {
				t.Errorf("ParseFullMethod(%q) = %+v, want %s/%s", tc.fullMethod, ar, tc.action, tc.resource)
			}
		})
	}
}
