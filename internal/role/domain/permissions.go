package domain

// Account permissions.
const (
	ManageAccounts        = "MANAGE_ACCOUNTS"
	ViewAllAccounts       = "VIEW_ALL_ACCOUNTS"
	CreateAccount         = "CREATE_ACCOUNT"
	UpdateAccount         = "UPDATE_ACCOUNT"
	DeleteAccount         = "DELETE_ACCOUNT"
	ViewCustomerAccounts  = "VIEW_CUSTOMER_ACCOUNTS"
	UpdateCustomerAccount = "UPDATE_CUSTOMER_ACCOUNT"
	ViewOwnAccount        = "VIEW_OWN_ACCOUNT"
	UpdateOwnAccount      = "UPDATE_OWN_ACCOUNT"
)

// Role administration permissions.
const (
	ManageRoles = "MANAGE_ROLES"
	ViewRoles   = "VIEW_ROLES"
	CreateRole  = "CREATE_ROLE"
	UpdateRole  = "UPDATE_ROLE"
	DeleteRole  = "DELETE_ROLE"
)

// System permissions.
const (
	SystemConfig = "SYSTEM_CONFIG"
	ViewLogs     = "VIEW_LOGS"
	ManageSystem = "MANAGE_SYSTEM"
)

// Booking permissions.
const (
	ViewAllBookings  = "VIEW_ALL_BOOKINGS"
	ManageBookings   = "MANAGE_BOOKINGS"
	CancelAnyBooking = "CANCEL_ANY_BOOKING"
	ViewBookings     = "VIEW_BOOKINGS"
	CreateBooking    = "CREATE_BOOKING"
	UpdateBooking    = "UPDATE_BOOKING"
	CancelBooking    = "CANCEL_BOOKING"
	ViewOwnBookings  = "VIEW_OWN_BOOKINGS"
	CreateOwnBooking = "CREATE_OWN_BOOKING"
	UpdateOwnBooking = "UPDATE_OWN_BOOKING"
	CancelOwnBooking = "CANCEL_OWN_BOOKING"
)

// Payment permissions.
const (
	ViewAllPayments = "VIEW_ALL_PAYMENTS"
	ManagePayments  = "MANAGE_PAYMENTS"
	ProcessRefunds  = "PROCESS_REFUNDS"
	ViewPayments    = "VIEW_PAYMENTS"
	ProcessPayment  = "PROCESS_PAYMENT"
	ViewOwnPayments = "VIEW_OWN_PAYMENTS"
	MakePayment     = "MAKE_PAYMENT"
)

// Cross-service access permissions checked by the booking and payment services.
const (
	AdminBookingService = "ADMIN_BOOKING_SERVICE"
	AdminPaymentService = "ADMIN_PAYMENT_SERVICE"
	StaffBookingService = "STAFF_BOOKING_SERVICE"
	UserBookingService  = "USER_BOOKING_SERVICE"
	UserPaymentService  = "USER_PAYMENT_SERVICE"
)
