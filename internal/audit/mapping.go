package audit

import "strings"

// ActionResource is the audit action and resource of one RPC.
type ActionResource struct {
	Action   string
	Resource string
}

const unknown = "unknown"

// verbs maps RPC method name prefixes to audit actions. The first match wins.
var verbs = []struct{ prefix, action string }{
	{"Get", "get"},
	{"List", "list"},
	{"Create", "create"},
	{"Update", "update"},
	{"Set", "update"},
	{"Delete", "delete"},
	{"Remove", "delete"},
	{"Cancel", "cancel"},
}

// ParseFullMethod derives the audit action and resource from a gRPC full
// method such as /hotelbooking.booking.v1.BookingService/GetBooking
// (action "get", resource "booking"). Unrecognized verbs are lower-cased.
func ParseFullMethod(fullMethod string) ActionResource {
	service, method, ok := cutLast(fullMethod, "/")
	if !ok {
		return ActionResource{Action: unknown, Resource: unknown}
	}
	ar := ActionResource{Action: actionOf(method), Resource: unknown}
	if _, name, ok := cutLast(service, "."); ok {
		ar.Resource = resourceOf(name)
	}
	return ar
}

func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// resourceOf turns BookingService into booking and Health into health.
func resourceOf(service string) string {
	name := strings.TrimSuffix(service, "Service")
	if name == "" {
		return unknown
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func actionOf(method string) string {
	for _, v := range verbs {
		if strings.HasPrefix(method, v.prefix) {
			return v.action
		}
	}
	return strings.ToLower(method)
}
