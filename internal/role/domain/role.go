package domain

import (
	"strings"
	"time"
)

// Fixed role identifiers.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
	RoleUser  = "USER"
)

// Descriptions maps the fixed roles to their display descriptions.
var Descriptions = map[string]string{
	RoleAdmin: "System administrator",
	RoleStaff: "Hotel staff",
	RoleUser:  "Customer",
}

// NormalizeRole returns the canonical form of a role identifier.
func NormalizeRole(role string) string {
	return strings.ToUpper(strings.TrimSpace(role))
}

// Role is a role row managed through the administration API.
type Role struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// Permission is a permission row.
type Permission struct {
	ID          string
	Name        string
	Description string
}
