package domain

import "time"

// AuditLog is one recorded security event.
type AuditLog struct {
	ID        string
	UserID    string // empty for events without an authenticated subject, e.g. a failed login
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
