package domain

import "time"

// RefreshToken is the stored record of an issued refresh token. Only the
// SHA-256 hash of the opaque token is kept.
type RefreshToken struct {
	TokenHash string
	SubjectID string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token never expires
}

// Expired reports whether the token is past its expiry at now.
func (t *RefreshToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
