package domain

import (
	"errors"
	"strings"
	"time"
)

// Account is a registered principal of the hotel booking system.
type Account struct {
	ID           string
	Username     string
	Email        string
	Phone        string
	PasswordHash string
	ImageURL     string
	Role         string
	CreatedAt    time.Time
	DeletedAt    *time.Time // soft-delete tombstone; non-nil accounts can never authenticate
}

// Active reports whether the account has not been soft-deleted.
func (a *Account) Active() bool {
	return a.DeletedAt == nil
}

// NormalizeEmail lower-cases and trims an email address for lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate validates the account for persistence. Returns an error describing the first validation failure.
func (a *Account) Validate() error {
	if a.Email == "" && a.Username == "" {
		return errors.New("email or username is required")
	}
	if a.PasswordHash == "" {
		return errors.New("password hash is required")
	}
	if a.Role == "" {
		return errors.New("role is required")
	}
	return nil
}
