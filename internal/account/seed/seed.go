// Package seed creates the built-in demo accounts.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"hotel-booking-account/backend/internal/account/domain"
	accountrepo "hotel-booking-account/backend/internal/account/repository"
	roledomain "hotel-booking-account/backend/internal/role/domain"
)

// Account is a demo account with its plaintext password.
type Account struct {
	Username string
	Email    string
	Phone    string
	Password string
	Role     string
}

// DemoAccounts are the accounts created for local development, one per fixed role.
var DemoAccounts = []Account{
	{Username: "Admin", Email: "admin@admin.com", Phone: "0000000000", Password: "admin123", Role: roledomain.RoleAdmin},
	{Username: "Staff", Email: "staff@hotel.com", Password: "staff123", Role: roledomain.RoleStaff},
	{Username: "User", Email: "user@hotel.com", Password: "user123", Role: roledomain.RoleUser},
}

// Hasher hashes plaintext passwords.
type Hasher interface {
	Hash(raw string) (string, error)
}

// Accounts creates every account whose email is not yet active in repo and
// returns how many were created. Running it twice creates nothing the second time.
func Accounts(ctx context.Context, repo accountrepo.Repository, hasher Hasher, accounts []Account) (int, error) {
	created := 0
	for _, a := range accounts {
		existing, err := repo.FindActiveByIdentifier(ctx, a.Email)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		if existing != nil {
			continue
		}
		hash, err := hasher.Hash(a.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: hash: %w", a.Email, err)
		}
		acc := &domain.Account{
			ID:           uuid.New().String(),
			Username:     a.Username,
			Email:        a.Email,
			Phone:        a.Phone,
			PasswordHash: hash,
			Role:         a.Role,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.Create(ctx, acc); err != nil {
			return created, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		created++
	}
	return created, nil
}
