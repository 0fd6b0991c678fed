package repository

import (
	"context"
	"testing"

	"hotel-booking-account/backend/internal/account/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

func TestMemoryRepository_Lookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	if err := repo.Create(ctx, &domain.Account{ID: "a1", Username: "Admin", Email: "admin@admin.com", PasswordHash: "h", Role: "ADMIN"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, id := range []string{"admin@admin.com", "ADMIN@admin.com", "Admin"} {
		a, err := repo.FindActiveByIdentifier(ctx, id)
		if err != nil || a == nil || a.ID != "a1" {
			t.Fatalf("FindActiveByIdentifier(%q) = %v, %v", id, a, err)
		}
	}
	if a, _ := repo.FindActiveByIdentifier(ctx, "admin"); a != nil {
		t.Fatal("usernames are case-sensitive")
	}
	if a, _ := repo.FindActiveByID(ctx, "a1"); a == nil {
		t.Fatal("FindActiveByID should find a1")
	}
}

func TestMemoryRepository_SoftDeleteHidesAccount(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Create(ctx, &domain.Account{ID: "a1", Email: "u@hotel.com", PasswordHash: "h", Role: "USER"})

	if err := repo.SoftDelete(ctx, "a1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if err := repo.SoftDelete(ctx, "a1"); err != nil {
		t.Fatalf("SoftDelete twice: %v", err)
	}
	if a, _ := repo.FindActiveByIdentifier(ctx, "u@hotel.com"); a != nil {
		t.Fatal("deleted account must not be found by identifier")
	}
	if a, _ := repo.FindActiveByID(ctx, "a1"); a != nil {
		t.Fatal("deleted account must not be found by id")
	}
	if err := repo.SoftDelete(ctx, "missing"); !apperrors.IsNotFound(err) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestMemoryRepository_CreateRejects(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.Create(ctx, &domain.Account{ID: "a1", Email: "u@hotel.com", PasswordHash: "h", Role: "USER"})

	err := repo.Create(ctx, &domain.Account{ID: "a2", Email: "U@hotel.com", PasswordHash: "h", Role: "USER"})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate email: want conflict, got %v", err)
	}
	err = repo.Create(ctx, &domain.Account{ID: "a3", Email: "v@hotel.com", Role: "USER"})
	if !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("missing hash: want invalid input, got %v", err)
	}
}
