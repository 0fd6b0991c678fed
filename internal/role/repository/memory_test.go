package repository

import (
	"context"
	"reflect"
	"testing"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/role/catalog"
	"hotel-booking-account/backend/internal/role/domain"
)

func TestMemoryRepository_SeedMatchesStatic(t *testing.T) {
	ctx := context.Background()
	static := catalog.NewStatic()
	repo := NewMemoryRepository()
	if err := repo.Seed(ctx, static); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// seeding twice is a no-op
	if err := repo.Seed(ctx, static); err != nil {
		t.Fatalf("Seed again: %v", err)
	}
	for _, role := range static.Roles() {
		got, err := repo.ResolvePermissions(ctx, role)
		if err != nil {
			t.Fatalf("ResolvePermissions(%s): %v", role, err)
		}
		want := static.Permissions(role)
		if !reflect.DeepEqual(got.Slice(), want.Slice()) {
			t.Fatalf("%s: got %v, want %v", role, got.Slice(), want.Slice())
		}
	}
	roles, _ := repo.ListRoles(ctx)
	if len(roles) != 3 {
		t.Fatalf("roles = %d, want 3", len(roles))
	}
}

func TestMemoryRepository_CreateRoleConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	if err := repo.CreateRole(ctx, &domain.Role{ID: "1", Name: "Auditor"}); err != nil {
		t.Fatalf("CreateRole: %v", err)
	}
	err := repo.CreateRole(ctx, &domain.Role{ID: "2", Name: "AUDITOR"})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMemoryRepository_SetRolePermissionsSkipsUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_ = repo.EnsurePermissions(ctx, []*domain.Permission{{ID: "p1", Name: "VIEW_LOGS"}})
	_ = repo.CreateRole(ctx, &domain.Role{ID: "r1", Name: "AUDITOR"})
	if err := repo.SetRolePermissions(ctx, "r1", []string{"VIEW_LOGS", "MADE_UP"}); err != nil {
		t.Fatalf("SetRolePermissions: %v", err)
	}
	names, _ := repo.RolePermissions(ctx, "r1")
	if len(names) != 1 || names[0] != "VIEW_LOGS" {
		t.Fatalf("RolePermissions = %v", names)
	}
	perms, _ := repo.ResolvePermissions(ctx, "auditor")
	if !perms.Has("VIEW_LOGS") {
		t.Fatal("resolve should be case-insensitive")
	}
}
