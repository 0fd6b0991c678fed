package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hotel-booking-account/backend/internal/role/domain"
)

// Repository defines persistence for roles, permissions and their association.
// Lookups return nil and no error when the row does not exist.
type Repository interface {
	// ResolvePermissions returns the permissions of the active role with the
	// given name; an unknown role yields an empty set.
	ResolvePermissions(ctx context.Context, role string) (domain.PermissionSet, error)
	CreateRole(ctx context.Context, r *domain.Role) error
	GetRoleByName(ctx context.Context, name string) (*domain.Role, error)
	ListRoles(ctx context.Context) ([]*domain.Role, error)
	ListPermissions(ctx context.Context) ([]*domain.Permission, error)
	RolePermissions(ctx context.Context, roleID string) ([]string, error)
	// SetRolePermissions replaces the role's permissions with names.
	SetRolePermissions(ctx context.Context, roleID string, names []string) error
	// EnsurePermissions inserts permissions whose name is not yet present.
	EnsurePermissions(ctx context.Context, perms []*domain.Permission) error
}

// PermissionTable is the read side of a static role table.
type PermissionTable interface {
	Roles() []string
	Permissions(role string) domain.PermissionSet
	AllPermissions() []string
}

// Seed loads roles and permissions from table into repo. Missing permissions
// and roles are created; each table role's permissions are reset to the table's.
func Seed(ctx context.Context, repo Repository, table PermissionTable) error {
	perms := make([]*domain.Permission, 0)
	for _, name := range table.AllPermissions() {
		perms = append(perms, &domain.Permission{ID: uuid.New().String(), Name: name})
	}
	if err := repo.EnsurePermissions(ctx, perms); err != nil {
		return err
	}
	for _, name := range table.Roles() {
		role, err := repo.GetRoleByName(ctx, name)
		if err != nil {
			return err
		}
		if role == nil {
			role = &domain.Role{ID: uuid.New().String(), Name: name, Description: domain.Descriptions[name], CreatedAt: time.Now().UTC()}
			if err := repo.CreateRole(ctx, role); err != nil {
				return err
			}
		}
		if err := repo.SetRolePermissions(ctx, role.ID, table.Permissions(name).Slice()); err != nil {
			return err
		}
	}
	return nil
}
