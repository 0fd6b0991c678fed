package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/role/domain"
	"hotel-booking-account/backend/internal/role/repository"
)

// RoleService administers dynamic roles and their permissions.
type RoleService struct {
	repo repository.Repository
	now  func() time.Time
}

// NewRoleService returns a RoleService backed by repo.
func NewRoleService(repo repository.Repository) *RoleService {
	return &RoleService{repo: repo, now: time.Now}
}

// CreateRole creates a role. Names are stored upper-cased and must be unique.
func (s *RoleService) CreateRole(ctx context.Context, name, description string) (*domain.Role, error) {
	name = domain.NormalizeRole(name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "role name is required")
	}
	existing, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	if existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "role already exists: "+name)
	}
	role := &domain.Role{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.CreateRole(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

// ListRoles returns every active role.
func (s *RoleService) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	return s.repo.ListRoles(ctx)
}

// ListPermissions returns every known permission.
func (s *RoleService) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// RolePermissions returns the permissions of the named role and fails with
// NotFound for an unknown role.
func (s *RoleService) RolePermissions(ctx context.Context, name string) ([]string, error) {
	role, err := s.mustGetRole(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.repo.RolePermissions(ctx, role.ID)
}

// SetRolePermissions replaces the named role's permissions. Every name must
// be a known permission.
func (s *RoleService) SetRolePermissions(ctx context.Context, name string, perms []string) ([]string, error) {
	role, err := s.mustGetRole(ctx, name)
	if err != nil {
		return nil, err
	}
	known, err := s.repo.ListPermissions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	valid := make(domain.PermissionSet, len(known))
	for _, p := range known {
		valid[p.Name] = struct{}{}
	}
	want := domain.NewPermissionSet(perms...)
	for p := range want {
		if !valid.Has(p) {
			return nil, apperrors.New(apperrors.CodeInvalidInput, "unknown permission: "+p)
		}
	}
	if err := s.repo.SetRolePermissions(ctx, role.ID, want.Slice()); err != nil {
		return nil, err
	}
	return want.Slice(), nil
}

func (s *RoleService) mustGetRole(ctx context.Context, name string) (*domain.Role, error) {
	role, err := s.repo.GetRoleByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	if role == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "role not found: "+domain.NormalizeRole(name))
	}
	return role, nil
}
