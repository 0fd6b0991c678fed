package repository

import (
	"context"
	"sort"
	"sync"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/role/domain"
)

// MemoryRepository is an in-process Repository used when no database is configured.
type MemoryRepository struct {
	mu          sync.RWMutex
	roles       map[string]*domain.Role // key: normalized name
	permissions map[string]*domain.Permission
	assoc       map[string]domain.PermissionSet // key: role id
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		roles:       make(map[string]*domain.Role),
		permissions: make(map[string]*domain.Permission),
		assoc:       make(map[string]domain.PermissionSet),
	}
}

// Seed loads roles and permissions from table. Existing rows are kept.
func (m *MemoryRepository) Seed(ctx context.Context, table PermissionTable) error {
	return Seed(ctx, m, table)
}

// ResolvePermissions implements catalog.Catalog.
func (m *MemoryRepository) ResolvePermissions(_ context.Context, role string) (domain.PermissionSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[domain.NormalizeRole(role)]
	if !ok {
		return domain.PermissionSet{}, nil
	}
	return m.assoc[r.ID].Union(), nil
}

// CreateRole stores role. A duplicate name yields a conflict error.
func (m *MemoryRepository) CreateRole(_ context.Context, role *domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := domain.NormalizeRole(role.Name)
	if _, ok := m.roles[key]; ok {
		return apperrors.New(apperrors.CodeConflict, "role already exists")
	}
	cp := *role
	m.roles[key] = &cp
	return nil
}

// GetRoleByName returns the role with the given name, or nil if not found.
func (m *MemoryRepository) GetRoleByName(_ context.Context, name string) (*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.roles[domain.NormalizeRole(name)]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

// ListRoles returns roles ordered by name.
func (m *MemoryRepository) ListRoles(_ context.Context) ([]*domain.Role, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Role, 0, len(m.roles))
	for _, r := range m.roles {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ListPermissions returns permissions ordered by name.
func (m *MemoryRepository) ListPermissions(_ context.Context) ([]*domain.Permission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Permission, 0, len(m.permissions))
	for _, p := range m.permissions {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RolePermissions returns the sorted permission names of roleID.
func (m *MemoryRepository) RolePermissions(_ context.Context, roleID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assoc[roleID].Slice(), nil
}

// SetRolePermissions replaces the role's permissions. Names without a
// permission row are skipped, matching the SQL implementation.
func (m *MemoryRepository) SetRolePermissions(_ context.Context, roleID string, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set := domain.PermissionSet{}
	for _, n := range names {
		if _, ok := m.permissions[n]; ok {
			set[n] = struct{}{}
		}
	}
	m.assoc[roleID] = set
	return nil
}

// EnsurePermissions inserts permissions whose name is not yet present.
func (m *MemoryRepository) EnsurePermissions(_ context.Context, perms []*domain.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range perms {
		if _, ok := m.permissions[p.Name]; ok {
			continue
		}
		cp := *p
		m.permissions[p.Name] = &cp
	}
	return nil
}
