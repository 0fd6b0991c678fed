package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	roledomain "hotel-booking-account/backend/internal/role/domain"
)

// RoleAdmin is the role administration service the admin endpoints use.
type RoleAdmin interface {
	CreateRole(ctx context.Context, name, description string) (*roledomain.Role, error)
	ListRoles(ctx context.Context) ([]*roledomain.Role, error)
	ListPermissions(ctx context.Context) ([]*roledomain.Permission, error)
	RolePermissions(ctx context.Context, name string) ([]string, error)
	SetRolePermissions(ctx context.Context, name string, perms []string) ([]string, error)
}

type createRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type roleResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type permissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type rolePermissionsResponse struct {
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// RoleHandler serves /api/admin.
type RoleHandler struct {
	service RoleAdmin
	logger  *slog.Logger
}

// NewRoleHandler returns a RoleHandler.
func NewRoleHandler(service RoleAdmin, logger *slog.Logger) *RoleHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoleHandler{service: service, logger: logger}
}

// CreateRole creates a dynamic role.
// POST /api/admin/roles
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req createRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidInput(w, "request body must be JSON")
		return
	}
	role, err := h.service.CreateRole(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, "Role created successfully", newRoleResponse(role))
}

// ListRoles lists active roles.
// GET /api/admin/roles
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, newRoleResponse(role))
	}
	writeSuccess(w, http.StatusOK, successMessage, out)
}

// ListPermissions lists every known permission.
// GET /api/admin/permissions
func (h *RoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.service.ListPermissions(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	out := make([]permissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, permissionResponse{ID: p.ID, Name: p.Name, Description: p.Description})
	}
	writeSuccess(w, http.StatusOK, successMessage, out)
}

// RolePermissions returns the permissions of one role.
// GET /api/admin/roles/{name}/permissions
func (h *RoleHandler) RolePermissions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	perms, err := h.service.RolePermissions(r.Context(), name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, successMessage, rolePermissionsResponse{
		Role:        roledomain.NormalizeRole(name),
		Permissions: nonNil(perms),
	})
}

// SetRolePermissions replaces the permissions of one role.
// PUT /api/admin/roles/{name}/permissions
func (h *RoleHandler) SetRolePermissions(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var req setPermissionsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidInput(w, "request body must be JSON")
		return
	}
	perms, err := h.service.SetRolePermissions(r.Context(), name, req.Permissions)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Role permissions updated", rolePermissionsResponse{
		Role:        roledomain.NormalizeRole(name),
		Permissions: nonNil(perms),
	})
}

func newRoleResponse(role *roledomain.Role) roleResponse {
	return roleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		CreatedAt:   role.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
