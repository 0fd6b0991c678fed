package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/role/domain"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgresRepository stores roles and permissions in the roles, permissions
// and role_permissions tables.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a role repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ResolvePermissions implements catalog.Catalog. Role names match case-insensitively.
func (r *PostgresRepository) ResolvePermissions(ctx context.Context, role string) (domain.PermissionSet, error) {
	rows, err := r.db.QueryContext(ctx,
		`select p.name from permissions p
		 join role_permissions rp on rp.permission_id = p.id
		 join roles ro on ro.id = rp.role_id
		 where upper(ro.name) = $1 and ro.deleted_at is null`, domain.NormalizeRole(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := domain.PermissionSet{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms[name] = struct{}{}
	}
	return perms, rows.Err()
}

// CreateRole inserts r. A duplicate name yields a conflict error.
func (r *PostgresRepository) CreateRole(ctx context.Context, role *domain.Role) error {
	_, err := r.db.ExecContext(ctx,
		`insert into roles(id, name, description, created_at) values($1, $2, $3, $4)`,
		role.ID, role.Name, role.Description, role.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperrors.Wrap(apperrors.CodeConflict, "role already exists", err)
	}
	return err
}

// GetRoleByName returns the active role with the given name, or nil if not found.
func (r *PostgresRepository) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	var desc sql.NullString
	err := r.db.QueryRowContext(ctx,
		`select id, name, description, created_at from roles
		 where upper(name) = $1 and deleted_at is null`, domain.NormalizeRole(name)).
		Scan(&role.ID, &role.Name, &desc, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	role.Description = desc.String
	return &role, nil
}

// ListRoles returns the active roles ordered by name.
func (r *PostgresRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	rows, err := r.db.QueryContext(ctx,
		`select id, name, description, created_at from roles where deleted_at is null order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []*domain.Role
	for rows.Next() {
		var role domain.Role
		var desc sql.NullString
		if err := rows.Scan(&role.ID, &role.Name, &desc, &role.CreatedAt); err != nil {
			return nil, err
		}
		role.Description = desc.String
		roles = append(roles, &role)
	}
	return roles, rows.Err()
}

// ListPermissions returns every permission ordered by name.
func (r *PostgresRepository) ListPermissions(ctx context.Context) ([]*domain.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `select id, name, description from permissions order by name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []*domain.Permission
	for rows.Next() {
		var p domain.Permission
		var desc sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &desc); err != nil {
			return nil, err
		}
		p.Description = desc.String
		perms = append(perms, &p)
	}
	return perms, rows.Err()
}

// RolePermissions returns the permission names associated with roleID, sorted.
func (r *PostgresRepository) RolePermissions(ctx context.Context, roleID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`select p.name from permissions p
		 join role_permissions rp on rp.permission_id = p.id
		 where rp.role_id = $1 order by p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SetRolePermissions replaces the association in one transaction.
func (r *PostgresRepository) SetRolePermissions(ctx context.Context, roleID string, names []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `delete from role_permissions where role_id = $1`, roleID); err != nil {
		return err
	}
	for _, name := range names {
		_, err := tx.ExecContext(ctx,
			`insert into role_permissions(role_id, permission_id)
			 select $1, id from permissions where name = $2`, roleID, name)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// EnsurePermissions inserts each permission unless its name already exists.
func (r *PostgresRepository) EnsurePermissions(ctx context.Context, perms []*domain.Permission) error {
	for _, p := range perms {
		_, err := r.db.ExecContext(ctx,
			`insert into permissions(id, name, description) values($1, $2, $3) on conflict (name) do nothing`,
			p.ID, p.Name, p.Description)
		if err != nil {
			return err
		}
	}
	return nil
}
