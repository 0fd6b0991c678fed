package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"hotel-booking-account/backend/internal/account/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

const accountColumns = `id, username, email, phone, password_hash, image_url, role, created_at, deleted_at`

// PostgresRepository stores accounts in the accounts table.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an account repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// FindActiveByIdentifier returns the non-deleted account whose email or username is identifier, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) FindActiveByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts
		 where (lower(email) = $1 or username = $2) and deleted_at is null
		 order by (lower(email) = $1) desc limit 1`,
		domain.NormalizeEmail(identifier), identifier)
	return scanAccount(row)
}

// FindActiveByID returns the non-deleted account with id, or nil if not found.
func (r *PostgresRepository) FindActiveByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+accountColumns+` from accounts where id = $1 and deleted_at is null`, id)
	return scanAccount(row)
}

// Create persists the account. The account must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid account", err)
	}
	_, err := r.db.ExecContext(ctx,
		`insert into accounts(`+accountColumns+`) values($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, nullString(a.Username), domain.NormalizeEmail(a.Email), nullString(a.Phone),
		a.PasswordHash, nullString(a.ImageURL), a.Role, a.CreatedAt, a.DeletedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.Wrap(apperrors.CodeConflict, "account already exists", err)
	}
	return err
}

// SoftDelete sets deleted_at to now unless it is already set.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`update accounts set deleted_at = $2 where id = $1 and deleted_at is null`, id, time.Now().UTC())
	return err
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var (
		a                         domain.Account
		username, phone, imageURL sql.NullString
		deletedAt                 sql.NullTime
	)
	err := row.Scan(&a.ID, &username, &a.Email, &phone, &a.PasswordHash, &imageURL, &a.Role, &a.CreatedAt, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	a.Username = username.String
	a.Phone = phone.String
	a.ImageURL = imageURL.String
	if deletedAt.Valid {
		t := deletedAt.Time
		a.DeletedAt = &t
	}
	return &a, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
