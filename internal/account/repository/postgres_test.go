package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"hotel-booking-account/backend/internal/account/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

var accountCols = []string{"id", "username", "email", "phone", "password_hash", "image_url", "role", "created_at", "deleted_at"}

func newMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresRepository_FindActiveByIdentifier(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("select id, username, email.*from accounts.*deleted_at is null").
		WithArgs("admin@admin.com", " Admin@Admin.com ").
		WillReturnRows(sqlmock.NewRows(accountCols).
			AddRow("a1", "Admin", "admin@admin.com", "0000000000", "$2a$hash", nil, "ADMIN", created, nil))

	a, err := repo.FindActiveByIdentifier(context.Background(), " Admin@Admin.com ")
	if err != nil {
		t.Fatalf("FindActiveByIdentifier: %v", err)
	}
	if a == nil || a.ID != "a1" || a.Role != "ADMIN" || a.Username != "Admin" || a.ImageURL != "" {
		t.Fatalf("unexpected account: %+v", a)
	}
	if !a.Active() {
		t.Fatal("account should be active")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_FindActiveByIdentifier_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("from accounts").WillReturnError(sql.ErrNoRows)

	a, err := repo.FindActiveByIdentifier(context.Background(), "ghost@example.com")
	if err != nil || a != nil {
		t.Fatalf("want nil, nil; got %v, %v", a, err)
	}
}

func TestPostgresRepository_FindActiveByID_DBError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("from accounts where id = \\$1 and deleted_at is null").
		WithArgs("a1").
		WillReturnError(errors.New("connection refused"))

	if _, err := repo.FindActiveByID(context.Background(), "a1"); err == nil {
		t.Fatal("expected database error")
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	a := &domain.Account{ID: "a1", Email: "User@Hotel.com", PasswordHash: "h", Role: "USER", CreatedAt: time.Now()}
	mock.ExpectExec("insert into accounts").
		WithArgs("a1", nil, "user@hotel.com", nil, "h", nil, "USER", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgresRepository_CreateDuplicate(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("insert into accounts").WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.Account{ID: "a1", Email: "x@y.z", PasswordHash: "h", Role: "USER"})
	if !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("want conflict, got %v", err)
	}
}

func TestPostgresRepository_SoftDelete(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("update accounts set deleted_at").
		WithArgs("a1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDelete(context.Background(), "a1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
}
