package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"hotel-booking-account/backend/internal/audit/domain"
)

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`insert into audit_logs`)).
		WithArgs("id-1", nil, "login_failure", "authentication", "10.0.0.1", "reason=invalid_credentials", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	err = repo.Create(context.Background(), &domain.AuditLog{
		ID: "id-1", Action: "login_failure", Resource: "authentication",
		IP: "10.0.0.1", Metadata: "reason=invalid_credentials", CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "action", "resource", "ip", "metadata", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`from audit_logs where id = $1`)).
		WithArgs("id-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("id-1", "u-1", "login_success", "authentication", "10.0.0.1", nil, now))
	mock.ExpectQuery(regexp.QuoteMeta(`from audit_logs where id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewPostgresRepository(db)
	a, err := repo.GetByID(context.Background(), "id-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if a.UserID != "u-1" || a.Metadata != "" || !a.CreatedAt.Equal(now) {
		t.Fatalf("entry = %+v", a)
	}
	a, err = repo.GetByID(context.Background(), "missing")
	if err != nil || a != nil {
		t.Fatalf("missing: a=%v err=%v", a, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPostgresRepository_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cols := []string{"id", "user_id", "action", "resource", "ip", "metadata", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`where user_id = $1 order by created_at desc limit $2 offset $3`)).
		WithArgs("u-1", int32(10), int32(0)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("id-2", "u-1", "logout", "authentication", "10.0.0.1", nil, now).
			AddRow("id-1", "u-1", "login_success", "authentication", "10.0.0.1", "role=USER", now.Add(-time.Minute)))

	list, err := NewPostgresRepository(db).ListByUser(context.Background(), "u-1", 10, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != "id-2" || list[1].Metadata != "role=USER" {
		t.Fatalf("list = %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
