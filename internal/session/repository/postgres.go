package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/security"
	"hotel-booking-account/backend/internal/session/domain"
)

// PostgresStore keeps refresh tokens in the refresh_tokens table. Consume is
// a single DELETE ... RETURNING, so concurrent redemptions of one token
// across replicas yield at most one success.
type PostgresStore struct {
	db   *sql.DB
	ttl  time.Duration
	nowF func() time.Time
}

// NewPostgresStore returns a refresh token store that uses the given db for persistence.
func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, nowF: time.Now}
}

// Issue creates and records a new token for subjectID.
func (s *PostgresStore) Issue(ctx context.Context, subjectID string) (string, error) {
	if subjectID == "" {
		return "", apperrors.New(apperrors.CodeInvalidInput, "subject is required")
	}
	token, err := security.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	now := s.nowF().UTC()
	var expiresAt sql.NullTime
	if s.ttl > 0 {
		expiresAt = sql.NullTime{Time: now.Add(s.ttl), Valid: true}
	}
	_, err = s.db.ExecContext(ctx,
		`insert into refresh_tokens(token_hash, subject_id, issued_at, expires_at) values($1, $2, $3, $4)`,
		security.HashRefreshToken(token), subjectID, now, expiresAt)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Validate returns the subject of a live token.
func (s *PostgresStore) Validate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.RefreshTokenInvalid()
	}
	row := s.db.QueryRowContext(ctx,
		`select token_hash, subject_id, issued_at, expires_at from refresh_tokens where token_hash = $1`,
		security.HashRefreshToken(token))
	return s.subjectOf(row)
}

// Consume deletes token and returns its subject if it was live.
func (s *PostgresStore) Consume(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperrors.RefreshTokenInvalid()
	}
	row := s.db.QueryRowContext(ctx,
		`delete from refresh_tokens where token_hash = $1 returning token_hash, subject_id, issued_at, expires_at`,
		security.HashRefreshToken(token))
	return s.subjectOf(row)
}

// Revoke deletes token if present.
func (s *PostgresStore) Revoke(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from refresh_tokens where token_hash = $1`, security.HashRefreshToken(token))
	return err
}

// RevokeAllForSubject deletes every token of subjectID.
func (s *PostgresStore) RevokeAllForSubject(ctx context.Context, subjectID string) error {
	_, err := s.db.ExecContext(ctx, `delete from refresh_tokens where subject_id = $1`, subjectID)
	return err
}

// PurgeExpired implements Purger.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`delete from refresh_tokens where expires_at is not null and expires_at <= $1`, s.nowF().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *PostgresStore) subjectOf(row *sql.Row) (string, error) {
	var (
		rec       domain.RefreshToken
		expiresAt sql.NullTime
	)
	if err := row.Scan(&rec.TokenHash, &rec.SubjectID, &rec.IssuedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.RefreshTokenInvalid()
		}
		return "", err
	}
	if expiresAt.Valid {
		rec.ExpiresAt = expiresAt.Time
	}
	if rec.Expired(s.nowF()) {
		return "", apperrors.RefreshTokenInvalid()
	}
	return rec.SubjectID, nil
}
