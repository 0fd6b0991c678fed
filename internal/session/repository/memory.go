package repository

import (
	"context"
	"sync"
	"time"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/security"
	"hotel-booking-account/backend/internal/session/domain"
)

// MemoryStore is a process-local Store. Records are keyed by token hash and
// guarded by a single mutex, so Consume is atomic within the process. It
// offers no consistency across replicas.
type MemoryStore struct {
	mu   sync.Mutex
	m    map[string]domain.RefreshToken
	ttl  time.Duration
	nowF func() time.Time
}

// NewMemoryStore returns a MemoryStore whose tokens live for ttl; ttl 0 means no expiry.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]domain.RefreshToken),
		ttl:  ttl,
		nowF: time.Now,
	}
}

// Issue creates and records a new token for subjectID.
func (s *MemoryStore) Issue(_ context.Context, subjectID string) (string, error) {
	if subjectID == "" {
		return "", apperrors.New(apperrors.CodeInvalidInput, "subject is required")
	}
	token, err := security.GenerateRefreshToken()
	if err != nil {
		return "", err
	}
	now := s.nowF().UTC()
	rec := domain.RefreshToken{
		TokenHash: security.HashRefreshToken(token),
		SubjectID: subjectID,
		IssuedAt:  now,
	}
	if s.ttl > 0 {
		rec.ExpiresAt = now.Add(s.ttl)
	}
	s.mu.Lock()
	s.m[rec.TokenHash] = rec
	s.mu.Unlock()
	return token, nil
}

// Validate returns the subject of a live token. Expired records are deleted lazily.
func (s *MemoryStore) Validate(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.liveLocked(token)
	if err != nil {
		return "", err
	}
	return rec.SubjectID, nil
}

// Consume validates and deletes token under one lock.
func (s *MemoryStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, err := s.liveLocked(token)
	if err != nil {
		return "", err
	}
	delete(s.m, rec.TokenHash)
	return rec.SubjectID, nil
}

// Revoke deletes token if present.
func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, security.HashRefreshToken(token))
	s.mu.Unlock()
	return nil
}

// RevokeAllForSubject deletes every token of subjectID.
func (s *MemoryStore) RevokeAllForSubject(_ context.Context, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h, rec := range s.m {
		if rec.SubjectID == subjectID {
			delete(s.m, h)
		}
	}
	return nil
}

// PurgeExpired implements Purger.
func (s *MemoryStore) PurgeExpired(_ context.Context) (int64, error) {
	now := s.nowF()
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for h, rec := range s.m {
		if rec.Expired(now) {
			delete(s.m, h)
			n++
		}
	}
	return n, nil
}

// Len returns the number of stored records, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}

func (s *MemoryStore) liveLocked(token string) (domain.RefreshToken, error) {
	if token == "" {
		return domain.RefreshToken{}, apperrors.RefreshTokenInvalid()
	}
	h := security.HashRefreshToken(token)
	rec, ok := s.m[h]
	if !ok {
		return domain.RefreshToken{}, apperrors.RefreshTokenInvalid()
	}
	if rec.Expired(s.nowF()) {
		delete(s.m, h)
		return domain.RefreshToken{}, apperrors.RefreshTokenInvalid()
	}
	return rec, nil
}
