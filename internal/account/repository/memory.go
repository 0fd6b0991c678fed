package repository

import (
	"context"
	"sync"
	"time"

	"hotel-booking-account/backend/internal/account/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// MemoryRepository is an in-process Repository used when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
	nowF     func() time.Time
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{accounts: make(map[string]*domain.Account), nowF: time.Now}
}

// FindActiveByIdentifier matches email case-insensitively first, then username.
func (m *MemoryRepository) FindActiveByIdentifier(_ context.Context, identifier string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	email := domain.NormalizeEmail(identifier)
	var byUsername *domain.Account
	for _, a := range m.accounts {
		if !a.Active() {
			continue
		}
		if email != "" && domain.NormalizeEmail(a.Email) == email {
			cp := *a
			return &cp, nil
		}
		if a.Username != "" && a.Username == identifier {
			byUsername = a
		}
	}
	if byUsername == nil {
		return nil, nil
	}
	cp := *byUsername
	return &cp, nil
}

// FindActiveByID returns the non-deleted account with id, or nil if not found.
func (m *MemoryRepository) FindActiveByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok || !a.Active() {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

// Create stores a copy of the account. Email and username must be unique.
func (m *MemoryRepository) Create(_ context.Context, a *domain.Account) error {
	if err := a.Validate(); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "invalid account", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; ok {
		return apperrors.New(apperrors.CodeConflict, "account already exists")
	}
	for _, existing := range m.accounts {
		if (a.Email != "" && domain.NormalizeEmail(existing.Email) == domain.NormalizeEmail(a.Email)) ||
			(a.Username != "" && existing.Username == a.Username) {
			return apperrors.New(apperrors.CodeConflict, "account already exists")
		}
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

// SoftDelete sets DeletedAt unless it is already set.
func (m *MemoryRepository) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "account not found")
	}
	if a.DeletedAt == nil {
		t := m.nowF().UTC()
		a.DeletedAt = &t
	}
	return nil
}
