package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	accountdomain "hotel-booking-account/backend/internal/account/domain"
	accountrepo "hotel-booking-account/backend/internal/account/repository"
	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// SecretHasher hashes and compares account secrets.
type SecretHasher interface {
	Hash(raw string) (string, error)
	Matches(raw, hash string) bool
}

// CredentialVerifier checks an identifier and secret against active accounts.
// Unknown accounts, deleted accounts and wrong secrets all fail with the same
// Authentication error.
type CredentialVerifier struct {
	accounts accountrepo.Lookup
	hasher   SecretHasher
	builder  *PrincipalBuilder

	dummyOnce sync.Once
	dummyHash string
}

// NewCredentialVerifier returns a CredentialVerifier. builder is used by Verify
// to turn the matched account into a principal.
func NewCredentialVerifier(accounts accountrepo.Lookup, hasher SecretHasher, builder *PrincipalBuilder) *CredentialVerifier {
	return &CredentialVerifier{accounts: accounts, hasher: hasher, builder: builder}
}

// Verify authenticates identifier and secret and returns the principal of the
// matching account.
func (v *CredentialVerifier) Verify(ctx context.Context, identifier, secret string) (*identitydomain.Principal, error) {
	acc, err := v.VerifyAccount(ctx, identifier, secret)
	if err != nil {
		return nil, err
	}
	return v.builder.Build(ctx, acc)
}

// VerifyAccount is Verify without building the principal. Lookup failures are
// returned wrapped; they are not authentication failures.
func (v *CredentialVerifier) VerifyAccount(ctx context.Context, identifier, secret string) (*accountdomain.Account, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || secret == "" {
		return nil, apperrors.Authentication()
	}
	acc, err := v.accounts.FindActiveByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find account: %w", err)
	}
	if acc == nil || !acc.Active() {
		// Spend a comparison anyway so a missing account costs the same as a wrong secret.
		v.hasher.Matches(secret, v.dummy())
		return nil, apperrors.Authentication()
	}
	if !v.hasher.Matches(secret, acc.PasswordHash) {
		return nil, apperrors.Authentication()
	}
	return acc, nil
}

func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		b := make([]byte, 16)
		_, _ = rand.Read(b)
		h, err := v.hasher.Hash(hex.EncodeToString(b))
		if err == nil {
			v.dummyHash = h
		}
	})
	return v.dummyHash
}
