package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	accountdomain "hotel-booking-account/backend/internal/account/domain"
	accountrepo "hotel-booking-account/backend/internal/account/repository"
	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/security"
	sessionrepo "hotel-booking-account/backend/internal/session/repository"
)

// TokenType is the scheme clients send access tokens with.
const TokenType = "Bearer"

// Audit actions written by the auth service.
const (
	ActionLoginSuccess   = "login_success"
	ActionLoginFailure   = "login_failure"
	ActionRefresh        = "refresh"
	ActionRefreshFailure = "refresh_failure"
	ActionLogout         = "logout"

	auditResource = "authentication"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// AuthResult holds the outcome of Login and Refresh.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	IssuedAt     time.Time
	ExpiresAt    time.Time
	Principal    *identitydomain.Principal
	Account      *accountdomain.Account
}

// AuditLogger records a single security event. Implementations are best-effort.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Recorder counts authentication outcomes per operation (login, refresh, check).
type Recorder interface {
	AuthOutcome(operation, outcome string)
}

// Options holds the optional collaborators of AuthService.
type Options struct {
	// RotateRefreshTokens makes Refresh consume the presented token.
	RotateRefreshTokens bool
	Audit               AuditLogger
	Metrics             Recorder
	Logger              *slog.Logger
}

// AuthService implements login, refresh, logout and access token checks.
type AuthService struct {
	verifier *CredentialVerifier
	builder  *PrincipalBuilder
	accounts accountrepo.Lookup
	tokens   *security.TokenProvider
	refresh  sessionrepo.Store
	rotate   bool
	audit    AuditLogger
	metrics  Recorder
	logger   *slog.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(
	verifier *CredentialVerifier,
	builder *PrincipalBuilder,
	accounts accountrepo.Lookup,
	tokens *security.TokenProvider,
	refresh sessionrepo.Store,
	opts Options,
) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		verifier: verifier,
		builder:  builder,
		accounts: accounts,
		tokens:   tokens,
		refresh:  refresh,
		rotate:   opts.RotateRefreshTokens,
		audit:    opts.Audit,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// Login verifies identifier and secret and issues an access and refresh token pair.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*AuthResult, error) {
	acc, err := s.verifier.VerifyAccount(ctx, identifier, secret)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeAuthentication) {
			s.record("login", OutcomeFailure)
			s.logEvent(ctx, "", ActionLoginFailure, "reason=invalid_credentials")
			return nil, err
		}
		s.record("login", OutcomeError)
		return nil, err
	}
	res, err := s.issuePair(ctx, acc)
	if err != nil {
		s.record("login", OutcomeError)
		return nil, err
	}
	s.record("login", OutcomeSuccess)
	s.logEvent(ctx, acc.ID, ActionLoginSuccess, "role="+acc.Role)
	s.logger.InfoContext(ctx, "auth: login", slog.String("subject_id", acc.ID), slog.String("role", acc.Role))
	return res, nil
}

// Refresh redeems refreshToken for a new token pair. The account is looked up
// again so role changes and deletions take effect.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		s.record("refresh", OutcomeFailure)
		return nil, apperrors.RefreshTokenInvalid()
	}
	// The account is looked up before the token is consumed, so a failed
	// lookup leaves the token usable.
	subjectID, err := s.refresh.Validate(ctx, refreshToken)
	if err != nil {
		s.refreshFailed(ctx, "", err)
		return nil, err
	}
	acc, err := s.accounts.FindActiveByID(ctx, subjectID)
	if err != nil {
		s.record("refresh", OutcomeError)
		return nil, fmt.Errorf("find account: %w", err)
	}
	if acc == nil {
		// The account went away after the token was issued.
		if err := s.refresh.RevokeAllForSubject(ctx, subjectID); err != nil {
			s.logger.WarnContext(ctx, "auth: revoke tokens of deleted account", slog.String("subject_id", subjectID), slog.Any("error", err))
		}
		err := apperrors.RefreshTokenInvalid()
		s.refreshFailed(ctx, subjectID, err)
		return nil, err
	}
	if s.rotate {
		consumed, err := s.refresh.Consume(ctx, refreshToken)
		if err != nil {
			// Lost a race with a concurrent refresh or logout.
			s.refreshFailed(ctx, subjectID, err)
			return nil, err
		}
		if consumed != subjectID {
			err := apperrors.RefreshTokenInvalid()
			s.refreshFailed(ctx, subjectID, err)
			return nil, err
		}
	}
	res, err := s.issuePair(ctx, acc)
	if err != nil {
		s.record("refresh", OutcomeError)
		return nil, err
	}
	s.record("refresh", OutcomeSuccess)
	s.logEvent(ctx, acc.ID, ActionRefresh, "")
	return res, nil
}

// Logout revokes refreshToken. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}
	subjectID, _ := s.refresh.Validate(ctx, refreshToken)
	if err := s.refresh.Revoke(ctx, refreshToken); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if subjectID != "" {
		s.logEvent(ctx, subjectID, ActionLogout, "")
	}
	return nil
}

// LogoutAll revokes every refresh token of subjectID.
func (s *AuthService) LogoutAll(ctx context.Context, subjectID string) error {
	if subjectID == "" {
		return apperrors.NotAuthenticated()
	}
	if err := s.refresh.RevokeAllForSubject(ctx, subjectID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	s.logEvent(ctx, subjectID, ActionLogout, "scope=all")
	return nil
}

// Check validates an access token and returns its claims and principal.
func (s *AuthService) Check(ctx context.Context, accessToken string) (*identitydomain.Principal, *security.AccessClaims, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		s.record("check", OutcomeFailure)
		return nil, nil, err
	}
	s.record("check", OutcomeSuccess)
	return FromClaims(claims), claims, nil
}

// Principal returns the principal of a validated access token. It implements
// the authenticator used by the HTTP middleware and gRPC interceptor.
func (s *AuthService) Principal(ctx context.Context, accessToken string) (*identitydomain.Principal, error) {
	claims, err := s.tokens.Validate(accessToken)
	if err != nil {
		return nil, err
	}
	return FromClaims(claims), nil
}

func (s *AuthService) issuePair(ctx context.Context, acc *accountdomain.Account) (*AuthResult, error) {
	p, err := s.builder.Build(ctx, acc)
	if err != nil {
		return nil, err
	}
	access, claims, err := s.tokens.Issue(p.SubjectID, p.Role, p.Permissions.Slice())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.refresh.Issue(ctx, p.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    TokenType,
		IssuedAt:     claims.IssuedAt.Time,
		ExpiresAt:    claims.ExpiresAt.Time,
		Principal:    p,
		Account:      acc,
	}, nil
}

func (s *AuthService) refreshFailed(ctx context.Context, subjectID string, err error) {
	if apperrors.IsCode(err, apperrors.CodeRefreshTokenInvalid) {
		s.record("refresh", OutcomeFailure)
		s.logEvent(ctx, subjectID, ActionRefreshFailure, "reason=invalid_refresh_token")
		return
	}
	s.record("refresh", OutcomeError)
}

func (s *AuthService) record(operation, outcome string) {
	if s.metrics != nil {
		s.metrics.AuthOutcome(operation, outcome)
	}
}

func (s *AuthService) logEvent(ctx context.Context, userID, action, metadata string) {
	if s.audit != nil {
		s.audit.LogEvent(ctx, userID, action, auditResource, metadata)
	}
}
