package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	identityservice "hotel-booking-account/backend/internal/identity/service"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/platform/rbac"
	"hotel-booking-account/backend/internal/security"
)

// AuthService is the part of identityservice.AuthService the auth endpoints use.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (*identityservice.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*identityservice.AuthResult, error)
	Logout(ctx context.Context, refreshToken string) error
	LogoutAll(ctx context.Context, subjectID string) error
	Check(ctx context.Context, accessToken string) (*identitydomain.Principal, *security.AccessClaims, error)
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// identifier returns the first non-empty of identifier, email and username.
func (r loginRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.Username} {
		if v != "" {
			return v
		}
	}
	return ""
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	All          bool   `json:"all"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refreshToken"`
	TokenType    string       `json:"tokenType"`
	ExpiresAt    time.Time    `json:"expiresAt"`
	User         userResponse `json:"user"`
}

type principalResponse struct {
	SubjectID   string     `json:"subjectId"`
	Username    string     `json:"username,omitempty"`
	Email       string     `json:"email,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	Services    services   `json:"services"`
	TokenID     string     `json:"tokenId,omitempty"`
	IssuedAt    *time.Time `json:"issuedAt,omitempty"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

// services tells a gateway which downstream services the principal may reach.
type services struct {
	Booking bool `json:"booking"`
	Payment bool `json:"payment"`
}

// AuthHandler serves /auth.
type AuthHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewAuthHandler returns an AuthHandler.
func NewAuthHandler(service AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{service: service, logger: logger}
}

// Login exchanges credentials for a token pair.
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidInput(w, "request body must be JSON")
		return
	}
	res, err := h.service.Login(r.Context(), req.identifier(), req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Login successful", newAuthResponse(res))
}

// Refresh exchanges a refresh token for a new token pair.
// POST /auth/refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidInput(w, "request body must be JSON")
		return
	}
	res, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Token refreshed successfully", newAuthResponse(res))
}

// Logout revokes the presented refresh token. With all set and a valid bearer
// token every refresh token of the caller is revoked.
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidInput(w, "request body must be JSON")
		return
	}
	if req.All {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, h.logger, apperrors.NotAuthenticated())
			return
		}
		p, _, err := h.service.Check(r.Context(), token)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		if err := h.service.LogoutAll(r.Context(), p.SubjectID); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeSuccess(w, http.StatusOK, "Logged out from all sessions", nil)
		return
	}
	if req.RefreshToken == "" {
		writeInvalidInput(w, "refreshToken is required")
		return
	}
	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

// Check validates the bearer access token and returns its principal and claims.
// GET /auth/check
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, r, h.logger, apperrors.NotAuthenticated())
		return
	}
	p, claims, err := h.service.Check(r.Context(), token)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp := newPrincipalResponse(p)
	resp.TokenID = claims.ID
	if claims.IssuedAt != nil {
		iat := claims.IssuedAt.Time
		resp.IssuedAt = &iat
	}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		resp.ExpiresAt = &exp
	}
	writeSuccess(w, http.StatusOK, "Token is valid", resp)
}

// Me returns the principal stored by RequireAuth.
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := rbac.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperrors.NotAuthenticated())
		return
	}
	writeSuccess(w, http.StatusOK, successMessage, newPrincipalResponse(p))
}

func newAuthResponse(res *identityservice.AuthResult) authResponse {
	out := authResponse{
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
		TokenType:    res.TokenType,
		ExpiresAt:    res.ExpiresAt,
	}
	if acc := res.Account; acc != nil {
		out.User = userResponse{
			ID:       acc.ID,
			Username: acc.Username,
			Email:    acc.Email,
			Phone:    acc.Phone,
			Role:     acc.Role,
		}
	} else if p := res.Principal; p != nil {
		out.User = userResponse{ID: p.SubjectID, Username: p.Username, Email: p.Email, Role: p.Role}
	}
	return out
}

func newPrincipalResponse(p *identitydomain.Principal) principalResponse {
	return principalResponse{
		SubjectID:   p.SubjectID,
		Username:    p.Username,
		Email:       p.Email,
		Role:        p.Role,
		Permissions: p.Permissions.Slice(),
		Services: services{
			Booking: p.CanAccessBookingService(),
			Payment: p.CanAccessPaymentService(),
		},
	}
}
