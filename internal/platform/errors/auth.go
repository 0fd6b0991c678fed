package errors

import (
	"errors"
	"strings"
)

// msgInvalidCredentials is deliberately the same for unknown accounts,
// deleted accounts and wrong secrets.
const msgInvalidCredentials = "invalid credentials"

// Authentication returns the generic login failure.
func Authentication() *Error {
	return New(CodeAuthentication, msgInvalidCredentials)
}

// Configuration wraps a fatal startup problem such as an unreadable signing key.
func Configuration(message string, cause error) *Error {
	return Wrap(CodeConfiguration, message, cause)
}

// TokenMalformed reports a token that could not be decoded.
func TokenMalformed(cause error) *Error {
	return Wrap(CodeTokenMalformed, "malformed token", cause)
}

// TokenSignature reports a token whose signature does not verify.
func TokenSignature(cause error) *Error {
	return Wrap(CodeTokenSignature, "invalid token signature", cause)
}

// TokenExpired reports a structurally valid token past its expiry.
func TokenExpired() *Error {
	return New(CodeTokenExpired, "token expired")
}

// RefreshTokenInvalid reports an unknown, revoked or expired refresh token.
func RefreshTokenInvalid() *Error {
	return New(CodeRefreshTokenInvalid, "invalid refresh token")
}

// NotAuthenticated is the access denial for a request without a principal.
func NotAuthenticated() *Error {
	return New(CodeNotAuthenticated, "not authenticated")
}

// MissingPermissions is the access denial for a permission guard.
func MissingPermissions(required []string) *Error {
	list := "[" + strings.Join(required, ", ") + "]"
	return WithMetadata(CodeAccessDenied,
		"user does not have required permission(s): "+list,
		map[string]string{"required_permissions": strings.Join(required, ",")})
}

// MissingRole is the access denial for a role guard.
func MissingRole(required []string, current string) *Error {
	list := "[" + strings.Join(required, ", ") + "]"
	return WithMetadata(CodeAccessDenied,
		"access denied. Required: "+list+", Current: "+current,
		map[string]string{"required_roles": strings.Join(required, ","), "current_role": current})
}

// IsAccessDenied reports whether err is any enforcer denial, including the
// unauthenticated case.
func IsAccessDenied(err error) bool {
	code := GetCode(err)
	return code == CodeAccessDenied || code == CodeNotAuthenticated
}

// IsTokenError reports whether err is any access-token validation failure.
func IsTokenError(err error) bool {
	switch GetCode(err) {
	case CodeTokenMalformed, CodeTokenSignature, CodeTokenExpired:
		return true
	}
	return false
}

// IsNotFound reports whether err has CodeNotFound.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeNotFound
}
