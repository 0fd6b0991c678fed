// Package errors provides the typed error taxonomy shared by the auth core
// and its transports.
package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Authentication errors
	CodeAuthentication Code = "AUTHENTICATION_FAILED"

	// Startup errors
	CodeConfiguration Code = "CONFIGURATION_INVALID"

	// Access token errors
	CodeTokenMalformed Code = "TOKEN_MALFORMED"
	CodeTokenSignature Code = "TOKEN_SIGNATURE_INVALID"
	CodeTokenExpired   Code = "TOKEN_EXPIRED"

	// Refresh token errors
	CodeRefreshTokenInvalid Code = "REFRESH_TOKEN_INVALID"

	// Authorization errors
	CodeNotAuthenticated Code = "NOT_AUTHENTICATED"
	CodeAccessDenied     Code = "ACCESS_DENIED"

	// Request and storage errors
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeRateLimited  Code = "RATE_LIMITED"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeAuthentication,
		CodeTokenMalformed,
		CodeTokenSignature,
		CodeTokenExpired,
		CodeRefreshTokenInvalid,
		CodeNotAuthenticated:
		return codes.Unauthenticated

	case CodeAccessDenied:
		return codes.PermissionDenied

	case CodeInvalidInput:
		return codes.InvalidArgument

	case CodeNotFound:
		return codes.NotFound

	case CodeConflict:
		return codes.AlreadyExists

	case CodeRateLimited:
		return codes.ResourceExhausted

	default:
		return codes.Internal
	}
}

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeAuthentication,
		CodeTokenMalformed,
		CodeTokenSignature,
		CodeTokenExpired,
		CodeRefreshTokenInvalid,
		CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeAccessDenied:
		return http.StatusForbidden
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
