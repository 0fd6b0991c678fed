// Package httpapi serves the account service's REST surface: login, refresh,
// logout, token checks, role administration and the guarded demo endpoints.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	apperrors "hotel-booking-account/backend/internal/platform/errors"
)

// Envelope is the uniform response body of every endpoint.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	Data       any    `json:"data,omitempty"`
	StatusCode int    `json:"statusCode"`
}

const successMessage = "Success"

func writeJSON(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	writeJSON(w, statusCode, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: statusCode,
	})
}

// writeError translates err into an error envelope. Errors outside the
// apperrors taxonomy become a generic 500 and are logged.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown {
		if logger != nil {
			logger.ErrorContext(r.Context(), "request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err))
		}
		code = apperrors.Code("INTERNAL_ERROR")
	}
	statusCode := code.HTTPStatus()
	writeJSON(w, statusCode, Envelope{
		Success:    false,
		Message:    apperrors.PublicMessage(err),
		Code:       string(code),
		StatusCode: statusCode,
	})
}

func writeInvalidInput(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, Envelope{
		Success:    false,
		Message:    message,
		Code:       string(apperrors.CodeInvalidInput),
		StatusCode: http.StatusBadRequest,
	})
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
