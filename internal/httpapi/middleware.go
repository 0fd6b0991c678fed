package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel-booking-account/backend/internal/audit"
	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/platform/rbac"
	"hotel-booking-account/backend/internal/security"
)

// Authenticator turns a bearer access token into a principal.
type Authenticator interface {
	Principal(ctx context.Context, accessToken string) (*identitydomain.Principal, error)
}

// Metrics receives request, rate limit and denial observations.
type Metrics interface {
	RecordHTTPRequest(route, method string, statusCode int, duration time.Duration)
	RecordRateLimited(route string)
	RecordAccessDenied(code string)
}

// statusRecorder wraps http.ResponseWriter and records the status code.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// ClientIP stores the caller's address in the request context for audit
// entries and rate limiting. Forwarding headers are read only when the
// connection comes from one of trusted.
func ClientIP(trusted *audit.TrustedProxies) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := audit.WithClientIP(r.Context(), remoteIP(r, trusted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func remoteIP(r *http.Request, trusted *audit.TrustedProxies) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return trusted.Resolve(host, r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"))
}

// Logging writes one structured log line per request. The level follows
// the status code: 5xx error, 4xx warn, otherwise info.
func Logging(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", float64(time.Since(start).Nanoseconds())/float64(time.Millisecond)),
				slog.String("client_ip", audit.ClientIP(r.Context())),
			}

			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}
			logger.Log(r.Context(), level, "http_request", attrs...)
		})
	}
}

// Recovery turns a handler panic into a 500 envelope.
func Recovery(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "panic recovered",
						slog.Any("panic", rec),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("stack", string(debug.Stack())))
					writeJSON(w, http.StatusInternalServerError, Envelope{
						Message:    "internal server error",
						Code:       "INTERNAL_ERROR",
						StatusCode: http.StatusInternalServerError,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// Instrument records request count and latency per chi route pattern.
func Instrument(m Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.RecordHTTPRequest(route, r.Method, rec.statusCode, time.Since(start))
		})
	}
}

// RequireAuth rejects requests without a valid bearer access token and stores
// the resolved principal in the request context.
func RequireAuth(auth Authenticator, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, r, logger, apperrors.NotAuthenticated())
				return
			}
			p, err := auth.Principal(r.Context(), token)
			if err != nil {
				writeError(w, r, logger, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithPrincipal(r.Context(), p)))
		})
	}
}

// Guard enforces req against the principal in the request context. A denied
// request never reaches next; the denial is audited and counted.
func Guard(req rbac.Requirement, auditLogger audit.AuditLogger, m Metrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := rbac.Require(r.Context(), req); err != nil {
				if auditLogger != nil {
					userID := ""
					if p, ok := rbac.PrincipalFromContext(r.Context()); ok {
						userID = p.SubjectID
					}
					auditLogger.LogEvent(r.Context(), userID, audit.ActionAccessDenied, r.Method+" "+r.URL.Path, err.Error())
				}
				if m != nil {
					m.RecordAccessDenied(string(apperrors.GetCode(err)))
				}
				writeError(w, r, nil, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken returns the Bearer token of the Authorization header, or "".
func bearerToken(r *http.Request) string {
	return security.BearerToken(r.Header.Get("Authorization"))
}
