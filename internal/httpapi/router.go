package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel-booking-account/backend/internal/audit"
	"hotel-booking-account/backend/internal/platform/rbac"
	roledomain "hotel-booking-account/backend/internal/role/domain"
)

// HealthChecker reports whether the service's dependencies are ready.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// RouterDeps holds the dependencies of NewRouter.
type RouterDeps struct {
	Auth          AuthService
	Authenticator Authenticator
	// Roles is nil when the permission catalog is not database backed; the
	// admin routes are then not mounted.
	Roles          RoleAdmin
	Audit          audit.AuditLogger
	Metrics        Metrics
	MetricsHandler http.Handler
	Health         HealthChecker
	RateLimiter    *RateLimiter
	// TrustedProxies may set the client IP through forwarding headers. Nil
	// keys everything on the connection's remote address.
	TrustedProxies *audit.TrustedProxies
	Logger         *slog.Logger
}

// NewRouter builds the HTTP surface. Middleware order:
//
//	Recovery → ClientIP → Logging → Instrument → route (RateLimit | RequireAuth → Guard)
func NewRouter(deps *RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(ClientIP(deps.TrustedProxies))
	r.Use(Logging(logger))
	if deps.Metrics != nil {
		r.Use(Instrument(deps.Metrics))
	}

	guard := func(req rbac.Requirement) func(http.Handler) http.Handler {
		return Guard(req, deps.Audit, deps.Metrics)
	}
	requireAuth := RequireAuth(deps.Authenticator, logger)
	limited := func(route string) func(http.Handler) http.Handler {
		if deps.RateLimiter == nil {
			return func(next http.Handler) http.Handler { return next }
		}
		return deps.RateLimiter.Middleware(route)
	}

	r.Get("/health", healthHandler(deps.Health, logger))
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.Auth, logger)
	r.Route("/auth", func(r chi.Router) {
		r.With(limited("/auth/login")).Post("/login", authHandler.Login)
		r.With(limited("/auth/refresh")).Post("/refresh", authHandler.Refresh)
		r.Post("/logout", authHandler.Logout)
		r.Get("/check", authHandler.Check)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/api/demo", func(r chi.Router) {
		r.Use(requireAuth)
		mountDemo(r, guard)
	})

	if deps.Roles != nil {
		roleHandler := NewRoleHandler(deps.Roles, logger)
		view := guard(rbac.AnyPermission(roledomain.ManageRoles, roledomain.ViewRoles))
		manage := guard(rbac.AnyPermission(roledomain.ManageRoles))
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.With(manage).Post("/roles", roleHandler.CreateRole)
			r.With(view).Get("/roles", roleHandler.ListRoles)
			r.With(view).Get("/permissions", roleHandler.ListPermissions)
			r.With(view).Get("/roles/{name}/permissions", roleHandler.RolePermissions)
			r.With(manage).Put("/roles/{name}/permissions", roleHandler.SetRolePermissions)
		})
	}

	return r
}

func healthHandler(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.Check(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "health check failed", slog.Any("error", err))
				writeJSON(w, http.StatusServiceUnavailable, Envelope{
					Message:    "not ready",
					Code:       "UNAVAILABLE",
					StatusCode: http.StatusServiceUnavailable,
				})
				return
			}
		}
		writeSuccess(w, http.StatusOK, "ok", map[string]string{"status": "UP"})
	}
}
