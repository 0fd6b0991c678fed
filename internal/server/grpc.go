// Package server assembles the gRPC surface of the account service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"hotel-booking-account/backend/internal/audit"
	healthhandler "hotel-booking-account/backend/internal/health/handler"
	"hotel-booking-account/backend/internal/platform/rbac"
	roledomain "hotel-booking-account/backend/internal/role/domain"
	"hotel-booking-account/backend/internal/server/interceptors"
)

// Health service methods.
const (
	HealthCheckMethod = "/grpc.health.v1.Health/Check"
	HealthWatchMethod = "/grpc.health.v1.Health/Watch"
	HealthListMethod  = "/grpc.health.v1.Health/List"
)

// Deps holds the dependencies of the gRPC server.
type Deps struct {
	// Authenticator resolves bearer tokens from the authorization metadata.
	Authenticator interceptors.Authenticator
	// Requirements maps full method names to their guard. Nil uses DefaultRequirements.
	Requirements map[string]rbac.Requirement
	// Audit receives access denials and authenticated RPCs. May be nil.
	Audit audit.AuditLogger
	// Health backs grpc.health.v1.Health. Required.
	Health *healthhandler.Server
	// TrustedProxies may name the client through x-forwarded-for. May be nil.
	TrustedProxies *audit.TrustedProxies
	Logger         *slog.Logger
}

// PublicMethods are served without a bearer token.
func PublicMethods() map[string]bool {
	return map[string]bool{
		HealthCheckMethod: true,
		HealthWatchMethod: true,
	}
}

// DefaultRequirements guards the operator-only health listing.
func DefaultRequirements() map[string]rbac.Requirement {
	return map[string]rbac.Requirement{
		HealthListMethod: rbac.AnyPermission(roledomain.ManageSystem, roledomain.ViewLogs),
	}
}

// NewGRPCServer returns a gRPC server with the health service registered and
// the interceptor chain logging → auth → guard → audit installed.
func NewGRPCServer(deps Deps, opts ...grpc.ServerOption) (*grpc.Server, error) {
	if deps.Health == nil {
		return nil, errors.New("server: health server is required")
	}
	if deps.Authenticator == nil {
		return nil, errors.New("server: authenticator is required")
	}
	requirements := deps.Requirements
	if requirements == nil {
		requirements = DefaultRequirements()
	}
	public := PublicMethods()

	opts = append([]grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.LoggingUnary(deps.Logger, deps.TrustedProxies, map[string]bool{HealthCheckMethod: true}),
			interceptors.AuthUnary(deps.Authenticator, public),
			interceptors.GuardUnary(requirements, deps.Audit),
			interceptors.AuditUnary(deps.Audit, public),
		),
	}, opts...)

	s := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(s, deps.Health.GRPC())
	return s, nil
}

// Serve runs s on lis until ctx is canceled, then stops gracefully.
func Serve(ctx context.Context, s *grpc.Server, lis net.Listener) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		s.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)
	}
}
