// Package handler reports service readiness over the standard gRPC health
// protocol and to the HTTP health endpoint.
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name reported alongside the overall "" entry.
const ServiceName = "hotelbooking.account.v1.AccountService"

// Pinger checks database connectivity (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PolicyChecker checks that the policy engine can evaluate (e.g. the OPA catalog).
type PolicyChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server tracks readiness and publishes it through a grpc health server.
type Server struct {
	db     Pinger
	policy PolicyChecker
	grpc   *health.Server
	logger *slog.Logger
}

// NewServer returns a Server. Either dependency may be nil; then it is skipped.
func NewServer(db Pinger, policy PolicyChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		db:     db,
		policy: policy,
		grpc:   health.NewServer(),
		logger: logger,
	}
}

// GRPC returns the health server to register on a grpc.Server.
func (s *Server) GRPC() *health.Server {
	return s.grpc
}

// Check returns nil when every configured dependency is reachable.
func (s *Server) Check(ctx context.Context) error {
	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if s.policy != nil {
		if err := s.policy.HealthCheck(ctx); err != nil {
			return fmt.Errorf("policy engine: %w", err)
		}
	}
	return nil
}

// Update runs Check and publishes the result.
func (s *Server) Update(ctx context.Context) error {
	err := s.Check(ctx)
	st := healthpb.HealthCheckResponse_SERVING
	if err != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.WarnContext(ctx, "health: not ready", slog.Any("error", err))
	}
	s.grpc.SetServingStatus("", st)
	s.grpc.SetServingStatus(ServiceName, st)
	return err
}

// Run calls Update every interval until ctx is done, then marks the service
// as not serving.
func (s *Server) Run(ctx context.Context, interval time.Duration) {
	_ = s.Update(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.grpc.Shutdown()
			return
		case <-ticker.C:
			_ = s.Update(ctx)
		}
	}
}
