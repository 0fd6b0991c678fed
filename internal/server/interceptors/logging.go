package interceptors

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hotel-booking-account/backend/internal/audit"
)

// LoggingUnary returns a unary server interceptor that stores the client IP for
// audit entries and logs each RPC with its status code and duration.
// Forwarding metadata is honored only from trusted peers. skipMethods is the
// set of full method names not to log.
func LoggingUnary(logger *slog.Logger, trusted *audit.TrustedProxies, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		ip := ClientIP(ctx, trusted)
		resp, err := handler(audit.WithClientIP(ctx, ip), req)
		if skipMethods[info.FullMethod] {
			return resp, err
		}
		code := status.Code(err)
		level := slog.LevelInfo
		if code == codes.Internal || code == codes.Unknown {
			level = slog.LevelError
		}
		logger.Log(ctx, level, "grpc request",
			slog.String("method", info.FullMethod),
			slog.String("code", code.String()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.String("client_ip", ip))
		return resp, err
	}
}
