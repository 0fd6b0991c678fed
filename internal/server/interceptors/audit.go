package interceptors

import (
	"context"
	"net"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"hotel-booking-account/backend/internal/audit"
	"hotel-booking-account/backend/internal/platform/rbac"
)

// AuditUnary records one audit entry per RPC made by an authenticated
// principal, after the handler returns. Methods in skipMethods are not audited.
func AuditUnary(auditLogger audit.AuditLogger, skipMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if auditLogger == nil || skipMethods[info.FullMethod] {
			return resp, err
		}
		if p, ok := rbac.PrincipalFromContext(ctx); ok {
			ar := audit.ParseFullMethod(info.FullMethod)
			auditLogger.LogEvent(ctx, p.SubjectID, ar.Action, ar.Resource, "status="+status.Code(err).String())
		}
		return resp, err
	}
}

// ClientIP returns the caller's address: the transport peer, or the address
// named by x-forwarded-for (then x-real-ip) when the peer is one of trusted.
// It is "unknown" without a peer.
func ClientIP(ctx context.Context, trusted *audit.TrustedProxies) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "unknown"
	}
	host := p.Addr.String()
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	md, _ := metadata.FromIncomingContext(ctx)
	return trusted.Resolve(host, strings.Join(md.Get("x-forwarded-for"), ","), firstValue(md, "x-real-ip"))
}

func firstValue(md metadata.MD, key string) string {
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}
