package interceptors

import (
	"context"

	"google.golang.org/grpc"

	"hotel-booking-account/backend/internal/audit"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/platform/rbac"
)

// GuardUnary returns a unary server interceptor that enforces the requirement
// registered for each full method before the handler runs. Methods without a
// requirement pass through. Denials are audited when auditLogger is non-nil.
func GuardUnary(requirements map[string]rbac.Requirement, auditLogger audit.AuditLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requirement, ok := requirements[info.FullMethod]
		if !ok {
			return handler(ctx, req)
		}
		if _, err := rbac.Require(ctx, requirement); err != nil {
			if auditLogger != nil {
				userID := ""
				if p, ok := rbac.PrincipalFromContext(ctx); ok {
					userID = p.SubjectID
				}
				auditLogger.LogEvent(ctx, userID, audit.ActionAccessDenied, info.FullMethod, err.Error())
			}
			return nil, apperrors.HandleError(err)
		}
		return handler(ctx, req)
	}
}
