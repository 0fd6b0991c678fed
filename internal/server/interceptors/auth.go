package interceptors

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	identitydomain "hotel-booking-account/backend/internal/identity/domain"
	apperrors "hotel-booking-account/backend/internal/platform/errors"
	"hotel-booking-account/backend/internal/platform/rbac"
	"hotel-booking-account/backend/internal/security"
)

// Authenticator turns a bearer access token into a principal.
type Authenticator interface {
	Principal(ctx context.Context, accessToken string) (*identitydomain.Principal, error)
}

// AuthUnary resolves the bearer token in the authorization metadata and
// attaches the principal to the context. Methods in public run without a
// token; a token that fails to resolve on a public method is ignored.
func AuthUnary(auth Authenticator, public map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		open := public[info.FullMethod]
		token := extractBearer(ctx)
		if token == "" {
			if open {
				return handler(ctx, req)
			}
			return nil, apperrors.HandleError(apperrors.NotAuthenticated())
		}

		p, err := auth.Principal(ctx, token)
		switch {
		case err == nil:
			return handler(rbac.WithPrincipal(ctx, p), req)
		case open:
			return handler(ctx, req)
		default:
			return nil, apperrors.HandleError(err)
		}
	}
}

func extractBearer(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	return security.BearerToken(firstValue(md, "authorization"))
}
