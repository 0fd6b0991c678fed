package repository

import (
	"context"
	"log/slog"
	"time"
)

// Store is the refresh token lifecycle. Unknown, revoked and expired tokens
// fail Validate and Consume with a RefreshTokenInvalid error.
type Store interface {
	// Issue creates and records a new opaque token for subjectID.
	Issue(ctx context.Context, subjectID string) (string, error)
	// Validate returns the subject of a live token without changing it.
	Validate(ctx context.Context, token string) (string, error)
	// Consume atomically validates and revokes token; of two concurrent
	// calls with the same token at most one succeeds.
	Consume(ctx context.Context, token string) (string, error)
	// Revoke deletes token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
	// RevokeAllForSubject deletes every token of subjectID.
	RevokeAllForSubject(ctx context.Context, subjectID string) error
}

// Purger deletes expired records and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// RunPurger calls p.PurgeExpired every interval until ctx is done.
func RunPurger(ctx context.Context, p Purger, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PurgeExpired(ctx)
			if err != nil {
				logger.WarnContext(ctx, "refresh tokens: purge failed", slog.Any("error", err))
				continue
			}
			if n > 0 {
				logger.DebugContext(ctx, "refresh tokens: purged expired", slog.Int64("count", n))
			}
		}
	}
}
