package ports

import (
	"context"
	"time"
)

// Port: revoked token ids, kept until the token would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
