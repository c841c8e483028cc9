package revocation

import (
	"context"
	"time"
)

// Store keeps the ids of tokens that were logged out before they expired
type Store interface {
	// Revoke marks id as revoked until the given instant. Past instants are a no-op.
	Revoke(ctx context.Context, id string, until time.Time) error
	// IsRevoked reports whether id is currently revoked
	IsRevoked(ctx context.Context, id string) (bool, error)
	Close() error
}
