// Package session records revoked admin tokens until they expire.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrEmptyID is returned when a token id is blank.
var ErrEmptyID = errors.New("empty token id")

// Revoker remembers token ids that were signed out before their expiry.
type Revoker interface {
	// Revoke marks id as revoked until the given time. Past times are a no-op.
	Revoke(ctx context.Context, id string, until time.Time) error
	// IsRevoked reports whether id is currently revoked.
	IsRevoked(ctx context.Context, id string) (bool, error)
	Close() error
}
