package auth

import (
	"time"

	"github.com/okian/clubrank/internal/adapters/session"
	"github.com/okian/clubrank/pkg/logger"
)

// Option applies a configuration option to the Authenticator.
type Option func(*Authenticator)

// WithRevoker sets where signed-out tokens are recorded.
func WithRevoker(r session.Revoker) Option {
	return func(a *Authenticator) {
		if r != nil {
			a.revoker = r
		}
	}
}

// WithTTL sets the lifetime of issued tokens.
func WithTTL(ttl time.Duration) Option {
	return func(a *Authenticator) {
		if ttl > 0 {
			a.ttl = ttl
		}
	}
}

// WithClock overrides the clock used to issue and check tokens.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithLogger sets the authenticator logger.
func WithLogger(l logger.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}
