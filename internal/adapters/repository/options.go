package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/okian/clubrank/pkg/logger"
)

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	newID  func() string
	now    func() time.Time
	logger logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{
		newID:  uuid.NewString,
		now:    time.Now,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithIDFunc overrides identity generation.
func WithIDFunc(fn func() string) Option {
	return func(s *settings) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
