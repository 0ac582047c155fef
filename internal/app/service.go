// Package service implements the club operations behind the HTTP API:
// shooters, events, results, admin sessions and the season ranking.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/clubrank/internal/adapters/repository"
	"github.com/okian/clubrank/internal/auth"
	"github.com/okian/clubrank/internal/domain/dedupe"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/okian/clubrank/pkg/metrics"
)

// Service implements the API dependencies for the club.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	auth   *auth.Authenticator
	guard  dedupe.Guard
	events *dedupe.Locker

	now       func() time.Time
	startedAt time.Time
	started   bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the record store. Without one, Start opens a memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithAuthenticator sets the admin authenticator. Without one, sign-in is disabled.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(s *Service) {
		if a != nil {
			s.auth = a
		}
	}
}

// WithClock overrides the clock used for the current season and uptime.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		guard:  dedupe.NewInMemoryGuard(),
		events: dedupe.NewLocker(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service. It is safe to call more than once.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger.Named("store")))
		s.logger.Warn(ctx, "no store configured, records will not survive a restart")
	}
	if s.auth == nil {
		a, err := auth.New("", "", "")
		if err != nil {
			return fmt.Errorf("build authenticator: %w", err)
		}
		s.auth = a
	}
	if !s.auth.Enabled() {
		s.logger.Warn(ctx, "no admin account configured, mutations are locked")
	}

	s.startedAt = s.now()
	s.started = true
	s.logger.Info(ctx, "club service started",
		logger.String("store", s.store.Driver()),
		logger.Int("season", s.CurrentSeason()),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "club service stopped")
}

// ready returns the store once the service is started.
func (s *Service) ready() (repository.Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.store, nil
}

// CurrentSeason is the calendar year of the service clock.
func (s *Service) CurrentSeason() int {
	return s.now().Year()
}

// refreshCounts publishes record counts for the stats gauges.
func refreshCounts(shooters, events, results int) {
	metrics.UpdateRecordCount("shooters", shooters)
	metrics.UpdateRecordCount("events", events)
	metrics.UpdateRecordCount("results", results)
}
