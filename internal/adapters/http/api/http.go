// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	service "github.com/okian/clubrank/internal/app"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/domain/types"
	"github.com/okian/clubrank/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SessionChecker

	SignIn(ctx context.Context, req types.LoginRequest) (types.Session, error)
	SignOut(ctx context.Context, token string) error
	Session(ctx context.Context, token string) (types.Session, error)

	CreateShooter(ctx context.Context, in model.ShooterInput) (model.Shooter, error)
	GetShooter(ctx context.Context, id string) (model.Shooter, error)
	ListShooters(ctx context.Context, activeOnly bool) ([]model.Shooter, error)
	UpdateShooter(ctx context.Context, id string, patch model.ShooterPatch) (model.Shooter, error)
	DeactivateShooter(ctx context.Context, id string) (model.Shooter, error)
	DeleteShooter(ctx context.Context, id string) error

	CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	ListEvents(ctx context.Context, season int) ([]model.Event, error)
	UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	AvailableShooters(ctx context.Context, eventID string) ([]model.Shooter, error)

	CreateResult(ctx context.Context, in model.ResultInput) (model.Result, error)
	GetResult(ctx context.Context, id string) (model.Result, error)
	ListResults(ctx context.Context, f service.ResultFilter) ([]model.Result, error)
	UpdateResult(ctx context.Context, id string, patch model.ResultPatch) (model.Result, error)
	DeleteResult(ctx context.Context, id string) error

	Ranking(ctx context.Context, season int) (ranking.Standings, error)
	Seasons(ctx context.Context) (types.Seasons, error)
	CurrentSeason() int

	GetStats(ctx context.Context) (types.Stats, error)
}

// Server wires HTTP routes for the club API.
type Server struct {
	deps    Dependencies
	timeout time.Duration
	log     logger.Logger

	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	authHandler     *AuthHandler
	shootersHandler *ShootersHandler
	eventsHandler   *EventsHandler
	resultsHandler  *ResultsHandler
	rankingHandler  *RankingHandler
}

// Option configures a Server.
type Option func(*Server)

// WithRequestTimeout bounds every request context. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithLogger sets the logger used for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, log: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	errs := errorWriter{log: s.log}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = &StatsHandler{deps: deps, errs: errs}
	s.authHandler = &AuthHandler{deps: deps, errs: errs}
	s.shootersHandler = &ShootersHandler{deps: deps, errs: errs}
	s.eventsHandler = &EventsHandler{deps: deps, errs: errs}
	s.resultsHandler = &ResultsHandler{deps: deps, errs: errs}
	s.rankingHandler = &RankingHandler{deps: deps, errs: errs}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(withTimeout(s.timeout, h), endpoint))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc { return RequireAdmin(s.deps, h) }

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /auth/login", "auth_login", s.authHandler.HandleLogin)
	route("POST /auth/logout", "auth_logout", admin(s.authHandler.HandleLogout))
	route("GET /auth/session", "auth_session", s.authHandler.HandleSession)

	sh := s.shootersHandler
	route("GET /shooters", "shooters", sh.HandleList)
	route("POST /shooters", "shooters", admin(sh.HandleCreate))
	route("GET /shooters/{id}", "shooter", sh.HandleGet)
	route("PUT /shooters/{id}", "shooter", admin(sh.HandleUpdate))
	route("DELETE /shooters/{id}", "shooter", admin(sh.HandleDelete))
	route("POST /shooters/{id}/deactivate", "shooter_deactivate", admin(sh.HandleDeactivate))

	ev := s.eventsHandler
	route("GET /events", "events", ev.HandleList)
	route("POST /events", "events", admin(ev.HandleCreate))
	route("GET /events/{id}", "event", ev.HandleGet)
	route("PUT /events/{id}", "event", admin(ev.HandleUpdate))
	route("DELETE /events/{id}", "event", admin(ev.HandleDelete))
	route("GET /events/{id}/available-shooters", "event_available_shooters", ev.HandleAvailableShooters)

	rs := s.resultsHandler
	route("GET /results", "results", rs.HandleList)
	route("POST /results", "results", admin(rs.HandleCreate))
	route("GET /results/{id}", "result", rs.HandleGet)
	route("PUT /results/{id}", "result", admin(rs.HandleUpdate))
	route("DELETE /results/{id}", "result", admin(rs.HandleDelete))

	route("GET /ranking", "ranking", s.rankingHandler.HandleRanking)
	route("GET /seasons", "seasons", s.rankingHandler.HandleSeasons)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// errorWriter maps service errors to HTTP responses.
type errorWriter struct {
	log logger.Logger
}

// write classifies err and renders it. Unclassified failures are logged and
// reported with a generic message.
func (e errorWriter) write(w http.ResponseWriter, r *http.Request, op string, err error) {
	var ve *model.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code:    "invalid_input",
			Message: ve.Error(),
			Fields:  ve.Fields,
		})
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", service.ErrInvalidCredentials)
	case errors.Is(err, ErrUnauthorized), errors.Is(err, service.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", Wrap(op, err))
	default:
		e.log.Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
