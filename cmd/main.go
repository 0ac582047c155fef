package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/clubrank/internal/adapters/http/api"
	"github.com/okian/clubrank/internal/adapters/http/swagger"
	"github.com/okian/clubrank/internal/adapters/repository"
	"github.com/okian/clubrank/internal/adapters/session"
	app "github.com/okian/clubrank/internal/app"
	"github.com/okian/clubrank/internal/auth"
	"github.com/okian/clubrank/internal/config"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/okian/clubrank/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 15 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal(ctx, "club service failed", logger.Error(err))
	}
}

// run wires the service and serves HTTP until ctx is cancelled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	go startSystemMetricsUpdater(ctx, metrics.RefreshInterval())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           a.handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// application is the wired process without its listener.
type application struct {
	handler http.Handler
	svc     *app.Service
	revoker session.Revoker
}

func (a *application) close() {
	a.svc.Stop()
	_ = a.revoker.Close()
}

// build opens the store and revoker, starts the service and registers routes.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*application, error) {
	store, err := repository.Open(ctx, cfg.StorageDriver, cfg.StorageTarget(),
		repository.WithLogger(log.Named("store")))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var revoker session.Revoker
	if cfg.RedisAddr != "" {
		revoker, err = session.NewRedisRevoker(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	} else {
		revoker = session.NewMemoryRevoker()
	}

	authenticator, err := auth.New(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret,
		auth.WithRevoker(revoker),
		auth.WithTTL(cfg.SessionTTL),
		auth.WithLogger(log.Named("auth")),
	)
	if err != nil {
		_ = store.Close()
		_ = revoker.Close()
		return nil, fmt.Errorf("configure auth: %w", err)
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStore(store),
		app.WithAuthenticator(authenticator),
	)
	if err := svc.Start(ctx); err != nil {
		_ = store.Close()
		_ = revoker.Close()
		return nil, fmt.Errorf("start service: %w", err)
	}

	// HTTP mux and routes.
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithRequestTimeout(cfg.RequestTimeout),
		api.WithLogger(log.Named("api")),
	).Register(ctx, mux)

	return &application{handler: mux, svc: svc, revoker: revoker}, nil
}

// startSystemMetricsUpdater samples system metrics every interval until ctx is cancelled.
func startSystemMetricsUpdater(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	updateSystemMetrics()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	var avgPauseMs float64
	if m.NumGC > 0 {
		avgPauseMs = float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
	}
	metrics.UpdateSystem(m.Alloc, runtime.NumGoroutine(), avgPauseMs)
}
