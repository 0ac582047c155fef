// Package repository persists shooters, events and results.
package repository

import (
	"context"

	"github.com/okian/clubrank/internal/domain/model"
)

// ShooterStore persists shooters.
type ShooterStore interface {
	// CreateShooter assigns ID and CreatedAt and stores the shooter.
	CreateShooter(ctx context.Context, s model.Shooter) (model.Shooter, error)
	// GetShooter returns ErrNotFound for an unknown id.
	GetShooter(ctx context.Context, id string) (model.Shooter, error)
	// ListShooters returns shooters ordered by name.
	ListShooters(ctx context.Context, activeOnly bool) ([]model.Shooter, error)
	UpdateShooter(ctx context.Context, s model.Shooter) (model.Shooter, error)
	DeleteShooter(ctx context.Context, id string) error
}

// EventStore persists events.
type EventStore interface {
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	GetEvent(ctx context.Context, id string) (model.Event, error)
	// ListEvents returns all events ordered by date.
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListEventsBySeason(ctx context.Context, season int) ([]model.Event, error)
	UpdateEvent(ctx context.Context, e model.Event) (model.Event, error)
	// RescoreEvent writes e and the derived effectiveness of each result in
	// one transaction. A missing result fails the call with ErrNotFound and a
	// result of another event with ErrConflict; either way nothing is written.
	RescoreEvent(ctx context.Context, e model.Event, results []model.Result) (model.Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// ResultStore persists results. At most one result exists per (event, shooter)
// pair; a second one is rejected with ErrConflict.
type ResultStore interface {
	CreateResult(ctx context.Context, r model.Result) (model.Result, error)
	GetResult(ctx context.Context, id string) (model.Result, error)
	// ListResults returns all results in creation order.
	ListResults(ctx context.Context) ([]model.Result, error)
	ListResultsByEvent(ctx context.Context, eventID string) ([]model.Result, error)
	ListResultsByShooter(ctx context.Context, shooterID string) ([]model.Result, error)
	UpdateResult(ctx context.Context, r model.Result) (model.Result, error)
	DeleteResult(ctx context.Context, id string) error
	// DeleteResultsByEvent and DeleteResultsByShooter return the number removed.
	DeleteResultsByEvent(ctx context.Context, eventID string) (int, error)
	DeleteResultsByShooter(ctx context.Context, shooterID string) (int, error)
}

// Store is the full persistence surface.
type Store interface {
	ShooterStore
	EventStore
	ResultStore

	// Driver names the backing implementation.
	Driver() string
	Close() error
}
