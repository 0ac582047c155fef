package repository

import (
	"context"
	"fmt"
)

// Storage drivers.
const (
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open builds the Store for driver. target is the badger directory or the
// Postgres DSN; the memory driver ignores it.
func Open(ctx context.Context, driver, target string, opts ...Option) (Store, error) {
	switch driver {
	case DriverBadger:
		return OpenBadger(target, opts...)
	case DriverPostgres:
		return OpenPostgres(ctx, target, opts...)
	case DriverMemory:
		return NewMemoryStore(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
