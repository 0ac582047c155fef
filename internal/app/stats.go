package service

import (
	"context"
	"time"

	"github.com/okian/clubrank/internal/domain/types"
)

// GetStats returns record counts and runtime information.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	store, err := s.ready()
	if err != nil {
		return types.Stats{}, err
	}
	shooters, err := store.ListShooters(ctx, false)
	if err != nil {
		return types.Stats{}, err
	}
	events, err := store.ListEvents(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	results, err := store.ListResults(ctx)
	if err != nil {
		return types.Stats{}, err
	}

	active := 0
	for _, sh := range shooters {
		if sh.Active {
			active++
		}
	}
	refreshCounts(len(shooters), len(events), len(results))

	s.mu.RLock()
	uptime := s.now().Sub(s.startedAt).Truncate(time.Second)
	s.mu.RUnlock()

	return types.Stats{
		Shooters:       len(shooters),
		ActiveShooters: active,
		Events:         len(events),
		Results:        len(results),
		CurrentSeason:  s.CurrentSeason(),
		StorageDriver:  store.Driver(),
		Uptime:         uptime.String(),
		WritesInFlight: s.guard.Size(),
	}, nil
}
