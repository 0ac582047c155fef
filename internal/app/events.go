package service

import (
	"context"
	"fmt"

	"github.com/okian/clubrank/internal/adapters/repository"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/scoring"
	"github.com/okian/clubrank/pkg/logger"
)

// CreateEvent validates and stores a new event.
func (s *Service) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	store, err := s.ready()
	if err != nil {
		return model.Event{}, err
	}
	in.Normalize()
	if err := model.Validate(in); err != nil {
		return model.Event{}, err
	}
	ev, err := store.CreateEvent(ctx, model.Event{
		Name:         in.Name,
		Date:         in.Date,
		Type:         in.Type,
		TotalTargets: in.TotalTargets,
		Season:       in.Season,
	})
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info(ctx, "event created",
		logger.String("id", ev.ID),
		logger.String("type", string(ev.Type)),
		logger.Int("season", ev.Season),
	)
	return ev, nil
}

// GetEvent returns one event.
func (s *Service) GetEvent(ctx context.Context, id string) (model.Event, error) {
	store, err := s.ready()
	if err != nil {
		return model.Event{}, err
	}
	return store.GetEvent(ctx, id)
}

// ListEvents returns events ordered by date, limited to season unless it is 0.
func (s *Service) ListEvents(ctx context.Context, season int) ([]model.Event, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if season == 0 {
		return store.ListEvents(ctx)
	}
	return store.ListEventsBySeason(ctx, season)
}

// UpdateEvent applies a patch to an event. When the type or target count
// changes, every result of the event is rescored in the same store
// transaction. A target count below an existing hit count is rejected with
// ErrConflict. Result writes for the event wait until the update is done.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	store, err := s.ready()
	if err != nil {
		return model.Event{}, err
	}
	if err := model.Validate(patch); err != nil {
		return model.Event{}, err
	}
	unlock := s.events.Lock(id)
	defer unlock()

	cur, err := store.GetEvent(ctx, id)
	if err != nil {
		return model.Event{}, err
	}
	next := patch.Apply(cur)
	if next.Name == "" {
		return model.Event{}, model.Invalid("name", "required")
	}

	if !patch.AffectsScoring(cur) {
		updated, err := store.UpdateEvent(ctx, next)
		if err != nil {
			return model.Event{}, fmt.Errorf("update event: %w", err)
		}
		return updated, nil
	}

	results, err := store.ListResultsByEvent(ctx, id)
	if err != nil {
		return model.Event{}, fmt.Errorf("load event results: %w", err)
	}
	for _, r := range results {
		if r.TargetsHit > next.TotalTargets {
			return model.Event{}, fmt.Errorf("%w: result %s has %d hits, more than %d targets",
				repository.ErrConflict, r.ID, r.TargetsHit, next.TotalTargets)
		}
	}

	for i, r := range results {
		results[i] = scoring.Recompute(r, next)
	}
	updated, err := store.RescoreEvent(ctx, next, results)
	if err != nil {
		return model.Event{}, fmt.Errorf("rescore event: %w", err)
	}
	s.logger.Info(ctx, "event rescored", logger.String("id", id), logger.Int("results", len(results)))
	return updated, nil
}

// DeleteEvent removes an event together with all of its results.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	unlock := s.events.Lock(id)
	defer unlock()

	if _, err := store.GetEvent(ctx, id); err != nil {
		return err
	}
	n, err := store.DeleteResultsByEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event results: %w", err)
	}
	if err := store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info(ctx, "event deleted", logger.String("id", id), logger.Int("results", n))
	return nil
}
