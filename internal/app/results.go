package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/clubrank/internal/adapters/repository"
	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/scoring"
	"github.com/okian/clubrank/pkg/logger"
)

// ResultFilter narrows ListResults. Empty fields match everything.
type ResultFilter struct {
	EventID   string
	ShooterID string
}

// CreateResult records a shooter's score at an event. The derived
// effectiveness values are always computed here, against an event that
// cannot change until the result is stored.
func (s *Service) CreateResult(ctx context.Context, in model.ResultInput) (model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	if err := model.Validate(in); err != nil {
		return model.Result{}, err
	}
	unlock := s.events.RLock(in.EventID)
	defer unlock()

	ev, err := s.resolveRefs(ctx, store, in.EventID, in.ShooterID, in.TargetsHit)
	if err != nil {
		return model.Result{}, err
	}

	key := model.PairKey(in.EventID, in.ShooterID)
	release, err := s.claimPair(ctx, key)
	if err != nil {
		return model.Result{}, err
	}
	defer release()

	if err := s.ensurePairFree(ctx, store, in.EventID, in.ShooterID, ""); err != nil {
		return model.Result{}, err
	}

	r := scoring.Recompute(model.Result{EventID: in.EventID, ShooterID: in.ShooterID, TargetsHit: in.TargetsHit}, ev)
	created, err := store.CreateResult(ctx, r)
	if err != nil {
		return model.Result{}, fmt.Errorf("create result: %w", err)
	}
	s.logger.Info(ctx, "result recorded",
		logger.String("id", created.ID),
		logger.String("event", created.EventID),
		logger.String("shooter", created.ShooterID),
		logger.Float64("effectiveness", created.Effectiveness),
	)
	return created, nil
}

// GetResult returns one result.
func (s *Service) GetResult(ctx context.Context, id string) (model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	return store.GetResult(ctx, id)
}

// ListResults returns results in creation order.
func (s *Service) ListResults(ctx context.Context, f ResultFilter) ([]model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	switch {
	case f.EventID != "":
		results, err := store.ListResultsByEvent(ctx, f.EventID)
		if err != nil || f.ShooterID == "" {
			return results, err
		}
		out := results[:0]
		for _, r := range results {
			if r.ShooterID == f.ShooterID {
				out = append(out, r)
			}
		}
		return out, nil
	case f.ShooterID != "":
		return store.ListResultsByShooter(ctx, f.ShooterID)
	default:
		return store.ListResults(ctx)
	}
}

// UpdateResult applies a patch to a result and rescores it against its
// (possibly new) event.
func (s *Service) UpdateResult(ctx context.Context, id string, patch model.ResultPatch) (model.Result, error) {
	store, err := s.ready()
	if err != nil {
		return model.Result{}, err
	}
	if err := model.Validate(patch); err != nil {
		return model.Result{}, err
	}
	cur, err := store.GetResult(ctx, id)
	if err != nil {
		return model.Result{}, err
	}
	next := patch.Apply(cur)
	unlock := s.events.RLock(cur.EventID, next.EventID)
	defer unlock()

	ev, err := s.resolveRefs(ctx, store, next.EventID, next.ShooterID, next.TargetsHit)
	if err != nil {
		return model.Result{}, err
	}

	if next.PairKey() != cur.PairKey() {
		release, err := s.claimPair(ctx, next.PairKey())
		if err != nil {
			return model.Result{}, err
		}
		defer release()
		if err := s.ensurePairFree(ctx, store, next.EventID, next.ShooterID, id); err != nil {
			return model.Result{}, err
		}
	}

	updated, err := store.UpdateResult(ctx, scoring.Recompute(next, ev))
	if err != nil {
		return model.Result{}, fmt.Errorf("update result: %w", err)
	}
	return updated, nil
}

// DeleteResult removes one result.
func (s *Service) DeleteResult(ctx context.Context, id string) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	if err := store.DeleteResult(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "result deleted", logger.String("id", id))
	return nil
}

// AvailableShooters lists the active shooters that have no result at the event yet.
func (s *Service) AvailableShooters(ctx context.Context, eventID string) ([]model.Shooter, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	if _, err := store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	shooters, err := store.ListShooters(ctx, true)
	if err != nil {
		return nil, err
	}
	results, err := store.ListResultsByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(results))
	for _, r := range results {
		taken[r.ShooterID] = struct{}{}
	}
	out := make([]model.Shooter, 0, len(shooters))
	for _, sh := range shooters {
		if _, ok := taken[sh.ID]; !ok {
			out = append(out, sh)
		}
	}
	return out, nil
}

// resolveRefs checks that the event and shooter exist and the hit count fits the event.
func (s *Service) resolveRefs(ctx context.Context, store repository.Store, eventID, shooterID string, hits int) (model.Event, error) {
	ev, err := store.GetEvent(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Event{}, model.Invalid("event_id", "exists")
	}
	if err != nil {
		return model.Event{}, err
	}
	if _, err := store.GetShooter(ctx, shooterID); errors.Is(err, repository.ErrNotFound) {
		return model.Event{}, model.Invalid("shooter_id", "exists")
	} else if err != nil {
		return model.Event{}, err
	}
	if hits > ev.TotalTargets {
		return model.Event{}, model.Invalid("targets_hit", "ltefield=total_targets")
	}
	return ev, nil
}

// claimPair serialises concurrent writes for one (event, shooter) pair.
func (s *Service) claimPair(ctx context.Context, key string) (func(), error) {
	if !s.guard.Claim(ctx, key) {
		return nil, fmt.Errorf("%w: a result for %s is being recorded", repository.ErrConflict, key)
	}
	return func() { s.guard.Release(ctx, key) }, nil
}

// ensurePairFree reports ErrConflict if a result other than exceptID holds the pair.
func (s *Service) ensurePairFree(ctx context.Context, store repository.Store, eventID, shooterID, exceptID string) error {
	existing, err := store.ListResultsByEvent(ctx, eventID)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.ShooterID == shooterID && r.ID != exceptID {
			return fmt.Errorf("%w: shooter %s already has a result for event %s", repository.ErrConflict, shooterID, eventID)
		}
	}
	return nil
}
