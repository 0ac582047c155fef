package service

import (
	"context"
	"fmt"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/pkg/logger"
)

// CreateShooter validates and stores a new shooter. Shooters start active
// unless the input says otherwise.
func (s *Service) CreateShooter(ctx context.Context, in model.ShooterInput) (model.Shooter, error) {
	store, err := s.ready()
	if err != nil {
		return model.Shooter{}, err
	}
	in.Normalize()
	if err := model.Validate(in); err != nil {
		return model.Shooter{}, err
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}
	sh, err := store.CreateShooter(ctx, model.Shooter{Name: in.Name, Email: in.Email, Active: active})
	if err != nil {
		return model.Shooter{}, fmt.Errorf("create shooter: %w", err)
	}
	s.logger.Info(ctx, "shooter created", logger.String("id", sh.ID), logger.String("name", sh.Name))
	return sh, nil
}

// GetShooter returns one shooter.
func (s *Service) GetShooter(ctx context.Context, id string) (model.Shooter, error) {
	store, err := s.ready()
	if err != nil {
		return model.Shooter{}, err
	}
	return store.GetShooter(ctx, id)
}

// ListShooters returns shooters ordered by name.
func (s *Service) ListShooters(ctx context.Context, activeOnly bool) ([]model.Shooter, error) {
	store, err := s.ready()
	if err != nil {
		return nil, err
	}
	return store.ListShooters(ctx, activeOnly)
}

// UpdateShooter applies a patch to a shooter.
func (s *Service) UpdateShooter(ctx context.Context, id string, patch model.ShooterPatch) (model.Shooter, error) {
	store, err := s.ready()
	if err != nil {
		return model.Shooter{}, err
	}
	if err := model.Validate(patch); err != nil {
		return model.Shooter{}, err
	}
	cur, err := store.GetShooter(ctx, id)
	if err != nil {
		return model.Shooter{}, err
	}
	next := patch.Apply(cur)
	if next.Name == "" {
		return model.Shooter{}, model.Invalid("name", "required")
	}
	updated, err := store.UpdateShooter(ctx, next)
	if err != nil {
		return model.Shooter{}, fmt.Errorf("update shooter: %w", err)
	}
	return updated, nil
}

// DeactivateShooter removes a shooter from rankings while keeping their results.
func (s *Service) DeactivateShooter(ctx context.Context, id string) (model.Shooter, error) {
	inactive := false
	sh, err := s.UpdateShooter(ctx, id, model.ShooterPatch{Active: &inactive})
	if err != nil {
		return model.Shooter{}, err
	}
	s.logger.Info(ctx, "shooter deactivated", logger.String("id", id))
	return sh, nil
}

// DeleteShooter removes a shooter together with all of their results.
func (s *Service) DeleteShooter(ctx context.Context, id string) error {
	store, err := s.ready()
	if err != nil {
		return err
	}
	if _, err := store.GetShooter(ctx, id); err != nil {
		return err
	}
	n, err := store.DeleteResultsByShooter(ctx, id)
	if err != nil {
		return fmt.Errorf("delete shooter results: %w", err)
	}
	if err := store.DeleteShooter(ctx, id); err != nil {
		return fmt.Errorf("delete shooter: %w", err)
	}
	s.logger.Info(ctx, "shooter deleted", logger.String("id", id), logger.Int("results", n))
	return nil
}
