package service

import (
	"context"
	"slices"
	"time"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/domain/types"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/okian/clubrank/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Ranking fetches a fresh snapshot and computes the standings for season,
// or for every season when season is ranking.AllSeasons.
func (s *Service) Ranking(ctx context.Context, season int) (ranking.Standings, error) {
	store, err := s.ready()
	if err != nil {
		return ranking.Standings{}, err
	}
	start := time.Now()

	var snap ranking.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Shooters, err = store.ListShooters(gctx, true)
		return err
	})
	g.Go(func() error {
		var err error
		if season == ranking.AllSeasons {
			snap.Events, err = store.ListEvents(gctx)
		} else {
			snap.Events, err = store.ListEventsBySeason(gctx, season)
		}
		return err
	})
	g.Go(func() error {
		var err error
		snap.Results, err = store.ListResults(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error(ctx, "ranking snapshot failed", logger.Int("season", season), logger.Error(err))
		return ranking.Standings{}, err
	}

	st := ranking.NewStandings(season, ranking.Generate(snap, season))

	metrics.RecordRankingComputation(season, float64(time.Since(start).Microseconds())/1000)
	metrics.UpdateRankingSize(season, len(st.Rows), st.Qualified)
	s.logger.Debug(ctx, "ranking computed",
		logger.Int("season", season),
		logger.Int("entries", len(st.Rows)),
		logger.Int("qualified", st.Qualified),
	)
	return st, nil
}

// Seasons lists the seasons that have events, newest first, always
// including the current one.
func (s *Service) Seasons(ctx context.Context) (types.Seasons, error) {
	store, err := s.ready()
	if err != nil {
		return types.Seasons{}, err
	}
	events, err := store.ListEvents(ctx)
	if err != nil {
		return types.Seasons{}, err
	}
	current := s.CurrentSeason()
	return types.Seasons{Current: current, Seasons: distinctSeasons(events, current)}, nil
}

func distinctSeasons(events []model.Event, current int) []int {
	seen := map[int]struct{}{current: {}}
	out := []int{current}
	for _, e := range events {
		if _, ok := seen[e.Season]; !ok {
			seen[e.Season] = struct{}{}
			out = append(out, e.Season)
		}
	}
	slices.Sort(out)
	slices.Reverse(out)
	return out
}
