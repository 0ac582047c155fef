package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/clubrank/internal/domain/model"
	"github.com/okian/clubrank/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run signs in, creates the demo club, fetches the season ranking and verifies it.
func Run(ctx context.Context, cfg Config, log logger.Logger) (Report, error) {
	cfg = cfg.withDefaults()
	start := time.Now()
	report := Report{}

	log.Info(ctx, "seeding club",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("season", cfg.Season),
		logger.Int("shooters", cfg.Shooters),
		logger.Int("workers", cfg.Workers),
	)

	c := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := c.Login(ctx, cfg.Email, cfg.Password); err != nil {
		return report, fmt.Errorf("sign in: %w", err)
	}
	defer func() {
		if err := c.Logout(context.WithoutCancel(ctx)); err != nil {
			log.Warn(ctx, "sign out failed", logger.Error(err))
		}
	}()

	plan := NewPlan(cfg.Season, cfg.Shooters)

	shooters := make([]model.Shooter, len(plan.Shooters))
	for i, in := range plan.Shooters {
		sh, err := c.CreateShooter(ctx, in)
		if err != nil {
			return report, fmt.Errorf("create shooter %q: %w", in.Name, err)
		}
		shooters[i] = sh
	}
	report.Shooters = len(shooters)

	events := make([]model.Event, len(plan.Events))
	for j, in := range plan.Events {
		ev, err := c.CreateEvent(ctx, in)
		if err != nil {
			return report, fmt.Errorf("create event %q: %w", in.Name, err)
		}
		events[j] = ev
	}
	report.Events = len(events)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, row := range plan.Hits {
		for j, hits := range row {
			if hits < 0 {
				continue
			}
			in := model.ResultInput{EventID: events[j].ID, ShooterID: shooters[i].ID, TargetsHit: hits}
			g.Go(func() error {
				if _, err := c.CreateResult(gctx, in); err != nil {
					return fmt.Errorf("record %s at %s: %w", shooters[i].Name, events[j].Name, err)
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Results = plan.Results()
	log.Info(ctx, "club seeded",
		logger.Int("shooters", report.Shooters),
		logger.Int("events", report.Events),
		logger.Int("results", report.Results),
	)

	st, err := c.Ranking(ctx, cfg.Season)
	if err != nil {
		return report, fmt.Errorf("fetch ranking: %w", err)
	}
	if err := Verify(st); err != nil {
		return report, err
	}
	report.Qualified = st.Qualified
	report.Duration = time.Since(start)
	log.Info(ctx, "ranking verified",
		logger.Int("rows", len(st.Rows)),
		logger.Int("qualified", st.Qualified),
		logger.Duration("duration", report.Duration),
	)
	return report, nil
}
