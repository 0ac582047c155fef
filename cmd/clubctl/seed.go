package main

import (
	"fmt"
	"os"
	"time"

	"github.com/okian/clubrank/internal/seed"
	"github.com/okian/clubrank/pkg/logger"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	cfg := seed.Config{}
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo club and verify its ranking",
		Long: `Signs in as the admin, creates demo shooters, official and internal events and
their results for one season, then fetches /ranking and checks that qualifiers
come first, weighted averages never increase and ranks run 1..n.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initLogging(); err != nil {
				return err
			}
			cfg.BaseURL = baseURL
			cfg.Timeout = timeout
			if cfg.Password == "" {
				cfg.Password = os.Getenv("CLUB_ADMIN_PASSWORD")
			}
			report, err := seed.Run(cmd.Context(), cfg, logger.Named("seed"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"seeded %d shooters, %d events, %d results; %d qualified (%s)\n",
				report.Shooters, report.Events, report.Results, report.Qualified,
				report.Duration.Round(time.Millisecond))
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.Email, "email", os.Getenv("CLUB_ADMIN_EMAIL"), "Admin email")
	cmd.Flags().StringVar(&cfg.Password, "password", "", "Admin password (default $CLUB_ADMIN_PASSWORD)")
	cmd.Flags().IntVar(&cfg.Season, "season", time.Now().Year(), "Season to date the demo events in")
	cmd.Flags().IntVar(&cfg.Shooters, "shooters", seed.DefaultShooters, "Number of demo shooters")
	cmd.Flags().IntVar(&cfg.Workers, "workers", seed.DefaultWorkers, "Concurrent result submissions")
	return cmd
}

func initLogging() error {
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		return err
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}
