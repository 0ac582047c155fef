package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/clubrank/internal/domain/ranking"
	"github.com/okian/clubrank/internal/seed"
	"github.com/spf13/cobra"
)

func newRankingCmd() *cobra.Command {
	var season string
	cmd := &cobra.Command{
		Use:   "ranking",
		Short: "Print the standings for a season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := parseSeasonFlag(season)
			if err != nil {
				return err
			}
			st, err := seed.NewClient(baseURL, timeout).Ranking(cmd.Context(), s)
			if err != nil {
				return err
			}
			return printStandings(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().StringVar(&season, "season", strconv.Itoa(time.Now().Year()), `Season year, or "all"`)
	return cmd
}

func parseSeasonFlag(raw string) (int, error) {
	if strings.EqualFold(raw, "all") {
		return ranking.AllSeasons, nil
	}
	s, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("season must be a year or \"all\": %w", err)
	}
	return s, nil
}

func printStandings(w io.Writer, st ranking.Standings) error {
	title := "all seasons"
	if st.Season != ranking.AllSeasons {
		title = "season " + strconv.Itoa(st.Season)
	}
	if _, err := fmt.Fprintf(w, "Ranking, %s: %d of %d qualified\n\n", title, st.Qualified, len(st.Rows)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tSHOOTER\tEVENTS\tOFFICIAL\tAVG %\tWEIGHTED %\tCATEGORY")
	for _, row := range st.Rows {
		rank := "-"
		if row.Rank > 0 {
			rank = strconv.Itoa(row.Rank)
		}
		name := row.Shooter.Name
		if row.Leader {
			name += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.2f\t%s\n",
			rank, name, row.TotalEvents, row.OfficialEvents,
			row.AverageEffectiveness, row.WeightedAverage, row.Category)
	}
	return tw.Flush()
}
