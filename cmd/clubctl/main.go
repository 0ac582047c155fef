// Command clubctl is the operator tool for the club ranking service.
package main

import (
	"os"
	"time"

	"github.com/okian/clubrank/internal/seed"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
	verbose bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "clubctl",
		Short:        "Operate a club ranking service",
		Long:         `clubctl hashes admin passwords, seeds a demo club through the HTTP API and prints season standings.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "url", seed.DefaultBaseURL, "Base URL of the service")
	root.PersistentFlags().DurationVar(&timeout, "timeout", seed.DefaultTimeout, "HTTP request timeout")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newHashPasswordCmd(), newSeedCmd(), newRankingCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
