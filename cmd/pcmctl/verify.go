package main

import (
	"encoding/json"
	"errors"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/peloton/internal/verify"
)

// Default verify settings.
const (
	defaultTopN    = 50
	defaultTimeout = 30 * time.Second
)

// errVerifyFailed is returned when the server disagrees with the local
// evaluation.
var errVerifyFailed = errors.New("server disagrees with the local evaluation")

// verifyCmd checks a running server's leaderboard against a local evaluation.
func verifyCmd() *cobra.Command {
	var (
		lo  localOptions
		cfg verify.Config
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a server's leaderboard against a local evaluation",
		Long: `Evaluate a data directory locally, then fetch the server's top N and the
rank of each of those riders and report every disagreement.

Examples:
  pcmctl verify --url=http://localhost:9080 --data=./data --top=50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := startLocal(cmd.Context(), lo)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rep, err := verify.Run(cmd.Context(), cfg, svc)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if !rep.OK() {
				return errVerifyFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the server")
	cmd.Flags().StringVarP(&lo.dataDir, "data", "d", "./data", "League data directory the server was started with")
	cmd.Flags().StringToStringVar(&lo.overrides, "override", nil, "Archetype overrides the server was started with")
	cmd.Flags().IntVar(&lo.season, "season", 0, "Season year the server was started with")
	cmd.Flags().IntVar(&cfg.TopN, "top", defaultTopN, "Leaderboard entries to compare")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "Concurrent rank lookups")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every mismatch")

	return cmd
}
