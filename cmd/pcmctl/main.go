// Command pcmctl evaluates a league data directory offline and checks a
// running server against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/peloton/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "pcmctl",
		Short: "Inspect and verify a fantasy cycling league",
		Long: `pcmctl rates and classifies the riders of a league data directory
the same way the server does, prints rosters and national rankings, and
verifies a running server's leaderboard against a local evaluation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithOutput(cmd.ErrOrStderr())); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(evaluateCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(nationsCmd())
	root.AddCommand(verifyCmd())
	return root
}
