package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/peloton/internal/domain/filter"
	"github.com/okian/peloton/internal/domain/league"
)

// Output formats.
const (
	formatTable = "table"
	formatJSONL = "jsonl"
)

// evaluateCmd rates and classifies every rider of a data directory.
func evaluateCmd() *cobra.Command {
	var (
		lo       localOptions
		criteria filter.Criteria
		format   string
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Rate and classify every rider in a data directory",
		Long: `Evaluate every rider of a league data directory and print them sorted
by overall rating, unrated riders last.

Examples:
  # Every rider as a table
  pcmctl evaluate --data=./data

  # Spanish climbers rated 75 or more, as JSON lines
  pcmctl evaluate --data=./data --country=ESP --type=Climber --expr='overall >= 75' --format=jsonl`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatTable && format != formatJSONL {
				return fmt.Errorf("unknown format %q", format)
			}
			svc, err := startLocal(cmd.Context(), lo)
			if err != nil {
				return err
			}
			defer svc.Stop()

			riders, err := svc.Riders(criteria)
			if err != nil {
				return err
			}
			if format == formatJSONL {
				return writeJSONL(cmd.OutOrStdout(), riders)
			}
			return writeRiderTable(cmd.OutOrStdout(), riders)
		},
	}

	cmd.Flags().StringVarP(&lo.dataDir, "data", "d", "./data", "League data directory")
	cmd.Flags().IntVar(&lo.workers, "workers", 0, "Evaluation workers (default: CPU cores * 2)")
	cmd.Flags().StringToStringVar(&lo.overrides, "override", nil, "Pin rider archetypes, e.g. --override=42=Climber")
	cmd.Flags().StringVarP(&criteria.Query, "query", "q", "", "Name, team or country substring")
	cmd.Flags().StringVarP(&criteria.Archetype, "type", "t", "", "Archetype label")
	cmd.Flags().StringVarP(&criteria.CountryID, "country", "c", "", "Country id")
	cmd.Flags().StringVar(&criteria.TeamID, "team", "", "Team id")
	cmd.Flags().StringVarP(&criteria.Expr, "expr", "e", "", "CEL expression over numeric stats")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or jsonl")

	return cmd
}

func writeJSONL[T any](w io.Writer, rows []T) error {
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

func writeRiderTable(w io.Writer, riders []league.RosterEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTEAM\tCOUNTRY\tOVERALL\tLEVEL\tTYPE")
	for _, r := range riders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.RiderID, r.Name, r.TeamName, r.CountryID, r.Overall, r.Level.Label, r.Archetype)
	}
	return tw.Flush()
}
