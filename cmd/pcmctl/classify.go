package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/peloton/internal/domain/scoring"
)

// classifyCmd explains the classification of one attribute set.
func classifyCmd() *cobra.Command {
	var (
		pairs  []string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Rate and classify one rider from its skill fields",
		Long: `Print the overall rating, level, archetype and the full classifier
breakdown of one set of skill fields.

Examples:
  pcmctl classify --stat stat_mo=84 --stat stat_hil=80 --stat stat_fl=70
  pcmctl classify --stat stat_sp=85 --stat stat_acc=82,5 --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := parseStats(pairs)
			if err != nil {
				return err
			}
			a := scoring.Assess(stats)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(a)
			}

			fmt.Fprintf(out, "overall: %s (%s)\ntype:    %s\n\n", a.Overall, a.Level.Label, a.Archetype)
			b := a.Breakdown
			fmt.Fprintf(out, "cores: sprint=%.2f time_trial=%.2f climb=%.2f baroudeur=%.2f\n",
				b.Cores.Sprint, b.Cores.TimeTrial, b.Cores.Climb, b.Cores.Baroudeur)
			fmt.Fprintf(out, "bonuses: stage_racer=%t classics=%t\n\n", b.StageRacerBonus, b.ClassicsBonus)

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ARCHETYPE\tSCORE")
			for _, s := range b.Scores {
				marker := ""
				if s.Archetype == b.Winner {
					marker = " *"
				}
				fmt.Fprintf(tw, "%s\t%.2f%s\n", s.Archetype, s.Score, marker)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "stat", "s", nil, "Skill field, e.g. --stat stat_mo=84 (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the assessment as JSON")

	return cmd
}

// parseStats reads key=value pairs. Values are kept verbatim so decimal
// commas survive.
func parseStats(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, fmt.Errorf("at least one --stat is required")
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--stat %q: want key=value", p)
		}
		out[k] = strings.TrimSpace(v)
	}
	return out, nil
}
