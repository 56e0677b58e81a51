package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// nationsCmd prints the national rankings of a data directory.
func nationsCmd() *cobra.Command {
	var (
		lo     localOptions
		format string
	)

	cmd := &cobra.Command{
		Use:   "nations",
		Short: "Rank nations by the mean overall of their best eight riders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := startLocal(cmd.Context(), lo)
			if err != nil {
				return err
			}
			defer svc.Stop()

			rows, err := svc.Nations()
			if err != nil {
				return err
			}
			switch format {
			case formatJSONL:
				return writeJSONL(cmd.OutOrStdout(), rows)
			case formatTable:
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tNATION\tRIDERS\tSTRENGTH")
			for _, n := range rows {
				name := n.CountryName
				if name == "" {
					name = n.CountryID
				}
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", n.Rank, name, n.Riders, n.Strength)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&lo.dataDir, "data", "d", "./data", "League data directory")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or jsonl")

	return cmd
}
