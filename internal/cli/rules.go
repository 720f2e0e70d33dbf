package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"match-service/internal/match/service"
)

func newRulesCmd() *cobra.Command {
	var headerRow int
	cmd := &cobra.Command{
		Use:   "rules FILE",
		Short: "Suggest a matching rule for every column of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(args[0], headerRow)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tKIND\tRULE")
			for _, s := range service.SuggestRules(ds) {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Column, ds.ColumnKind(s.Column), s.Rule)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based row holding column names")
	return cmd
}
