package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"match-service/internal/config"
	"match-service/internal/match/model"
	"match-service/internal/match/service"
)

type duplicatesOptions struct {
	fuzzy        []string
	threshold    int
	headerRow    int
	out          string
	dupType      string
	includeExact bool
	jsonOutput   bool
}

func newDuplicatesCmd(cfg config.Config, root *rootOptions) *cobra.Command {
	o := &duplicatesOptions{}
	cmd := &cobra.Command{
		Use:   "duplicates FILE",
		Short: "Find exact and fuzzy duplicate rows in one file",
		Long: "Exact duplicates are rows equal in every column. Fuzzy duplicates compare the\n" +
			"--fuzzy columns (joined) by token-sort similarity within blocks sharing the\n" +
			"first character of the first fuzzy column.\n\n" +
			"Without --fuzzy, text columns that are not unique identifiers are used;\n" +
			"--fuzzy \"\" disables the fuzzy pass.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDuplicates(cmd, root, o, args[0])
		},
	}
	cmd.Flags().StringSliceVar(&o.fuzzy, "fuzzy", nil, "Columns for fuzzy matching (comma-separated)")
	cmd.Flags().IntVar(&o.threshold, "threshold", cfg.DupThreshold, "Fuzzy similarity threshold 0..100")
	cmd.Flags().IntVar(&o.headerRow, "header-row", 1, "1-based row holding column names")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write classified rows as CSV to this file (- for stdout)")
	cmd.Flags().StringVar(&o.dupType, "type", "", "Export only one category: exact, fuzzy or both")
	cmd.Flags().BoolVar(&o.includeExact, "include-exact", false, "Let fully identical rows count as fuzzy pairs too")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func runDuplicates(cmd *cobra.Command, root *rootOptions, o *duplicatesOptions, path string) error {
	start := time.Now()
	ds, err := loadDataset(path, o.headerRow)
	if err != nil {
		return err
	}
	eng, logger := root.engine()

	cols := service.DefaultFuzzyColumns(ds)
	if cmd.Flags().Changed("fuzzy") {
		cols = nonEmpty(o.fuzzy)
	}
	rep, err := eng.DetectDuplicates(ds, model.DuplicateParams{
		FuzzyColumns:       cols,
		Threshold:          o.threshold,
		FuzzyIncludesExact: o.includeExact,
	})
	if err != nil {
		return err
	}
	logger.Debug().Str("file", path).Int("rows", rep.Rows).Dur("elapsed", time.Since(start)).Msg("duplicates done")

	if o.out != "" {
		recs := rep.Records
		if o.dupType != "" {
			t, err := parseDuplicateType(o.dupType)
			if err != nil {
				return err
			}
			recs = rep.Filter(t)
		}
		header, rows := model.DuplicateTable(ds.Columns(), recs)
		if err := writeTable(cmd, o.out, header, rows); err != nil {
			return err
		}
		if o.out == "-" {
			return nil
		}
	}

	w := cmd.OutOrStdout()
	if o.jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(rep)
	}
	fmt.Fprintf(w, "rows:          %d\n", rep.Rows)
	fmt.Fprintf(w, "fuzzy columns: %s (threshold %d)\n", strings.Join(rep.FuzzyColumns, ", "), rep.Threshold)
	fmt.Fprintf(w, "exact: %d  fuzzy: %d  both: %d  total: %d (%.2f%%)\n",
		rep.Counts.Exact, rep.Counts.Fuzzy, rep.Counts.Both, rep.Counts.Total, rep.Percent)
	return nil
}

func parseDuplicateType(s string) (model.DuplicateType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return model.DuplicateExact, nil
	case "fuzzy":
		return model.DuplicateFuzzy, nil
	case "both":
		return model.DuplicateBoth, nil
	}
	return "", fmt.Errorf("unknown --type %q: want exact, fuzzy or both", s)
}

// nonEmpty: --fuzzy "" даёт [""], это "без fuzzy".
func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
