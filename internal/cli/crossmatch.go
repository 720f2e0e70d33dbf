package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"match-service/internal/config"
	"match-service/internal/match/model"
	"match-service/internal/match/service"
)

type crossOptions struct {
	columns    []string
	weights    []string
	threshold  float64
	block      string
	headerRow  int
	out        string
	jsonOutput bool
}

func newCrossMatchCmd(cfg config.Config, root *rootOptions) *cobra.Command {
	o := &crossOptions{}
	cmd := &cobra.Command{
		Use:   "crossmatch FILE_A FILE_B",
		Short: "Match records of two files by weighted similarity",
		Long: "Every candidate pair is scored as the weighted mean of per-column\n" +
			"similarities; pairs at or above --threshold are reported, best first.\n" +
			"With --block only records sharing the exact value of that column are compared.\n\n" +
			"Without --columns the first two common columns are used. Without --weight\n" +
			"every column gets the default weight; with --weight, columns left\n" +
			"unweighted do not count towards the score.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrossMatch(cmd, cfg, root, o, args[0], args[1])
		},
	}
	cmd.Flags().StringSliceVar(&o.columns, "columns", nil, "Columns to compare (comma-separated)")
	cmd.Flags().StringArrayVar(&o.weights, "weight", nil, "Column weight 1..10, e.g. --weight Email=10 (repeatable)")
	cmd.Flags().Float64Var(&o.threshold, "threshold", float64(cfg.MatchThreshold), "Minimum weighted score 0..100")
	cmd.Flags().StringVar(&o.block, "block", "", "Compare only records with equal values in this column")
	cmd.Flags().IntVar(&o.headerRow, "header-row", 1, "1-based row holding column names (both files)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "Write matched pairs as CSV to this file (- for stdout)")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Print the report as JSON")
	return cmd
}

func runCrossMatch(cmd *cobra.Command, cfg config.Config, root *rootOptions, o *crossOptions, pathA, pathB string) error {
	start := time.Now()
	a, err := loadDataset(pathA, o.headerRow)
	if err != nil {
		return err
	}
	b, err := loadDataset(pathB, o.headerRow)
	if err != nil {
		return err
	}
	eng, logger := root.engine()

	p := model.CrossParams{
		MatchColumns: nonEmpty(o.columns),
		Threshold:    o.threshold,
		BlockColumn:  strings.TrimSpace(o.block),
	}
	if len(p.MatchColumns) == 0 {
		p.MatchColumns = service.DefaultMatchColumns(a, b)
	}
	if len(o.weights) > 0 {
		if p.Weights, err = parseWeightFlags(o.weights); err != nil {
			return err
		}
	} else {
		p = p.WithDefaultWeight(cfg.DefaultWeight)
	}

	rep, err := eng.CrossMatch(a, b, p)
	if err != nil {
		return err
	}
	logger.Debug().
		Str("status", string(rep.Status)).
		Int("candidates", rep.Candidates).
		Dur("elapsed", time.Since(start)).
		Msg("crossmatch done")

	if o.out != "" && rep.Status != model.StatusNotReady {
		if err := writeTable(cmd, o.out, rep.Header(), rep.Table()); err != nil {
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
	fmt.Fprintf(w, "status:     %s\n", rep.Status)
	if rep.Status == model.StatusNotReady {
		return nil
	}
	fmt.Fprintf(w, "columns:    %s\n", strings.Join(rep.MatchColumns, ", "))
	if rep.BlockColumn != "" {
		fmt.Fprintf(w, "block:      %s\n", rep.BlockColumn)
	}
	fmt.Fprintf(w, "candidates: %d\n", rep.Candidates)
	fmt.Fprintf(w, "matches:    %d\n", len(rep.Matches))
	for _, m := range rep.Matches {
		fmt.Fprintf(w, "  A#%d  B#%d  %s\n", m.IndexA, m.IndexB, strconv.FormatFloat(m.Score, 'f', -1, 64))
	}
	return nil
}

// parseWeightFlags: ["Email=10", "Name=3"] → {Email:10, Name:3}
func parseWeightFlags(items []string) (map[string]int, error) {
	out := make(map[string]int, len(items))
	for _, item := range items {
		col, val, ok := strings.Cut(item, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("bad --weight %q: want Column=N", item)
		}
		w, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("bad --weight %q: %w", item, err)
		}
		out[col] = w
	}
	return out, nil
}
