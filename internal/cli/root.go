package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"match-service/internal/config"
	"match-service/internal/dataset"
	"match-service/internal/fileio"
	"match-service/internal/match/service"
)

// rootOptions — persistent-флаги, общие для всех подкоманд.
type rootOptions struct {
	workers  int
	logLevel string
}

// NewRootCmd собирает дерево команд matchctl. Значения по умолчанию берутся
// из окружения (config.Load), флаги их перекрывают.
func NewRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "matchctl",
		Short:        "Find duplicates and match records across CSV/XLS/XLSX files",
		SilenceUsage: true,
	}
	root.PersistentFlags().IntVar(&opts.workers, "workers", cfg.Workers, "Parallel block workers")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	root.AddCommand(
		newDuplicatesCmd(cfg, opts),
		newCrossMatchCmd(cfg, opts),
		newRulesCmd(),
	)
	return root
}

// Execute runs matchctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func (o *rootOptions) engine() (*service.Engine, zerolog.Logger) {
	logger := config.SetupConsoleLogger(o.logLevel)
	return service.NewEngine(o.workers, logger), logger
}

// loadDataset читает локальный файл; формат — по расширению.
func loadDataset(path string, headerRow int) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sh, err := fileio.ReadAny(f, filepath.Base(path), headerRow)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dataset.Infer(sh.Columns, sh.Rows), nil
}

// writeTable пишет CSV в файл path; "-" — в stdout команды.
func writeTable(cmd *cobra.Command, path string, header []string, rows [][]string) error {
	if path == "-" {
		return fileio.WriteCSV(cmd.OutOrStdout(), header, rows)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := fileio.WriteCSV(f, header, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
