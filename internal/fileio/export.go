package fileio

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV пишет таблицу с заголовком как CSV (UTF-8, разделитель ',').
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("csv rows: %w", err)
	}
	return nil
}
