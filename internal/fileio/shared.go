package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Sheet — сырая таблица: заголовки в исходном порядке + строки map[header]value.
type Sheet struct {
	Columns []string
	Rows    []map[string]string
}

// ReadAny — выберет парсер по расширению. headerRow — номер строки заголовков (1-based).
func ReadAny(r io.Reader, filename string, headerRow int) (Sheet, error) {
	if headerRow <= 0 {
		headerRow = 1
	}
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt":
		return readCSV(r, headerRow)
	default:
		return Sheet{}, fmt.Errorf("unsupported file: %s", filename)
	}
}

// toSheet — заголовок + данные под ним.
func toSheet(rows [][]string, headerRow int) Sheet {
	if len(rows) == 0 {
		return Sheet{}
	}
	h := pickHeader(rows, headerRow)
	return Sheet{Columns: h, Rows: rowsToMaps(rows, h, headerRow)}
}

// pickHeader — берёт строку заголовков, подставляет Column N для пустых
// и разводит повторяющиеся имена суффиксом (.1, .2 …), иначе колонки затрут друг друга.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n, dup := seen[v]; dup {
			seen[v] = n + 1
			v = fmt.Sprintf("%s.%d", v, n+1)
		} else {
			seen[v] = 0
		}
		out[i] = v
	}
	return out
}

// rowsToMaps — конвертирует AoA в []map по заголовкам, пропуская полностью пустые строки.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	start := headerRow // первая строка после заголовков
	var out []map[string]string
	for r := start; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c := 0; c < len(headers); c++ {
			var v string
			if c < len(rec) {
				v = rec[c]
			}
			if strings.TrimSpace(v) != "" {
				empty = false
			}
			m[headers[c]] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}
