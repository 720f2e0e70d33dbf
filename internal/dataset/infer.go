package dataset

import (
	"strings"
	"time"

	"match-service/internal/utils"
)

// форматы дат, которые встречаются в выгрузках (CSV из pandas, 1С, Excel)
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"02.01.2006",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
}

// Infer типизирует сырые строки таблицы поколоночно: колонка становится
// Boolean / Number / Timestamp, только если ВСЕ её непустые значения
// разбираются этим типом, иначе остаётся String. Пустые ячейки → Null.
func Infer(columns []string, raw []map[string]string) *Dataset {
	kinds := make(map[string]Kind, len(columns))
	for _, c := range columns {
		kinds[c] = inferColumn(c, raw)
	}

	rows := make([]map[string]Cell, len(raw))
	for i, rec := range raw {
		row := make(map[string]Cell, len(columns))
		for _, c := range columns {
			row[c] = parseAs(kinds[c], rec[c])
		}
		rows[i] = row
	}
	return New(columns, rows)
}

func inferColumn(col string, raw []map[string]string) Kind {
	candidates := []Kind{Boolean, Number, Timestamp}
	seen := false
	for _, rec := range raw {
		v := strings.TrimSpace(rec[col])
		if v == "" {
			continue
		}
		seen = true
		kept := candidates[:0]
		for _, k := range candidates {
			if !parseAs(k, v).IsNull() {
				kept = append(kept, k)
			}
		}
		candidates = kept
		if len(candidates) == 0 {
			return String
		}
	}
	if !seen {
		return Null
	}
	return candidates[0]
}

// parseAs разбирает значение как заданный тип; неразборчивое или пустое → Null.
func parseAs(k Kind, raw string) Cell {
	v := strings.TrimSpace(raw)
	if v == "" {
		return NullCell()
	}
	switch k {
	case Boolean:
		switch strings.ToLower(v) {
		case "true":
			return BoolCell(true)
		case "false":
			return BoolCell(false)
		}
	case Number:
		if f, ok := utils.ParseNumber(v); ok {
			return NumberCell(f)
		}
	case Timestamp:
		for _, l := range timeLayouts {
			if t, err := time.Parse(l, v); err == nil {
				return TimeCell(t)
			}
		}
	case String:
		// строки храним как есть: точные дубли сравниваются побайтно
		return StringCell(raw)
	}
	return NullCell()
}
