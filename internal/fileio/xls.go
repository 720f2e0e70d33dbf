// Надёжный парсер .xls: фиксируем ширину таблицы сами и читаем все ячейки до неё.
package fileio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	xls "github.com/extrame/xls"
)

// ширина листа: самая правая непустая ячейка среди первых probeMax колонок.
// Row.LastCol() у extrame/xls врёт на файлах из 1С, поэтому считаем сами.
func sheetWidth(sheet *xls.WorkSheet) int {
	const probeMax = 512
	width := 1
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := probeMax - 1; j >= width; j-- {
			if normalizeCell(r.Col(j)) != "" {
				width = j + 1
				break
			}
		}
	}
	return width
}

func readXLS(r io.Reader, headerRow int) (Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, err
	}

	// .xls из 1С чаще всего cp1251, но иногда UTF-8/KOI8-R
	var wb *xls.WorkBook
	tryCharsets := []string{"windows-1251", "utf-8", "koi8-r"}
	var lastErr error
	for _, ch := range tryCharsets {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("failed to open workbook")
		}
		return Sheet{}, fmt.Errorf("xls: %w", lastErr)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return Sheet{}, nil
	}

	maxCols := sheetWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		cols := make([]string, maxCols)
		if row != nil {
			for j := 0; j < maxCols; j++ {
				cols[j] = normalizeCell(row.Col(j)) // безопасно: пустые -> ""
			}
		}
		rows = append(rows, cols)
	}

	return toSheet(rows, headerRow), nil
}

// normalizeCell — значение ячейки .xls без NBSP и пробелов по краям.
func normalizeCell(v string) string {
	v = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(v)
	return strings.TrimSpace(v)
}
