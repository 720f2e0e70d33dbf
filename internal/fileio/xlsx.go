package fileio

import (
	"bytes"
	"fmt"
	"io"

	excelize "github.com/xuri/excelize/v2"
)

func readXLSX(r io.Reader, headerRow int) (Sheet, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Sheet{}, err
	}
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return Sheet{}, fmt.Errorf("xlsx: %w", err)
	}
	defer f.Close()

	// первый лист книги; пустые ячейки в хвосте строки excelize отрезает,
	// rowsToMaps добивает их пустыми значениями
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Sheet{}, fmt.Errorf("xlsx: %w", err)
	}
	return toSheet(rows, headerRow), nil
}
