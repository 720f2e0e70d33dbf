package fileio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

func TestReadAny_CSVKeepsColumnOrder(t *testing.T) {
	in := "Name,Email,Age\nAlice,a@x.io,30\n,,\nBob,,41\n"
	sh, err := ReadAny(strings.NewReader(in), "people.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Email", "Age"}, sh.Columns)
	require.Len(t, sh.Rows, 2, "fully empty rows are skipped")
	assert.Equal(t, "Bob", sh.Rows[1]["Name"])
	assert.Equal(t, "", sh.Rows[1]["Email"])
}

func TestReadAny_SemicolonAndHeaderRow(t *testing.T) {
	in := "Отчёт за период;;\nНаименование;Количество;\nНож;2;\n"
	sh, err := ReadAny(strings.NewReader(in), "report.CSV", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Наименование", "Количество", "Column 3"}, sh.Columns)
	require.Len(t, sh.Rows, 1)
	assert.Equal(t, "2", sh.Rows[0]["Количество"])
}

func TestReadAny_Windows1251(t *testing.T) {
	enc, err := charmap.Windows1251.NewEncoder().String("Наименование;Артикул\nНож туристический складной;A-1\nФонарь налобный светодиодный;B-2\n")
	require.NoError(t, err)
	sh, err := ReadAny(strings.NewReader(enc), "1c.csv", 1)
	require.NoError(t, err)
	require.Len(t, sh.Rows, 2)
	assert.Equal(t, "Нож туристический складной", sh.Rows[0]["Наименование"])
}

func TestReadAny_DuplicateHeaders(t *testing.T) {
	sh, err := ReadAny(strings.NewReader("a,a,b\n1,2,3\n"), "x.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "a.1", "b"}, sh.Columns)
	assert.Equal(t, "2", sh.Rows[0]["a.1"])
}

func TestReadAny_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Score"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Eve", 77}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sh, err := ReadAny(&buf, "book.xlsx", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Score"}, sh.Columns)
	require.Len(t, sh.Rows, 1)
	assert.Equal(t, "77", sh.Rows[0]["Score"])
}

func TestReadAny_Unsupported(t *testing.T) {
	_, err := ReadAny(strings.NewReader(""), "data.json", 1)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"a", "b"}, [][]string{{"1", "x,y"}}))
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}
