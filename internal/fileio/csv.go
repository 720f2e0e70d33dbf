package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads CSV with headerRow (1-based), auto-detecting encoding and converting to UTF-8.
// It supports UTF-8, Windows-1251 and KOI8-R; delimiter is sniffed from the first line.
func readCSV(r io.Reader, headerRow int) (Sheet, error) {
	br := bufio.NewReader(r)

	// Peek a bit to detect encoding
	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if !validUTF8Prefix(peek) {
		// не UTF-8 — значит однобайтовая кириллица; по умолчанию cp1251 (1С, Excel)
		cm := charmap.Windows1251
		if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil &&
			strings.EqualFold(det.Charset, "KOI8-R") && det.Confidence >= 90 {
			cm = charmap.KOI8R
		}
		dec = transform.NewReader(br, cm.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return toSheet(rows, headerRow), nil
}

// sniffDelimiter: выгрузки из Excel/1С часто с ';', pandas — с ','.
// Берём самый частый из кандидатов в первой строке.
func sniffDelimiter(peek []byte) rune {
	line := peek
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		line = peek[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// validUTF8Prefix: Peek мог разрезать многобайтовый символ на границе буфера.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}
