package dataset

import "strings"

// Record — строка таблицы. Index — позиция при загрузке, в рамках прогона не меняется.
type Record struct {
	Index int
	cells map[string]Cell
}

// Get возвращает ячейку колонки; отсутствующая колонка читается как Null.
func (r Record) Get(col string) Cell {
	return r.cells[col]
}

// Text — строковое представление поля, Null и отсутствие поля → "".
func (r Record) Text(col string) string {
	return r.cells[col].String()
}

// Dataset — упорядоченные колонки + строки. Во время сопоставления только читается.
type Dataset struct {
	columns []string
	colSet  map[string]struct{}
	records []Record
}

// New собирает датасет из уже типизированных строк. Недостающие ячейки — Null.
func New(columns []string, rows []map[string]Cell) *Dataset {
	ds := &Dataset{
		columns: append([]string(nil), columns...),
		colSet:  make(map[string]struct{}, len(columns)),
		records: make([]Record, 0, len(rows)),
	}
	for _, c := range columns {
		ds.colSet[c] = struct{}{}
	}
	for i, row := range rows {
		cells := make(map[string]Cell, len(columns))
		for _, c := range columns {
			cells[c] = row[c]
		}
		ds.records = append(ds.records, Record{Index: i, cells: cells})
	}
	return ds
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Empty: nil или без строк.
func (d *Dataset) Empty() bool { return d.Len() == 0 }

func (d *Dataset) Columns() []string { return append([]string(nil), d.columns...) }

func (d *Dataset) Has(col string) bool {
	_, ok := d.colSet[col]
	return ok
}

func (d *Dataset) Record(i int) Record { return d.records[i] }

func (d *Dataset) Records() []Record { return d.records }

// RowKey — ключ равенства строки целиком (по всем колонкам, с учётом типов).
func (d *Dataset) RowKey(i int) string {
	var b strings.Builder
	r := d.records[i]
	for j, c := range d.columns {
		if j > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(r.Get(c).Key())
	}
	return b.String()
}

// Cardinality — число различных непустых значений колонки (как nunique).
func (d *Dataset) Cardinality(col string) int {
	seen := make(map[string]struct{})
	for _, r := range d.records {
		c := r.Get(col)
		if c.IsNull() {
			continue
		}
		seen[c.Key()] = struct{}{}
	}
	return len(seen)
}

// ColumnKind — тип колонки: тип первой непустой ячейки (инференс делает колонки однородными).
func (d *Dataset) ColumnKind(col string) Kind {
	for _, r := range d.records {
		if c := r.Get(col); !c.IsNull() {
			return c.Kind()
		}
	}
	return Null
}

// TextColumns — колонки со строковыми значениями, в порядке колонок.
func (d *Dataset) TextColumns() []string {
	var out []string
	for _, c := range d.columns {
		if d.ColumnKind(c) == String {
			out = append(out, c)
		}
	}
	return out
}

// CommonColumns — колонки, присутствующие в обоих датасетах, в порядке a.
func CommonColumns(a, b *Dataset) []string {
	var out []string
	for _, c := range a.columns {
		if b.Has(c) {
			out = append(out, c)
		}
	}
	return out
}
