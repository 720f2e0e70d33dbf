package dataset

import (
	"math"
	"strconv"
	"time"
)

// Kind — тип значения ячейки после инференса.
type Kind uint8

const (
	Null Kind = iota
	String
	Number
	Boolean
	Timestamp
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Timestamp:
		return "timestamp"
	default:
		return "null"
	}
}

// TimeLayout — каноническое текстовое представление Timestamp.
const TimeLayout = "2006-01-02 15:04:05"

// Cell — закрытый вариант String | Number | Boolean | Timestamp | Null.
// Нулевое значение Cell — Null.
type Cell struct {
	kind Kind
	s    string
	f    float64
	b    bool
	t    time.Time
}

func NullCell() Cell                   { return Cell{} }
func StringCell(s string) Cell         { return Cell{kind: String, s: s} }
func NumberCell(f float64) Cell        { return Cell{kind: Number, f: f} }
func BoolCell(b bool) Cell             { return Cell{kind: Boolean, b: b} }
func TimeCell(t time.Time) Cell        { return Cell{kind: Timestamp, t: t} }
func (c Cell) Kind() Kind              { return c.kind }
func (c Cell) IsNull() bool            { return c.kind == Null }
func (c Cell) Str() (string, bool)     { return c.s, c.kind == String }
func (c Cell) Num() (float64, bool)    { return c.f, c.kind == Number }
func (c Cell) Bool() (bool, bool)      { return c.b, c.kind == Boolean }
func (c Cell) Time() (time.Time, bool) { return c.t, c.kind == Timestamp }

// String — текст ячейки для сравнения строк. Null → "".
func (c Cell) String() string {
	switch c.kind {
	case String:
		return c.s
	case Number:
		return formatNumber(c.f)
	case Boolean:
		return strconv.FormatBool(c.b)
	case Timestamp:
		return c.t.Format(TimeLayout)
	default:
		return ""
	}
}

// Key — ключ равенства с тегом типа: "1" (строка) и 1 (число) различаются,
// 1 и 1.0 совпадают, Null равен Null.
func (c Cell) Key() string {
	switch c.kind {
	case String:
		return "s:" + c.s
	case Number:
		return "n:" + formatNumber(c.f)
	case Boolean:
		return "b:" + strconv.FormatBool(c.b)
	case Timestamp:
		return "t:" + c.t.UTC().Format(time.RFC3339Nano)
	default:
		return "0:"
	}
}

// Value — значение для JSON/экспорта.
func (c Cell) Value() any {
	switch c.kind {
	case String:
		return c.s
	case Number:
		return c.f
	case Boolean:
		return c.b
	case Timestamp:
		return c.t.Format(TimeLayout)
	default:
		return nil
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
