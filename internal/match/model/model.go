package model

import (
	"strconv"

	"match-service/internal/dataset"
)

// DuplicateParams — параметры поиска дублей внутри одного датасета.
type DuplicateParams struct {
	FuzzyColumns []string // колонки для fuzzy; первая — ключ блокировки
	Threshold    int      // порог схожести 0..100

	// FuzzyIncludesExact: пары строк, равных целиком, тоже считаются fuzzy-дублями
	// (тогда они уходят в Both). По умолчанию такие пары в fuzzy не попадают:
	// их уже нашёл точный поиск.
	FuzzyIncludesExact bool
}

// CrossParams — параметры сопоставления двух источников.
type CrossParams struct {
	MatchColumns []string       // общие колонки, попадающие в результат
	Weights      map[string]int // вес 1..10; колонка без веса в скор не входит
	Threshold    float64        // порог 0..100
	BlockColumn  string         // "" — без блокировки (полный перебор)
}

// WithDefaultWeight — копия параметров, где каждой колонке MatchColumns без веса
// назначен вес def.
func (p CrossParams) WithDefaultWeight(def int) CrossParams {
	ws := make(map[string]int, len(p.MatchColumns))
	for c, w := range p.Weights {
		ws[c] = w
	}
	for _, c := range p.MatchColumns {
		if _, ok := ws[c]; !ok {
			ws[c] = def
		}
	}
	p.Weights = ws
	return p
}

// DuplicateType — классификация дубля.
type DuplicateType string

const (
	DuplicateExact DuplicateType = "Exact"
	DuplicateFuzzy DuplicateType = "Fuzzy"
	DuplicateBoth  DuplicateType = "Both"
)

type DuplicateCounts struct {
	Exact int `json:"exact"`
	Fuzzy int `json:"fuzzy"`
	Both  int `json:"both"`
	Total int `json:"total"`
}

type ClassifiedRecord struct {
	Index  int            `json:"index"`
	Type   DuplicateType  `json:"type"`
	Record dataset.Record `json:"-"`
}

type DuplicateReport struct {
	Rows         int                `json:"rows"`
	FuzzyColumns []string           `json:"fuzzyColumns"`
	Threshold    int                `json:"threshold"`
	Counts       DuplicateCounts    `json:"counts"`
	Percent      float64            `json:"percent"` // доля дублей от размера датасета, %
	Records      []ClassifiedRecord `json:"records"` // по возрастанию Index
}

// Filter — записи одной категории (выгрузки exact / fuzzy / both).
func (r DuplicateReport) Filter(t DuplicateType) []ClassifiedRecord {
	var out []ClassifiedRecord
	for _, rec := range r.Records {
		if rec.Type == t {
			out = append(out, rec)
		}
	}
	return out
}

// FieldPair — значения сравниваемого поля из обеих записей.
type FieldPair struct {
	Column string       `json:"column"`
	A      dataset.Cell `json:"-"`
	B      dataset.Cell `json:"-"`
}

// MatchResult — пара записей A/B с итоговым скором. После создания не меняется.
type MatchResult struct {
	IndexA int         `json:"indexA"`
	IndexB int         `json:"indexB"`
	Score  float64     `json:"score"`
	Fields []FieldPair `json:"-"`
}

// Status — состояние cross-source прогона.
type Status string

const (
	StatusNotReady  Status = "not_ready"  // нет одного из датасетов: работа не выполнялась
	StatusNoMatches Status = "no_matches" // прогон был, пар выше порога нет
	StatusMatched   Status = "matched"
)

type CrossReport struct {
	Status       Status        `json:"status"`
	MatchColumns []string      `json:"matchColumns,omitempty"`
	BlockColumn  string        `json:"blockColumn,omitempty"`
	Threshold    float64       `json:"threshold"`
	Candidates   int           `json:"candidates"` // сколько пар реально сравнили
	Matches      []MatchResult `json:"matches"`    // по убыванию Score, стабильно
}

// Header — заголовок выгрузки пар: DF1_Index, DF2_Index, Score, <col>_1…, <col>_2…
func (r CrossReport) Header() []string {
	h := []string{"DF1_Index", "DF2_Index", "Score"}
	for _, c := range r.MatchColumns {
		h = append(h, c+"_1")
	}
	for _, c := range r.MatchColumns {
		h = append(h, c+"_2")
	}
	return h
}

// Table — строки выгрузки в порядке Header.
func (r CrossReport) Table() [][]string {
	out := make([][]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		row := make([]string, 0, 3+2*len(m.Fields))
		row = append(row, strconv.Itoa(m.IndexA), strconv.Itoa(m.IndexB), strconv.FormatFloat(m.Score, 'f', -1, 64))
		for _, f := range m.Fields {
			row = append(row, f.A.String())
		}
		for _, f := range m.Fields {
			row = append(row, f.B.String())
		}
		out = append(out, row)
	}
	return out
}

// DuplicateTable — выгрузка дублей: колонки датасета + DuplicateType.
func DuplicateTable(columns []string, recs []ClassifiedRecord) ([]string, [][]string) {
	header := append(append([]string{}, columns...), "DuplicateType")
	rows := make([][]string, 0, len(recs))
	for _, rec := range recs {
		row := make([]string, 0, len(header))
		for _, c := range columns {
			row = append(row, rec.Record.Text(c))
		}
		rows = append(rows, append(row, string(rec.Type)))
	}
	return header, rows
}

// MatchRule — подсказка, каким способом сопоставлять колонку.
type MatchRule string

const (
	RuleExact     MatchRule = "ExactMatch"
	RuleFuzzy     MatchRule = "FuzzyMatch"
	RuleComposite MatchRule = "CompositeMatch"
)

type RuleSuggestion struct {
	Column string    `json:"column"`
	Rule   MatchRule `json:"rule"`
}
