package service

import (
	"strings"
	"unicode/utf8"

	"match-service/internal/dataset"
	"match-service/internal/match/model"
)

// DefaultFuzzyColumns — текстовые колонки без колонок-идентификаторов
// (у которых каждое значение уникально: fuzzy по ним ничего не находит).
func DefaultFuzzyColumns(ds *dataset.Dataset) []string {
	if ds.Empty() {
		return nil
	}
	var out []string
	for _, c := range ds.TextColumns() {
		if ds.Cardinality(c) == ds.Len() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// DefaultMatchColumns — первые две общие колонки (в порядке A).
func DefaultMatchColumns(a, b *dataset.Dataset) []string {
	if a == nil || b == nil {
		return nil
	}
	common := dataset.CommonColumns(a, b)
	if len(common) > 2 {
		common = common[:2]
	}
	return common
}

// колонки, которые по имени сравнивают только точно
var exactByName = map[string]struct{}{"email": {}, "id": {}, "phone": {}}

// SuggestRules подсказывает способ сопоставления для каждой колонки:
// email/id/phone и нетекстовые — ExactMatch, длинный текст (в среднем > 10
// символов) — FuzzyMatch, короткий текст — CompositeMatch.
func SuggestRules(ds *dataset.Dataset) []model.RuleSuggestion {
	if ds == nil {
		return nil
	}
	out := make([]model.RuleSuggestion, 0, len(ds.Columns()))
	for _, c := range ds.Columns() {
		rule := model.RuleExact
		if _, byName := exactByName[strings.ToLower(c)]; !byName && ds.ColumnKind(c) == dataset.String {
			rule = model.RuleComposite
			if meanLength(ds, c) > 10 {
				rule = model.RuleFuzzy
			}
		}
		out = append(out, model.RuleSuggestion{Column: c, Rule: rule})
	}
	return out
}

// meanLength — средняя длина непустых значений колонки в символах.
func meanLength(ds *dataset.Dataset, col string) float64 {
	total, n := 0, 0
	for _, r := range ds.Records() {
		c := r.Get(col)
		if c.IsNull() {
			continue
		}
		total += utf8.RuneCountInString(c.String())
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}
