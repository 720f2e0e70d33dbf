package service

import (
	"sort"
	"strings"
	"time"

	"match-service/internal/dataset"
	"match-service/internal/match/model"
)

// DetectDuplicates ищет в датасете точные дубли (строка целиком) и fuzzy-дубли
// (составной ключ из FuzzyColumns, блокировка по первому символу первой колонки)
// и классифицирует каждую найденную строку как Exact, Fuzzy или Both.
func (e *Engine) DetectDuplicates(ds *dataset.Dataset, p model.DuplicateParams) (model.DuplicateReport, error) {
	if err := validateThreshold(float64(p.Threshold)); err != nil {
		return model.DuplicateReport{}, err
	}
	for _, c := range p.FuzzyColumns {
		if ds == nil || !ds.Has(c) {
			return model.DuplicateReport{}, model.MissingColumn(c, "")
		}
	}

	rep := model.DuplicateReport{
		FuzzyColumns: append([]string{}, p.FuzzyColumns...),
		Threshold:    p.Threshold,
		Records:      []model.ClassifiedRecord{},
	}
	if ds.Empty() {
		return rep, nil
	}
	start := time.Now()
	rep.Rows = ds.Len()

	rowKeys := make([]string, ds.Len())
	for i := range rowKeys {
		rowKeys[i] = ds.RowKey(i)
	}
	exact := exactDuplicates(ds, rowKeys)
	if p.FuzzyIncludesExact {
		rowKeys = nil
	}
	fuzzy, blocks := e.fuzzyDuplicates(ds, p.FuzzyColumns, p.Threshold, rowKeys)

	for _, idx := range unionSorted(exact, fuzzy) {
		_, inExact := exact[idx]
		_, inFuzzy := fuzzy[idx]
		var t model.DuplicateType
		switch {
		case inExact && inFuzzy:
			t = model.DuplicateBoth
			rep.Counts.Both++
		case inExact:
			t = model.DuplicateExact
			rep.Counts.Exact++
		default:
			t = model.DuplicateFuzzy
			rep.Counts.Fuzzy++
		}
		rep.Records = append(rep.Records, model.ClassifiedRecord{Index: idx, Type: t, Record: ds.Record(idx)})
	}
	rep.Counts.Total = len(rep.Records)
	rep.Percent = round2(float64(rep.Counts.Total) / float64(rep.Rows) * 100)

	e.log.Debug().
		Int("rows", rep.Rows).
		Int("blocks", blocks).
		Int("exact_set", len(exact)).
		Int("fuzzy_set", len(fuzzy)).
		Dur("elapsed", time.Since(start)).
		Msg("duplicates detected")
	return rep, nil
}

// exactDuplicates — все строки, у которых есть побайтно равная (включая первую).
func exactDuplicates(ds *dataset.Dataset, rowKeys []string) map[int]struct{} {
	groups := make(map[string][]int)
	for i, k := range rowKeys {
		groups[k] = append(groups[k], ds.Record(i).Index)
	}
	out := make(map[int]struct{})
	for _, g := range groups {
		if len(g) < 2 {
			continue
		}
		for _, idx := range g {
			out[idx] = struct{}{}
		}
	}
	return out
}

// fuzzyDuplicates возвращает множество индексов fuzzy-дублей и число блоков.
// rowKeys != nil — пары с равными ключами строк пропускаются.
func (e *Engine) fuzzyDuplicates(ds *dataset.Dataset, cols []string, threshold int, rowKeys []string) (map[int]struct{}, int) {
	out := make(map[int]struct{})
	if len(cols) == 0 {
		return out, 0
	}

	// составной ключ считаем один раз на запись, уже нормализованным
	keys := make(map[int]string, ds.Len())
	parts := make([]string, len(cols))
	for _, r := range ds.Records() {
		for j, c := range cols {
			parts[j] = r.Text(c)
		}
		keys[r.Index] = normalize(strings.Join(parts, " "))
	}

	part := PartitionFirstChar(ds, cols[0])
	found := make([][]int, part.Len())
	e.forEachBlock(part.Len(), func(i int) {
		found[i] = matchWithinBlock(part.Blocks[i].Indices, keys, rowKeys, threshold)
	})

	for _, idxs := range found {
		for _, idx := range idxs {
			out[idx] = struct{}{}
		}
	}
	return out, part.Len()
}

// matchWithinBlock: каждая ещё не сматченная запись блока (якорь) сравнивается
// со всеми остальными записями блока; пара с score >= threshold помечает обе.
// Уже сматченный якорь повторно не прогоняется, но как кандидат для других
// якорей участвует.
func matchWithinBlock(indices []int, keys map[int]string, rowKeys []string, threshold int) []int {
	matched := make(map[int]struct{})
	for i, anchor := range indices {
		if _, done := matched[anchor]; done {
			continue
		}
		for j, cand := range indices {
			if i == j || (rowKeys != nil && rowKeys[anchor] == rowKeys[cand]) {
				continue
			}
			if ratio(keys[anchor], keys[cand]) >= threshold {
				matched[anchor] = struct{}{}
				matched[cand] = struct{}{}
			}
		}
	}
	out := make([]int, 0, len(matched))
	for idx := range matched {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}

func unionSorted(a, b map[int]struct{}) []int {
	out := make([]int, 0, len(a)+len(b))
	for idx := range a {
		out = append(out, idx)
	}
	for idx := range b {
		if _, ok := a[idx]; !ok {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
