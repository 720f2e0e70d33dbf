package service

import (
	"fmt"
	"sort"
	"time"

	"match-service/internal/dataset"
	"match-service/internal/match/model"
)

// CrossMatch сопоставляет записи A и B по взвешенной схожести MatchColumns.
// С BlockColumn сравниваются только записи с одинаковым значением этой колонки;
// ключи, которые есть лишь в одном датасете, кандидатов не дают.
// Пустой/отсутствующий A или B — статус not_ready без какой-либо работы.
func (e *Engine) CrossMatch(a, b *dataset.Dataset, p model.CrossParams) (model.CrossReport, error) {
	if a.Empty() || b.Empty() {
		return model.CrossReport{Status: model.StatusNotReady, Matches: []model.MatchResult{}}, nil
	}
	if err := validateCross(a, b, p); err != nil {
		return model.CrossReport{}, err
	}
	start := time.Now()

	pa := prepareFields(a, p.MatchColumns)
	pb := prepareFields(b, p.MatchColumns)
	weights := make([]int, len(p.MatchColumns))
	for j, c := range p.MatchColumns {
		weights[j] = p.Weights[c]
	}

	// блоки кандидатов: пары (блок A, блок B) в порядке ключей A
	var groups [][2][]int
	if p.BlockColumn != "" {
		partA := PartitionExact(a, p.BlockColumn)
		partB := PartitionExact(b, p.BlockColumn)
		for _, blk := range partA.Blocks {
			if other, ok := partB.Get(blk.Key); ok {
				groups = append(groups, [2][]int{blk.Indices, other.Indices})
			}
		}
	} else {
		// полный перебор: режем A на куски по числу воркеров, порядок кусков = порядок A
		all, ib := allIndices(a), allIndices(b)
		size := (len(all) + e.workers - 1) / e.workers
		for lo := 0; lo < len(all); lo += size {
			groups = append(groups, [2][]int{all[lo:min(lo+size, len(all))], ib})
		}
	}

	found := make([][]model.MatchResult, len(groups))
	candidates := make([]int, len(groups))
	e.forEachBlock(len(groups), func(i int) {
		for _, ia := range groups[i][0] {
			for _, ib := range groups[i][1] {
				candidates[i]++
				s := weightedPrepared(pa[ia], pb[ib], weights)
				if s < p.Threshold {
					continue
				}
				found[i] = append(found[i], newMatch(a.Record(ia), b.Record(ib), s, p.MatchColumns))
			}
		}
	})

	rep := model.CrossReport{
		MatchColumns: append([]string{}, p.MatchColumns...),
		BlockColumn:  p.BlockColumn,
		Threshold:    p.Threshold,
		Matches:      []model.MatchResult{},
	}
	for i := range groups {
		rep.Candidates += candidates[i]
		rep.Matches = append(rep.Matches, found[i]...)
	}
	// порядок генерации кандидатов восстановлен выше; равные скоры его сохраняют
	sort.SliceStable(rep.Matches, func(i, j int) bool {
		return rep.Matches[i].Score > rep.Matches[j].Score
	})
	rep.Status = model.StatusNoMatches
	if len(rep.Matches) > 0 {
		rep.Status = model.StatusMatched
	}

	e.log.Debug().
		Int("rows_a", a.Len()).
		Int("rows_b", b.Len()).
		Str("block_col", p.BlockColumn).
		Int("blocks", len(groups)).
		Int("candidates", rep.Candidates).
		Int("matches", len(rep.Matches)).
		Dur("elapsed", time.Since(start)).
		Msg("cross match done")
	return rep, nil
}

func validateCross(a, b *dataset.Dataset, p model.CrossParams) error {
	if err := validateThreshold(p.Threshold); err != nil {
		return err
	}
	cols := p.MatchColumns
	if p.BlockColumn != "" {
		cols = append(append([]string{}, cols...), p.BlockColumn)
	}
	for _, c := range cols {
		if !a.Has(c) {
			return model.MissingColumn(c, "A")
		}
		if !b.Has(c) {
			return model.MissingColumn(c, "B")
		}
	}
	for c, w := range p.Weights {
		if w < 1 || w > 10 {
			return &model.ConfigError{Column: c, Reason: fmt.Sprintf("weight %d out of range 1..10", w)}
		}
	}
	return nil
}

func validateThreshold(t float64) error {
	if t < 0 || t > 100 {
		return &model.ConfigError{Column: "threshold", Reason: fmt.Sprintf("%v out of range 0..100", t)}
	}
	return nil
}

// prepareFields — нормализованные значения полей каждой записи, по индексу записи.
func prepareFields(ds *dataset.Dataset, cols []string) [][]string {
	out := make([][]string, ds.Len())
	for _, r := range ds.Records() {
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = normalize(r.Text(c))
		}
		out[r.Index] = vals
	}
	return out
}

// weightedPrepared — то же, что WeightedScore, но по заранее нормализованным полям.
func weightedPrepared(va, vb []string, weights []int) float64 {
	scoreSum, weightSum := 0, 0
	for j, w := range weights {
		if w <= 0 {
			continue
		}
		scoreSum += ratio(va[j], vb[j]) * w
		weightSum += w
	}
	if weightSum == 0 {
		return 0
	}
	return round2(float64(scoreSum) / float64(weightSum))
}

func newMatch(ra, rb dataset.Record, score float64, cols []string) model.MatchResult {
	fields := make([]model.FieldPair, len(cols))
	for j, c := range cols {
		fields[j] = model.FieldPair{Column: c, A: ra.Get(c), B: rb.Get(c)}
	}
	return model.MatchResult{IndexA: ra.Index, IndexB: rb.Index, Score: score, Fields: fields}
}

func allIndices(ds *dataset.Dataset) []int {
	out := make([]int, ds.Len())
	for i, r := range ds.Records() {
		out[i] = r.Index
	}
	return out
}
