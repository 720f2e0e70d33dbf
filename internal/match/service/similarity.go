package service

import (
	"math"

	"match-service/internal/dataset"
)

// ScorePair — token-sort схожесть двух строк в [0..100].
// Обе строки приводятся к normalize, затем считается нормированная
// Indel-схожесть: 2*LCS / (|a|+|b|). Пустая с пустой — 100.
func ScorePair(a, b string) int {
	return ratio(normalize(a), normalize(b))
}

// ratio — схожесть уже нормализованных строк.
func ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(2*lcsLength(ra, rb)) / float64(total)))
}

// WeightedScore — взвешенное среднее ScorePair по полям, округлённое до сотых.
// Поле без веса (или с весом <= 0) в расчёт не входит; сумма весов 0 → 0.
// Отсутствующее в записи поле сравнивается как пустая строка.
func WeightedScore(r1, r2 dataset.Record, fields []string, weights map[string]int) float64 {
	va := make([]string, len(fields))
	vb := make([]string, len(fields))
	ws := make([]int, len(fields))
	for j, f := range fields {
		va[j], vb[j], ws[j] = normalize(r1.Text(f)), normalize(r2.Text(f)), weights[f]
	}
	return weightedPrepared(va, vb, ws)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
