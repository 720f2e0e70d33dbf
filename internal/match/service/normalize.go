package service

import (
	"sort"
	"strings"
)

// normalize — общий для всех путей сравнения вид строки:
// trim + нижний регистр + сортировка токенов по кодовым точкам.
func normalize(s string) string {
	return tokenSort(strings.ToLower(strings.TrimSpace(s)))
}

// tokenSort: сортируем токены по алфавиту (устойчиво к порядку слов)
func tokenSort(s string) string {
	if s == "" {
		return s
	}
	t := strings.Fields(s)
	sort.Strings(t)
	return strings.Join(t, " ")
}
