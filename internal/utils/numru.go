package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// "1 234,50", "12 000" (пробел/NBSP/NNBSP как разделитель тысяч, запятая — десятичная)
var rxGroupedRU = regexp.MustCompile(`^[-+]?\d{1,3}(?:[ \x{00A0}\x{202F}]\d{3})+(?:,\d+)?$`)

// "42", "-3.5", "3,2", "1e6"
var rxPlain = regexp.MustCompile(`^[-+]?(?:\d+(?:[.,]\d+)?|[.,]\d+)(?:[eE][-+]?\d+)?$`)

// ParseNumber строго распознаёт число в записи "как в выгрузке": "1 234,50",
// "197,00", "3.2", "-10". Мусор вокруг цифр не выбрасывается:
// "+91 9876543210" и "A-12" числами не считаются.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch {
	case rxGroupedRU.MatchString(s):
		s = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", ",", ".").Replace(s)
	case rxPlain.MatchString(s):
		s = strings.Replace(s, ",", ".", 1)
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}
