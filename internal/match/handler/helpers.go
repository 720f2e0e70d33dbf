package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"match-service/internal/dataset"
	"match-service/internal/fileio"
	"match-service/internal/match/model"
)

var errNoFile = errors.New("file not provided")

// readDataset читает загруженный файл из multipart-поля и типизирует ячейки.
// Поля нет — errNoFile.
func readDataset(r *http.Request, field, headerRowField string) (*dataset.Dataset, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	defer f.Close()

	sh, err := fileio.ReadAny(f, hdr.Filename, atoi(r.FormValue(headerRowField), 1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", field, err)
	}
	return dataset.Infer(sh.Columns, sh.Rows), nil
}

// formHas — поле передано (пусть даже пустым). Отличаем "не задано" от "задано пустым".
func formHas(r *http.Request, key string) bool {
	if r.MultipartForm != nil {
		if _, ok := r.MultipartForm.Value[key]; ok {
			return true
		}
	}
	_, ok := r.Form[key]
	return ok
}

// splitList: "Name, City,,Email" → [Name City Email]
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseWeights: "Email:10, Name:1" (допускается и "Email=10").
func parseWeights(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, item := range splitList(s) {
		i := strings.LastIndexAny(item, ":=")
		if i <= 0 {
			return nil, fmt.Errorf("bad weight %q: want column:weight", item)
		}
		w, err := strconv.Atoi(strings.TrimSpace(item[i+1:]))
		if err != nil {
			return nil, fmt.Errorf("bad weight %q: %w", item, err)
		}
		out[strings.TrimSpace(item[:i])] = w
	}
	return out, nil
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, map[string]string{"error": msg})
}

// engineErrorStatus: ошибка конфигурации — 422, прочее — 500.
func engineErrorStatus(err error) int {
	if errors.Is(err, model.ErrInvalidConfiguration) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeCSV(w http.ResponseWriter, filename string, header []string, rows [][]string) error {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	return fileio.WriteCSV(w, header, rows)
}
