package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"match-service/internal/config"
	"match-service/internal/dataset"
	"match-service/internal/match/model"
	"match-service/internal/match/service"
	"match-service/internal/middleware"
)

// Duplicates — поиск дублей в одном файле.
// r.Post("/duplicates", matchHnd.Duplicates(cfg, eng, logger))
func Duplicates(cfg config.Config, eng *service.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		ds, err := readDataset(r, "file", "header_row")
		if errors.Is(err, errNoFile) {
			writeError(w, http.StatusBadRequest, "missing file")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		// не передали колонки — берём текстовые без уникальных ключей;
		// передали пустыми — только точные дубли
		fuzzyCols := service.DefaultFuzzyColumns(ds)
		if formHas(r, "fuzzy_columns") {
			fuzzyCols = splitList(r.FormValue("fuzzy_columns"))
		}
		p := model.DuplicateParams{
			FuzzyColumns:       fuzzyCols,
			Threshold:          atoi(r.FormValue("threshold"), cfg.DupThreshold),
			FuzzyIncludesExact: toBool(r.FormValue("include_exact"), false),
		}

		rep, err := eng.DetectDuplicates(ds, p)
		if err != nil {
			log.Warn().Err(err).Strs("fuzzy_columns", p.FuzzyColumns).Msg("duplicates rejected")
			writeError(w, engineErrorStatus(err), err.Error())
			return
		}

		if strings.EqualFold(r.FormValue("format"), "csv") {
			recs := rep.Records
			if t := r.FormValue("type"); t != "" {
				recs = rep.Filter(duplicateType(t))
			}
			header, rows := model.DuplicateTable(ds.Columns(), recs)
			if err := writeCSV(w, "duplicates.csv", header, rows); err != nil {
				log.Error().Err(err).Msg("write csv")
			}
		} else if err := writeJSON(w, http.StatusOK, newDuplicatesView(rep, ds.Columns())); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("rows", rep.Rows).
			Strs("fuzzy_columns", p.FuzzyColumns).
			Int("threshold", p.Threshold).
			Int("exact", rep.Counts.Exact).
			Int("fuzzy", rep.Counts.Fuzzy).
			Int("both", rep.Counts.Both).
			Dur("elapsed", time.Since(start)).
			Msg("duplicates done")
	}
}

// CrossMatch — сопоставление двух файлов. Без одного из файлов отвечает
// status=not_ready (это не ошибка: клиенту нужно догрузить данные).
func CrossMatch(cfg config.Config, eng *service.Engine, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		a, err := readDataset(r, "fileA", "a_header_row")
		if err != nil && !errors.Is(err, errNoFile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		b, err := readDataset(r, "fileB", "b_header_row")
		if err != nil && !errors.Is(err, errNoFile) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		p, err := crossParams(r, cfg, a, b)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rep, err := eng.CrossMatch(a, b, p)
		if err != nil {
			log.Warn().Err(err).Strs("match_columns", p.MatchColumns).Str("block_col", p.BlockColumn).Msg("crossmatch rejected")
			writeError(w, engineErrorStatus(err), err.Error())
			return
		}

		if rep.Status != model.StatusNotReady && strings.EqualFold(r.FormValue("format"), "csv") {
			if err := writeCSV(w, "matched_pairs.csv", rep.Header(), rep.Table()); err != nil {
				log.Error().Err(err).Msg("write csv")
			}
		} else if err := writeJSON(w, http.StatusOK, newCrossView(rep)); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Str("status", string(rep.Status)).
			Int("rowsA", a.Len()).
			Int("rowsB", b.Len()).
			Int("candidates", rep.Candidates).
			Int("matches", len(rep.Matches)).
			Dur("elapsed", time.Since(start)).
			Msg("crossmatch done")
	}
}

// crossParams собирает параметры из формы. Колонки по умолчанию — первые две
// общие; если weights не передан вовсе, каждой колонке даётся cfg.DefaultWeight,
// иначе колонки без веса в скор не входят.
func crossParams(r *http.Request, cfg config.Config, a, b *dataset.Dataset) (model.CrossParams, error) {
	p := model.CrossParams{
		MatchColumns: splitList(r.FormValue("match_columns")),
		Threshold:    toFloat(r.FormValue("threshold"), float64(cfg.MatchThreshold)),
		BlockColumn:  strings.TrimSpace(r.FormValue("block_col")),
	}
	if len(p.MatchColumns) == 0 && !a.Empty() && !b.Empty() {
		p.MatchColumns = service.DefaultMatchColumns(a, b)
	}
	if formHas(r, "weights") {
		ws, err := parseWeights(r.FormValue("weights"))
		if err != nil {
			return p, err
		}
		p.Weights = ws
		return p, nil
	}
	return p.WithDefaultWeight(cfg.DefaultWeight), nil
}

// Rules — подсказки способа сопоставления по колонкам файла.
func Rules(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		ds, err := readDataset(r, "file", "header_row")
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := writeJSON(w, http.StatusOK, map[string]any{
			"rows":  ds.Len(),
			"rules": service.SuggestRules(ds),
		}); err != nil {
			log.Error().Err(err).Msg("write json")
		}
	}
}

func duplicateType(s string) model.DuplicateType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exact":
		return model.DuplicateExact
	case "fuzzy":
		return model.DuplicateFuzzy
	case "both":
		return model.DuplicateBoth
	}
	return model.DuplicateType(s)
}
