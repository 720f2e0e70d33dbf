package handler

import (
	"match-service/internal/dataset"
	"match-service/internal/match/model"
)

type recordView struct {
	Index  int                 `json:"index"`
	Type   model.DuplicateType `json:"type"`
	Values map[string]any      `json:"values"`
}

type duplicatesView struct {
	model.DuplicateReport
	Records []recordView `json:"records"`
}

func newDuplicatesView(rep model.DuplicateReport, columns []string) duplicatesView {
	v := duplicatesView{DuplicateReport: rep, Records: make([]recordView, 0, len(rep.Records))}
	for _, r := range rep.Records {
		v.Records = append(v.Records, recordView{Index: r.Index, Type: r.Type, Values: values(r.Record, columns)})
	}
	return v
}

type matchView struct {
	IndexA int            `json:"indexA"`
	IndexB int            `json:"indexB"`
	Score  float64        `json:"score"`
	A      map[string]any `json:"a"`
	B      map[string]any `json:"b"`
}

type crossView struct {
	model.CrossReport
	Count   int         `json:"count"`
	Matches []matchView `json:"matches"`
}

func newCrossView(rep model.CrossReport) crossView {
	v := crossView{CrossReport: rep, Count: len(rep.Matches), Matches: make([]matchView, 0, len(rep.Matches))}
	for _, m := range rep.Matches {
		mv := matchView{
			IndexA: m.IndexA,
			IndexB: m.IndexB,
			Score:  m.Score,
			A:      make(map[string]any, len(m.Fields)),
			B:      make(map[string]any, len(m.Fields)),
		}
		for _, f := range m.Fields {
			mv.A[f.Column] = f.A.Value()
			mv.B[f.Column] = f.B.Value()
		}
		v.Matches = append(v.Matches, mv)
	}
	return v
}

func values(r dataset.Record, columns []string) map[string]any {
	out := make(map[string]any, len(columns))
	for _, c := range columns {
		out[c] = r.Get(c).Value()
	}
	return out
}
