package service

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"match-service/internal/dataset"
	"match-service/internal/match/model"
)

func cityNames(rows ...[2]string) *dataset.Dataset {
	raw := make([]map[string]string, len(rows))
	for i, r := range rows {
		raw[i] = map[string]string{"City": r[0], "Name": r[1]}
	}
	return dataset.Infer([]string{"City", "Name"}, raw)
}

func sourceA() *dataset.Dataset {
	return cityNames(
		[2]string{"Boston", "Alice Cooper"},
		[2]string{"Denver", "Bob Marley"},
		[2]string{"Boston", "Alicia Keys"},
		[2]string{"Austin", "Carl Sagan"},
		[2]string{"", "Alice Cooper"},
	)
}

func sourceB() *dataset.Dataset {
	return cityNames(
		[2]string{"Boston", "Alice Cooper"},
		[2]string{"Denver", "Bob Marly"},
		[2]string{"Chicago", "Carl Sagan"},
		[2]string{"Boston", "Alice Coper"},
	)
}

func nameParams(threshold float64, block string) model.CrossParams {
	return model.CrossParams{
		MatchColumns: []string{"Name"},
		Weights:      map[string]int{"Name": 1},
		Threshold:    threshold,
		BlockColumn:  block,
	}
}

type pair struct {
	a, b  int
	score float64
}

func pairs(rep model.CrossReport) []pair {
	out := make([]pair, 0, len(rep.Matches))
	for _, m := range rep.Matches {
		out = append(out, pair{m.IndexA, m.IndexB, m.Score})
	}
	return out
}

func TestCrossMatch_Blocked(t *testing.T) {
	rep, err := NewEngine(2, zerolog.Nop()).CrossMatch(sourceA(), sourceB(), nameParams(85, "City"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusMatched, rep.Status)
	// Boston 2x2 + Denver 1x1; Austin/Chicago и пустой City кандидатов не дают
	assert.Equal(t, 5, rep.Candidates)
	assert.Equal(t, []pair{{0, 0, 100}, {0, 3, 96}, {1, 1, 95}}, pairs(rep))

	m := rep.Matches[1]
	require.Len(t, m.Fields, 1)
	assert.Equal(t, "Name", m.Fields[0].Column)
	assert.Equal(t, "Alice Cooper", m.Fields[0].A.String())
	assert.Equal(t, "Alice Coper", m.Fields[0].B.String())
}

func TestCrossMatch_BlockingSoundness(t *testing.T) {
	a, b := sourceA(), sourceB()
	rep, err := NewEngine(3, zerolog.Nop()).CrossMatch(a, b, nameParams(0, "City"))
	require.NoError(t, err)
	require.Len(t, rep.Matches, 5)
	for _, m := range rep.Matches {
		assert.Equal(t, a.Record(m.IndexA).Get("City").Key(), b.Record(m.IndexB).Get("City").Key())
	}
}

func TestCrossMatch_Unblocked(t *testing.T) {
	rep, err := NewEngine(3, zerolog.Nop()).CrossMatch(sourceA(), sourceB(), nameParams(95, ""))
	require.NoError(t, err)
	assert.Equal(t, 20, rep.Candidates)
	// без блокировки находится и запись A с пустым City, и Carl Sagan из разных городов
	assert.Equal(t, []pair{
		{0, 0, 100},
		{3, 2, 100},
		{4, 0, 100},
		{0, 3, 96},
		{4, 3, 96},
		{1, 1, 95},
	}, pairs(rep))
}

func TestCrossMatch_EmailDominates(t *testing.T) {
	a := dataset.Infer([]string{"Email", "Name"}, []map[string]string{{"Email": "j.smith@corp.example", "Name": "John Smith"}})
	b := dataset.Infer([]string{"Email", "Name"}, []map[string]string{{"Email": "j.smith@corp.example", "Name": "Xiomara Quetzalcoatl"}})
	rep, err := NewEngine(1, zerolog.Nop()).CrossMatch(a, b, model.CrossParams{
		MatchColumns: []string{"Email", "Name"},
		Weights:      map[string]int{"Email": 10, "Name": 1},
		Threshold:    90,
	})
	require.NoError(t, err)
	require.Len(t, rep.Matches, 1)
	assert.GreaterOrEqual(t, rep.Matches[0].Score, 90.0)
	assert.Len(t, rep.Matches[0].Fields, 2)
}

func TestCrossMatch_NotReady(t *testing.T) {
	e := NewEngine(1, zerolog.Nop())
	rep, err := e.CrossMatch(sourceA(), nil, nameParams(85, ""))
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotReady, rep.Status)
	assert.Zero(t, rep.Candidates)

	rep, err = e.CrossMatch(dataset.New([]string{"City", "Name"}, nil), sourceB(), nameParams(85, "Nope"))
	require.NoError(t, err, "no work is done, so configuration is not checked")
	assert.Equal(t, model.StatusNotReady, rep.Status)
}

func TestCrossMatch_NoMatchesIsNotNotReady(t *testing.T) {
	a := cityNames([2]string{"Reno", "Ann Lee"})
	b := cityNames([2]string{"Reno", "Anne Lee"})
	rep, err := NewEngine(1, zerolog.Nop()).CrossMatch(a, b, nameParams(100, "City"))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Candidates)
	assert.Equal(t, model.StatusNoMatches, rep.Status)
	assert.Empty(t, rep.Matches)
	assert.NotNil(t, rep.Matches)
}

func TestCrossMatch_InvalidConfiguration(t *testing.T) {
	e := NewEngine(1, zerolog.Nop())
	a := sourceA()
	b := dataset.Infer([]string{"Name"}, []map[string]string{{"Name": "Alice Cooper"}})

	_, err := e.CrossMatch(a, b, nameParams(85, "City"))
	require.ErrorIs(t, err, model.ErrInvalidConfiguration)
	var ce *model.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "City", ce.Column)
	assert.Equal(t, "B", ce.Side)

	p := nameParams(85, "")
	p.MatchColumns = []string{"Name", "Phone"}
	_, err = e.CrossMatch(a, b, p)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Phone", ce.Column)
	assert.Equal(t, "A", ce.Side)

	p = nameParams(85, "")
	p.Weights["Name"] = 11
	_, err = e.CrossMatch(a, b, p)
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)

	_, err = e.CrossMatch(a, b, nameParams(-1, ""))
	assert.ErrorIs(t, err, model.ErrInvalidConfiguration)
}

func TestCrossMatch_ThresholdMonotonic(t *testing.T) {
	e := NewEngine(2, zerolog.Nop())
	prev := -1
	for th := 0.0; th <= 100; th += 5 {
		rep, err := e.CrossMatch(sourceA(), sourceB(), nameParams(th, ""))
		require.NoError(t, err)
		if prev >= 0 {
			assert.LessOrEqual(t, len(rep.Matches), prev, "threshold %v", th)
		}
		prev = len(rep.Matches)
	}
}

func TestCrossMatch_StableTiesAndDeterminism(t *testing.T) {
	a := cityNames([2]string{"X", "same"}, [2]string{"X", "same"}, [2]string{"X", "other"}, [2]string{"X", "same"})
	b := cityNames([2]string{"X", "same"}, [2]string{"X", "same"})
	want := []pair{{0, 0, 100}, {0, 1, 100}, {1, 0, 100}, {1, 1, 100}, {3, 0, 100}, {3, 1, 100}}
	for _, workers := range []int{1, 2, 3, 8} {
		for _, block := range []string{"", "City"} {
			rep, err := NewEngine(workers, zerolog.Nop()).CrossMatch(a, b, nameParams(100, block))
			require.NoError(t, err)
			assert.Equal(t, want, pairs(rep), "workers=%d block=%q", workers, block)
		}
	}
}

func TestCrossMatch_UnweightedColumnKeptInSnapshot(t *testing.T) {
	p := model.CrossParams{
		MatchColumns: []string{"City", "Name"},
		Weights:      map[string]int{"Name": 5},
		Threshold:    100,
	}
	rep, err := NewEngine(1, zerolog.Nop()).CrossMatch(
		cityNames([2]string{"Reno", "Ann Lee"}),
		cityNames([2]string{"Oslo", "Ann Lee"}),
		p,
	)
	require.NoError(t, err)
	require.Len(t, rep.Matches, 1, "City has no weight and does not lower the score")
	assert.Equal(t, "Reno", rep.Matches[0].Fields[0].A.String())
	assert.Equal(t, "Oslo", rep.Matches[0].Fields[0].B.String())
}

func TestDefaultMatchColumns(t *testing.T) {
	a := dataset.New([]string{"ID", "Email", "Name", "Age"}, nil)
	b := dataset.New([]string{"Age", "Name", "ID"}, nil)
	assert.Equal(t, []string{"ID", "Name"}, DefaultMatchColumns(a, b))
	assert.Nil(t, DefaultMatchColumns(a, nil))
}

func TestSuggestRules(t *testing.T) {
	ds := dataset.Infer([]string{"Email", "Description", "Name", "Score"}, []map[string]string{
		{"Email": "a@x.io", "Description": "long free text about item", "Name": "Ann", "Score": "10"},
		{"Email": "b@x.io", "Description": "another long description", "Name": "Bob", "Score": "20"},
	})
	got := SuggestRules(ds)
	assert.Equal(t, []model.RuleSuggestion{
		{Column: "Email", Rule: model.RuleExact},
		{Column: "Description", Rule: model.RuleFuzzy},
		{Column: "Name", Rule: model.RuleComposite},
		{Column: "Score", Rule: model.RuleExact},
	}, got)
}
