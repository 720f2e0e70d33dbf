package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `Name,City,Age
Jonathan Richardson,Boston,30
Maria Gonzalez,Denver,41
Wei Zhang,Austin,25
Maria Gonzalez,Denver,41
Jonathan Richardsen,Boston,30
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func TestDuplicates_Summary(t *testing.T) {
	out, err := run(t, "duplicates", writeFile(t, "people.csv", people), "--fuzzy", "Name", "--threshold", "90")
	require.NoError(t, err)
	assert.Contains(t, out, "exact: 2  fuzzy: 2  both: 0  total: 4 (80.00%)")
}

func TestDuplicates_CSVToStdout(t *testing.T) {
	out, err := run(t, "duplicates", writeFile(t, "people.csv", people), "--fuzzy", "Name", "--out", "-", "--type", "fuzzy")
	require.NoError(t, err)
	assert.Equal(t, "Name,City,Age,DuplicateType\n"+
		"Jonathan Richardson,Boston,30,Fuzzy\n"+
		"Jonathan Richardsen,Boston,30,Fuzzy\n", out)
}

func TestDuplicates_EmptyFuzzyMeansExactOnly(t *testing.T) {
	out, err := run(t, "duplicates", writeFile(t, "people.csv", people), "--fuzzy", "")
	require.NoError(t, err)
	assert.Contains(t, out, "exact: 2  fuzzy: 0  both: 0  total: 2")
}

func TestDuplicates_BadType(t *testing.T) {
	out := filepath.Join(t.TempDir(), "d.csv")
	_, err := run(t, "duplicates", writeFile(t, "people.csv", people), "--out", out, "--type", "near")
	assert.ErrorContains(t, err, "unknown --type")
}

func TestDuplicates_MissingColumn(t *testing.T) {
	_, err := run(t, "duplicates", writeFile(t, "people.csv", people), "--fuzzy", "Surname")
	assert.ErrorContains(t, err, "Surname")
}

const (
	left = `Email,Name,City
j.smith@corp.example,John Smith,Reno
ann@corp.example,Ann Lee,Oslo
`
	right = `Email,Name,City
j.smith@corp.example,Xiomara Quetzalcoatl,Reno
nobody@else.example,Ann Lee,Oslo
`
)

func TestCrossMatch_WeightedToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "pairs.csv")
	out, err := run(t, "crossmatch", writeFile(t, "a.csv", left), writeFile(t, "b.csv", right),
		"--columns", "Email,Name", "--weight", "Email=10", "--weight", "Name=1", "--threshold", "90", "--out", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "status:     matched")
	assert.Contains(t, out, "matches:    1")

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DF1_Index,DF2_Index,Score,Email_1,Name_1,Email_2,Name_2\n0,0,")
}

func TestCrossMatch_Blocked(t *testing.T) {
	out, err := run(t, "crossmatch", writeFile(t, "a.csv", left), writeFile(t, "b.csv", right),
		"--columns", "Name", "--block", "City", "--threshold", "100", "--out", "-")
	require.NoError(t, err)
	assert.Equal(t, "DF1_Index,DF2_Index,Score,Name_1,Name_2\n1,1,100,Ann Lee,Ann Lee\n", out)
}

func TestCrossMatch_NotReadyOnEmptyFile(t *testing.T) {
	out, err := run(t, "crossmatch", writeFile(t, "a.csv", left), writeFile(t, "b.csv", "Email,Name,City\n"))
	require.NoError(t, err)
	assert.Equal(t, "status:     not_ready\n", out)
}

func TestCrossMatch_BadWeightFlag(t *testing.T) {
	_, err := run(t, "crossmatch", writeFile(t, "a.csv", left), writeFile(t, "b.csv", right), "--weight", "Email")
	assert.ErrorContains(t, err, "want Column=N")
}

func TestCrossMatch_WeightOutOfRange(t *testing.T) {
	_, err := run(t, "crossmatch", writeFile(t, "a.csv", left), writeFile(t, "b.csv", right), "--columns", "Email", "--weight", "Email=11")
	assert.ErrorContains(t, err, "out of range")
}

func TestRules(t *testing.T) {
	out, err := run(t, "rules", writeFile(t, "a.csv", left))
	require.NoError(t, err)
	assert.Contains(t, out, "COLUMN")
	assert.Regexp(t, `Email\s+string\s+ExactMatch`, out)
	assert.Regexp(t, `Name\s+string\s+CompositeMatch`, out)
}

func TestParseWeightFlags(t *testing.T) {
	got, err := parseWeightFlags([]string{"Email=10", " Name = 3 "})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Email": 10, "Name": 3}, got)

	_, err = parseWeightFlags([]string{"=3"})
	assert.Error(t, err)
}
