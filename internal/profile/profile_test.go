package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RoundTripsExample(t *testing.T) {
	want := Example()
	got, err := New(want.Input())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNew_EmptyInputReportsEveryColumn(t *testing.T) {
	_, err := New(Input{})
	require.Error(t, err)

	var invalid *InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.True(t, invalid.Missing())
	require.Len(t, invalid.Fields, len(Columns()))

	for i, col := range Columns() {
		assert.Equal(t, col, invalid.Fields[i].Column)
		assert.Equal(t, "required", invalid.Fields[i].Rule)
	}
}

func TestNew_OutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		column string
		rule   string
	}{
		{"age too young", func(in *Input) { in.Age = ptr(14) }, "age", "min"},
		{"age too old", func(in *Input) { in.Age = ptr(23) }, "age", "max"},
		{"bad school", func(in *Input) { in.School = ptr(School("XX")) }, "school", "oneof"},
		{"bad job", func(in *Input) { in.FatherJob = ptr(Job("astronaut")) }, "Fjob", "oneof"},
		{"negative absences", func(in *Input) { in.Absences = ptr(-1) }, "absences", "min"},
		{"G2 above scale", func(in *Input) { in.G2 = ptr(21) }, "G2", "max"},
		{"failures above cap", func(in *Input) { in.Failures = ptr(4) }, "failures", "max"},
		{"health zero", func(in *Input) { in.Health = ptr(0) }, "health", "min"},
		{"bad flag", func(in *Input) { in.InternetAccess = ptr(YesNo("maybe")) }, "internet", "oneof"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Example().Input()
			tt.mutate(&in)

			_, err := New(in)
			var invalid *InvalidInputError
			require.ErrorAs(t, err, &invalid)
			require.Len(t, invalid.Fields, 1)
			assert.Equal(t, tt.column, invalid.Fields[0].Column)
			assert.Equal(t, tt.rule, invalid.Fields[0].Rule)
			assert.False(t, invalid.Missing())
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestNew_AbsencesHaveNoUpperBound(t *testing.T) {
	in := Example().Input()
	in.Absences = ptr(250)

	p, err := New(in)
	require.NoError(t, err)
	assert.Equal(t, 250, p.Absences)
}

func TestParse(t *testing.T) {
	data, err := json.Marshal(Example())
	require.NoError(t, err)

	p, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Example(), p)
}

func TestParse_UnknownColumn(t *testing.T) {
	_, err := Parse([]byte(`{"school":"GP","G3":12}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode profile")
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := Parse([]byte(`{"school":"GP","sex":"F"}`))
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.True(t, invalid.Missing())
	assert.Len(t, invalid.Fields, len(Columns())-2)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "student.json")
	data, err := json.Marshal(Example())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Example(), p)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestRowMatchesColumns(t *testing.T) {
	p := Example()
	cols := Columns()
	row := p.Row()
	require.Len(t, row, len(cols))
	require.Len(t, cols, 32)

	assert.Equal(t, "school", cols[0])
	assert.Equal(t, "G2", cols[len(cols)-1])
	assert.Equal(t, "GP", row[0])
	assert.Equal(t, 14, row[len(row)-1])

	values := p.Values()
	assert.Equal(t, 4, values["absences"])
	assert.Equal(t, "yes", values["internet"])
	assert.Equal(t, 3, values["studytime"])
}

func TestColumnsMatchJSONTags(t *testing.T) {
	data, err := json.Marshal(Example())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Len(t, m, len(Columns()))
	for _, col := range Columns() {
		assert.Contains(t, m, col)
	}
}

func TestFields(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, len(Columns()))

	groups := map[string]bool{}
	for _, g := range Groups() {
		groups[g] = true
	}
	for _, f := range fields {
		assert.NotEmpty(t, f.Label, f.Column)
		assert.NotEmpty(t, f.Guide, f.Column)
		assert.True(t, groups[f.Group], "unknown group for %s", f.Column)
		switch f.Kind {
		case KindChoice:
			assert.NotEmpty(t, f.Options, f.Column)
		case KindScale, KindNumber:
			assert.Less(t, f.Min, f.Max, f.Column)
		default:
			t.Fatalf("unexpected kind %q", f.Kind)
		}
	}

	f, ok := Lookup("studytime")
	require.True(t, ok)
	assert.Equal(t, KindScale, f.Kind)
	assert.Equal(t, 4, f.Max)

	_, ok = Lookup("G3")
	assert.False(t, ok)

	// Fields returns a copy.
	fields[0].Label = "changed"
	assert.Equal(t, "School", Fields()[0].Label)
}
