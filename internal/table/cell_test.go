package table

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	cases := []struct {
		in   string
		kind Kind
		num  float64
		str  string
	}{
		{"42.5", Number, 42.5, "42.5"},
		{"  7 ", Number, 7, "7"},
		{"-3e2", Number, -300, "-300"},
		{"5.0", Number, 5, "5"},
		{"", Empty, 0, ""},
		{"   ", Empty, 0, ""},
		{"abc", Text, 0, "abc"},
		{" 12abc ", Text, 0, "12abc"},
		{"NaN", Text, 0, "NaN"},
		{"Inf", Text, 0, "Inf"},
		{"1_000", Text, 0, "1_000"},
	}
	for _, c := range cases {
		got := ParseCell(c.in)
		assert.Equal(t, c.kind, got.Kind(), "kind for %q", c.in)
		assert.Equal(t, c.str, got.String(), "string for %q", c.in)
		if c.kind == Number {
			assert.InDelta(t, c.num, got.Float(), 1e-12, "value for %q", c.in)
		}
	}
}

func TestParseCellRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "42.5", "-0.125", "1000000", "3.14159", "1e-3"} {
		c := ParseCell(s)
		require.True(t, c.IsNumber(), s)
		back := ParseCell(c.String())
		assert.Equal(t, c.Float(), back.Float(), s)
	}
}

func TestCellJSON(t *testing.T) {
	row := Row{"n": ParseCell("5"), "s": ParseCell("x"), "e": ParseCell("")}
	b, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":5,"s":"x","e":""}`, string(b))

	var back Row
	require.NoError(t, json.Unmarshal([]byte(`{"n":5,"s":"x","e":"","q":"12","z":null,"b":true}`), &back))
	assert.True(t, back["n"].IsNumber())
	assert.True(t, back["q"].IsNumber(), "numeric strings classify as numbers")
	assert.Equal(t, Text, back["s"].Kind())
	assert.True(t, back["e"].IsEmpty())
	assert.True(t, back["z"].IsEmpty())
	assert.True(t, back["z"].IsNull())
	assert.False(t, back["e"].IsNull())
	assert.Equal(t, "true", back["b"].String())

	out, err := json.Marshal(back["z"])
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestNormalizeHeader(t *testing.T) {
	got := NormalizeHeader([]string{" a ", "b", "a", "", "a"})
	assert.Equal(t, []string{"a", "b", "a_2", "column_4", "a_3"}, got)
}

func TestDateClassification(t *testing.T) {
	d, ok := ParseDate(NumberCell(45000))
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDate(NumberCell(SerialDateThreshold))
	assert.False(t, ok, "threshold itself is not a date")
	assert.True(t, IsDateLike(NumberCell(25570)))
	assert.True(t, IsDateLike(ParseCell("2024-08-10")))
	assert.True(t, IsDateLike(ParseCell("08/10/2024")))
	assert.False(t, IsDateLike(ParseCell("plot A1")))
	assert.False(t, IsDateLike(ParseCell("")))
}

func TestParseDateStringPrefersMonthFirst(t *testing.T) {
	d, ok := ParseDateString("03/04/2024")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDateString("25/12/2024")
	require.True(t, ok, "day-first still accepted when month-first cannot apply")
	assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), d)
}

func TestTableColumns(t *testing.T) {
	tb := New([]string{"when", "dept", "sales"})
	require.NoError(t, tb.AppendValues([]Cell{ParseCell("2024-01-01"), ParseCell("X"), ParseCell("10")}))
	require.NoError(t, tb.AppendValues([]Cell{ParseCell("2024-01-02"), ParseCell("Y"), ParseCell("n/a")}))
	require.Error(t, tb.AppendValues([]Cell{ParseCell("1")}))

	assert.Equal(t, 2, tb.Len())
	assert.Equal(t, []string{"sales"}, tb.NumericColumns())
	assert.True(t, tb.IsDateColumn("when"))
	assert.False(t, tb.IsDateColumn("dept"))
	assert.Equal(t, []float64{10}, tb.Numbers("sales"))
}

func TestFromRecordsLeavesMissingAndNullUndefined(t *testing.T) {
	var records []map[string]Cell
	require.NoError(t, json.Unmarshal([]byte(`[
		{"b": 1, "a": "x"},
		{"a": "y", "c": 2},
		{"a": null, "b": "", "c": 3}
	]`), &records))
	tb := FromRecords(nil, records)
	assert.Equal(t, []string{"a", "b", "c"}, tb.Columns)

	_, ok := tb.Rows[0].Get("c")
	assert.False(t, ok, "missing key")
	_, ok = tb.Rows[2].Get("a")
	assert.False(t, ok, "null value")
	b, ok := tb.Rows[2].Get("b")
	assert.True(t, ok, "empty string is defined")
	assert.True(t, b.IsEmpty())
}
