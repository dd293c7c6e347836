package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/analysis"
	"github.com/KaramelBytes/tabloom-cli/internal/store"
	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *table.Table {
	t.Helper()
	tb := table.New([]string{"dept", "sales", "note"})
	require.NoError(t, tb.AppendValues([]table.Cell{table.ParseCell("X"), table.ParseCell("10.5"), table.ParseCell("")}))
	require.NoError(t, tb.AppendValues([]table.Cell{table.ParseCell("Y"), table.ParseCell("3"), table.ParseCell("ok")}))
	tb.Name = "sales.csv"
	return tb
}

func TestLoadMissingReturnsNil(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveLoadClear(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)
	in := sample(t)
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.Columns, out.Columns)
	assert.Equal(t, "sales.csv", out.Name)
	require.Len(t, out.Rows, 2)
	v, ok := out.Rows[0]["sales"].Number()
	assert.True(t, ok)
	assert.Equal(t, 10.5, v)
	assert.True(t, out.Rows[0]["note"].IsEmpty())
	assert.Equal(t, "ok", out.Rows[1]["note"].String())

	require.NoError(t, s.Clear())
	out, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, out)
	require.NoError(t, s.Clear(), "clearing twice is fine")
}

func TestLoadIgnoresOtherSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "table.json"),
		[]byte(`{"version":1,"table":{"columns":["a"],"rows":[{"a":1}]}}`), 0o644))
	s, err := store.Open(dir)
	require.NoError(t, err)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "table.json"), []byte("{"), 0o644))
	s, _ := store.Open(dir)
	_, err := s.Load()
	assert.Error(t, err)
}

func TestCharts(t *testing.T) {
	s, err := store.Open(t.TempDir())
	require.NoError(t, err)

	first := &store.ChartConfig{Name: "sales by dept", Type: store.ChartBar, GroupBy: "dept", Value: "sales", Operator: analysis.OpSum}
	require.NoError(t, s.SaveChart(first))
	assert.NotEmpty(t, first.ID)
	second := &store.ChartConfig{
		Name: "avg", Type: store.ChartLine, GroupBy: "dept", Value: "sales", Operator: analysis.OpAverage,
		Filter: analysis.Filter{Column: "dept", Value: "X"}, CreatedAt: first.CreatedAt.Add(time.Second),
	}
	require.NoError(t, s.SaveChart(second))

	all, err := s.Charts()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "sales by dept", all[0].Name)
	assert.Equal(t, "X", all[1].Filter.Value)

	byName, err := s.Chart("avg")
	require.NoError(t, err)
	assert.Equal(t, second.ID, byName.ID)
	byPrefix, err := s.Chart(first.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, first.ID, byPrefix.ID)

	require.NoError(t, s.DeleteChart(first.ID))
	_, err = s.Chart(first.ID)
	assert.ErrorIs(t, err, store.ErrChartNotFound)

	assert.Error(t, s.SaveChart(&store.ChartConfig{}))
}

func TestChartsSurviveClear(t *testing.T) {
	s, _ := store.Open(t.TempDir())
	require.NoError(t, s.Save(sample(t)))
	require.NoError(t, s.SaveChart(&store.ChartConfig{Name: "c", GroupBy: "dept", Value: "sales", Operator: analysis.OpCount}))
	require.NoError(t, s.Clear())
	all, err := s.Charts()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestParseChartType(t *testing.T) {
	ct, err := store.ParseChartType("")
	require.NoError(t, err)
	assert.Equal(t, store.ChartBar, ct)
	_, err = store.ParseChartType("radar")
	assert.Error(t, err)
}
