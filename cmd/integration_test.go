package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears sticky flag state between Execute calls on the shared
// command tree.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		if sv, ok := fl.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = fl.Value.Set(fl.DefValue)
		}
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmd(t, args...)
	require.NoError(t, err, "command %v: %s", args, out)
	return out
}

// isolate points HOME and the store at temp dirs.
func isolate(t *testing.T) (dir, storeFlag string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg = nil
	dir = t.TempDir()
	return dir, "--store=" + filepath.Join(dir, "store")
}

func writeData(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

const salesCSV = "dept,sales,region\nX,10,EU\nX,20,US\nbroken\nY,5,EU\n"

func TestCLI_LoadReportAggregate(t *testing.T) {
	dir, st := isolate(t)
	path := writeData(t, dir, "sales.csv", salesCSV)

	out := mustRun(t, "load", path, st)
	assert.Contains(t, out, "✓ Loaded sales.csv: 3 rows, 3 columns")
	assert.Contains(t, out, "⚠ skipped 1 row(s)")

	out = mustRun(t, "report", "--group-by", "dept", st)
	assert.Contains(t, out, "| dept | Count | sales(Sum) | sales(Avg) | sales(Min) | sales(Max) |")
	assert.Contains(t, out, "| X | 2 | 30 | 15 | 10 | 20 |")
	assert.Contains(t, out, "| Y | 1 | 5 | 5 | 5 | 5 |")

	out = mustRun(t, "report", "--group-by", "dept", "--filter", "region=EU", "--format", "csv", st)
	assert.Equal(t, "dept,Count,sales(Sum),sales(Avg),sales(Min),sales(Max)\nX,1,10,10,10,10\nY,1,5,5,5,5\n", out)

	out = mustRun(t, "aggregate", "--group-by", "region", "--value", "sales", "--op", "average", "--json", st)
	var res struct {
		Points []struct {
			Label string  `json:"label"`
			Value float64 `json:"value"`
		} `json:"points"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Points, 2)
	assert.Equal(t, "EU", res.Points[0].Label)
	assert.Equal(t, 7.5, res.Points[0].Value)

	_, err := runCmd(t, "aggregate", "--group-by", "dept", "--value", "region", "--op", "sum", st)
	assert.Error(t, err)

	out = mustRun(t, "aggregate", "--group-by", "dept", "--value", "sales", "--filter", "region=APAC", st)
	assert.Contains(t, out, "⚠ No rows match region=APAC")
}

func TestCLI_FailedLoadKeepsTable(t *testing.T) {
	dir, st := isolate(t)
	mustRun(t, "load", writeData(t, dir, "a.csv", "a,b\n1,2\n"), st)

	_, err := runCmd(t, "load", writeData(t, dir, "empty.csv", ""), st)
	assert.Error(t, err)

	out := mustRun(t, "columns", st)
	assert.Contains(t, out, "File: a.csv")

	mustRun(t, "clear", st)
	_, err = runCmd(t, "columns", st)
	assert.Error(t, err)
}

func TestCLI_DescribeCorrelate(t *testing.T) {
	dir, st := isolate(t)
	mustRun(t, "load", writeData(t, dir, "m.tsv", "x\ty\tk\n1\t2\t3\n2\t4\t3\n3\t6\t3\n"), st)

	out := mustRun(t, "describe", st)
	assert.Contains(t, out, "[DESCRIPTIVE STATISTICS]")
	assert.Contains(t, out, "no distinct mode")

	out = mustRun(t, "correlate", "--columns", "y,x,k", "--json", st)
	var m struct {
		Columns []string    `json:"columns"`
		Values  [][]float64 `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	assert.Equal(t, []string{"k", "x", "y"}, m.Columns)
	assert.Equal(t, 0.0, m.Values[0][1])
	assert.InDelta(t, 1.0, m.Values[1][2], 1e-9)

	_, err := runCmd(t, "correlate", "--columns", "x", st)
	assert.Error(t, err)
}

func TestCLI_Charts(t *testing.T) {
	dir, st := isolate(t)
	mustRun(t, "load", writeData(t, dir, "sales.csv", salesCSV), st)

	out := mustRun(t, "chart", "save", "--name", "by-dept", "--group-by", "dept", "--value", "sales", "--op", "max", st)
	assert.Contains(t, out, `✓ Saved chart "by-dept"`)

	_, err := runCmd(t, "chart", "save", "--name", "bad", "--group-by", "nope", "--value", "sales", st)
	assert.Error(t, err)

	out = mustRun(t, "chart", "list", st)
	assert.Contains(t, out, "by-dept")
	assert.Contains(t, out, "max(sales) by dept")

	out = mustRun(t, "chart", "show", "by-dept", st)
	assert.Contains(t, out, "| X | 20 |")

	mustRun(t, "chart", "delete", "by-dept", st)
	out = mustRun(t, "chart", "list", st)
	assert.Contains(t, out, "No saved charts")
}

func TestCLI_ForecastAgainstService(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"predictions": []map[string]any{{"date": "2024-01-04T00:00:00", "value": 4}},
			"rmse":        0.1,
			"insights":    "steady growth",
		})
	}))
	defer srv.Close()

	dir, st := isolate(t)
	t.Setenv("TABLOOM_FORECAST_URL", srv.URL)
	mustRun(t, "load", writeData(t, dir, "ts.csv", "day,v\n2024-01-02,2\n2024-01-01,1\n2024-01-03,3\n"), st)

	out := mustRun(t, "forecast", "--date", "day", "--value", "v", "--horizon", "1", st)
	assert.Contains(t, out, "✓ Forecast (arima, 1 periods from 3 observations)")
	assert.Contains(t, out, "steady growth")
	series := got["time_series_data"].([]any)
	require.Len(t, series, 3)
	assert.Equal(t, "2024-01-01T00:00:00Z", series[0].(map[string]any)["date"])
}

func TestCLI_InsightsPrintPrompt(t *testing.T) {
	dir, st := isolate(t)
	mustRun(t, "load", writeData(t, dir, "sales.csv", salesCSV), st)
	out := mustRun(t, "insights", "--group-by", "dept", "--print-prompt", st)
	assert.Contains(t, out, "[INSTRUCTIONS]")
	assert.Contains(t, out, "[GROUPED REPORT]")
	assert.Contains(t, out, "[TASK]")
}

func TestCLI_InitLocalStore(t *testing.T) {
	isolate(t)
	ws := t.TempDir()
	out := mustRun(t, "init", ws)
	assert.Contains(t, out, "✓ Store initialized")
	_, err := runCmd(t, "init", ws)
	assert.Error(t, err)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	mustRun(t, "config", "set", "insights_api_key", "sk-abcdef", "--config", path)
	mustRun(t, "config", "set", "rate_limit_rps", "2.5", "--config", path)
	_, err := runCmd(t, "config", "set", "default_model_type", "prophet", "--config", path)
	assert.Error(t, err)

	cfg = nil
	out := mustRun(t, "config", "show", "--config", path)
	assert.Contains(t, out, "cdef")
	assert.NotContains(t, out, "sk-abcdef")
	assert.Contains(t, out, "rate_limit_rps: 2.5")
	assert.Contains(t, out, "# active store:")
}

func TestCLI_ReportHTML(t *testing.T) {
	dir, st := isolate(t)
	mustRun(t, "load", writeData(t, dir, "sales.csv", salesCSV), st)
	dest := filepath.Join(dir, "report.html")
	mustRun(t, "report", "--group-by", "dept", "--format", "html", "-o", dest, st)
	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Contains(t, string(b), "<td>X</td>")
}
