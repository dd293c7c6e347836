package analysis

import (
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// Metric summarizes one numeric column within one group. N is 0 when the
// group has no numeric values for the column.
type Metric struct {
	N   int     `json:"n"`
	Sum float64 `json:"sum"`
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ReportRow is one group of a grouped report.
type ReportRow struct {
	Key     string            `json:"key"`
	Count   int               `json:"count"`
	Metrics map[string]Metric `json:"metrics"`
	// Samples keeps the raw numeric values per column for distribution
	// analysis. It is not part of the tabular view.
	Samples map[string][]float64 `json:"-"`
}

// Report is a grouped report over every numeric column.
type Report struct {
	GroupBy        string      `json:"group_by"`
	Filter         Filter      `json:"filter,omitempty"`
	NumericColumns []string    `json:"numeric_columns"`
	Rows           []ReportRow `json:"rows"`
}

// BuildReport groups t (after applying f) by groupBy. Numeric columns are
// decided on the unfiltered table. Rows that do not define groupBy are
// excluded. Groups are ordered by key.
func BuildReport(t *table.Table, groupBy string, f Filter) (*Report, error) {
	if !t.HasColumn(groupBy) {
		return nil, &table.InvalidColumnError{Column: groupBy, Reason: "not in table"}
	}
	numeric := t.NumericColumns()
	work, err := f.Apply(t)
	if err != nil {
		return nil, err
	}

	groups := map[string]*ReportRow{}
	for _, r := range work.Rows {
		key, ok := r.Get(groupBy)
		if !ok {
			continue
		}
		k := key.String()
		g := groups[k]
		if g == nil {
			g = &ReportRow{Key: k, Metrics: map[string]Metric{}, Samples: map[string][]float64{}}
			groups[k] = g
		}
		g.Count++
		for _, col := range numeric {
			if v, ok := r[col].Number(); ok {
				g.Samples[col] = append(g.Samples[col], v)
			}
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rep := &Report{GroupBy: groupBy, Filter: f, NumericColumns: numeric, Rows: make([]ReportRow, 0, len(keys))}
	for _, k := range keys {
		g := groups[k]
		for _, col := range numeric {
			g.Metrics[col] = summarize(g.Samples[col])
		}
		rep.Rows = append(rep.Rows, *g)
	}
	return rep, nil
}

func summarize(vals []float64) Metric {
	if len(vals) == 0 {
		return Metric{}
	}
	data := stats.Float64Data(vals)
	sum, _ := data.Sum()
	minV, _ := data.Min()
	maxV, _ := data.Max()
	return Metric{N: len(vals), Sum: sum, Avg: sum / float64(len(vals)), Min: minV, Max: maxV}
}

// Header returns the column labels of the tabular view, e.g. "sales(Sum)".
func (r *Report) Header() []string {
	h := []string{r.GroupBy, "Count"}
	for _, col := range r.NumericColumns {
		h = append(h, col+"(Sum)", col+"(Avg)", col+"(Min)", col+"(Max)")
	}
	return h
}

// Records returns the tabular view as strings, one slice per group, with
// numbers in their exact shortest form. Empty metrics render as empty
// strings.
func (r *Report) Records() [][]string { return r.records(table.FormatNumber) }

func (r *Report) records(format func(float64) string) [][]string {
	out := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := []string{row.Key, table.FormatNumber(float64(row.Count))}
		for _, col := range r.NumericColumns {
			m := row.Metrics[col]
			if m.N == 0 {
				rec = append(rec, "", "", "", "")
				continue
			}
			rec = append(rec, format(m.Sum), format(m.Avg), format(m.Min), format(m.Max))
		}
		out = append(out, rec)
	}
	return out
}
