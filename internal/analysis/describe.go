package analysis

import (
	"sort"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// Maybe is a statistic that may be not applicable.
type Maybe struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

func some(v float64, err error) Maybe {
	if err != nil {
		return Maybe{}
	}
	return Maybe{Value: v, Valid: true}
}

func (m Maybe) String() string {
	if !m.Valid {
		return "n/a"
	}
	return formatStat(m.Value)
}

// ColumnStats describes one numeric column.
type ColumnStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Maybe  `json:"mean"`
	Median Maybe  `json:"median"`
	Min    Maybe  `json:"min"`
	Max    Maybe  `json:"max"`
	StdDev Maybe  `json:"stddev"`
	// Modes is empty when no value repeats.
	Modes []float64 `json:"modes"`
}

// HasMode reports whether some value occurs more than once.
func (c ColumnStats) HasMode() bool { return len(c.Modes) > 0 }

// Description holds descriptive statistics in header order.
type Description struct {
	Rows    int           `json:"rows"`
	Columns []ColumnStats `json:"columns"`
}

// Get returns the statistics for col.
func (d *Description) Get(col string) (ColumnStats, bool) {
	for _, c := range d.Columns {
		if c.Column == col {
			return c, true
		}
	}
	return ColumnStats{}, false
}

// Describe computes count, mean, median, mode, min, max and sample standard
// deviation for every column holding at least one Number.
func Describe(t *table.Table) *Description {
	d := &Description{Rows: t.Len()}
	for _, col := range t.NumericColumns() {
		d.Columns = append(d.Columns, DescribeValues(col, t.Numbers(col)))
	}
	return d
}

// DescribeValues computes the statistics of a numeric sample.
func DescribeValues(col string, vals []float64) ColumnStats {
	cs := ColumnStats{Column: col, Count: len(vals)}
	if len(vals) == 0 {
		return cs
	}
	data := stats.Float64Data(vals)
	cs.Mean = some(data.Mean())
	cs.Median = some(data.Median())
	cs.Min = some(data.Min())
	cs.Max = some(data.Max())
	if len(vals) >= 2 {
		cs.StdDev = some(data.StandardDeviationSample())
	}
	cs.Modes = modes(vals)
	return cs
}

// modes returns every value sharing the highest frequency, ascending, or nil
// when every value occurs exactly once.
func modes(vals []float64) []float64 {
	freq := make(map[float64]int, len(vals))
	top := 0
	for _, v := range vals {
		freq[v]++
		if freq[v] > top {
			top = freq[v]
		}
	}
	if top <= 1 {
		return nil
	}
	var out []float64
	for v, n := range freq {
		if n == top {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}
