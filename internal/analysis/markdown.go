package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

func formatStat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.4g", v)
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	for i, h := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(safeName(h)))
	}
	b.WriteString(" |\n| ")
	for i := range header {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if r := []rune(val); len(r) > 80 {
				val = string(r[:77]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

// Markdown renders the grouped report as a pipe table.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[GROUPED REPORT]\n")
	b.WriteString(fmt.Sprintf("Group by: %s\n", safeName(r.GroupBy)))
	if r.Filter.Active() {
		b.WriteString(fmt.Sprintf("Filter: %s\n", safeVal(r.Filter.String())))
	}
	b.WriteString(fmt.Sprintf("Groups: %d\n\n", len(r.Rows)))
	writeTable(&b, r.Header(), r.records(formatStat))
	return b.String()
}

// Markdown renders the aggregation as a two-column table. Groups without
// samples print n/a.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[AGGREGATION] %s(%s) by %s\n\n", r.Operator, safeName(r.Value), safeName(r.GroupBy)))
	rows := make([][]string, 0, len(r.Points))
	for _, p := range r.Points {
		v := "n/a"
		if p.Valid {
			v = formatStat(p.Value)
		}
		rows = append(rows, []string{p.Label, v})
	}
	writeTable(&b, []string{r.GroupBy, fmt.Sprintf("%s(%s)", r.Value, r.Operator)}, rows)
	return b.String()
}

// Markdown renders descriptive statistics, one row per numeric column.
func (d *Description) Markdown() string {
	var b strings.Builder
	b.WriteString("[DESCRIPTIVE STATISTICS]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\nNumeric columns: %d\n\n", d.Rows, len(d.Columns)))
	header := []string{"column", "count", "mean", "median", "mode", "min", "max", "stddev"}
	rows := make([][]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		mode := "no distinct mode"
		if c.HasMode() {
			parts := make([]string, len(c.Modes))
			for i, m := range c.Modes {
				parts[i] = formatStat(m)
			}
			mode = strings.Join(parts, ", ")
		}
		rows = append(rows, []string{
			c.Column, fmt.Sprintf("%d", c.Count), c.Mean.String(), c.Median.String(),
			mode, c.Min.String(), c.Max.String(), c.StdDev.String(),
		})
	}
	writeTable(&b, header, rows)
	return b.String()
}

// Markdown renders the matrix followed by the strongest pairs.
func (m *CorrMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n")
	b.WriteString(fmt.Sprintf("Complete rows: %d\n\n", m.Rows))
	header := append([]string{""}, m.Columns...)
	rows := make([][]string, len(m.Columns))
	for i, a := range m.Columns {
		rows[i] = []string{a}
		for j := range m.Columns {
			rows[i] = append(rows[i], fmt.Sprintf("%.3f", m.Values[i][j]))
		}
	}
	writeTable(&b, header, rows)

	pairs := m.Pairs()
	maxp := 10
	if len(pairs) < maxp {
		maxp = len(pairs)
	}
	if maxp > 0 {
		b.WriteString("\n")
	}
	for _, p := range pairs[:maxp] {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}

// Pair is one off-diagonal matrix entry.
type Pair struct {
	A, B string
	R    float64
}

// Pairs lists the upper triangle by descending |r|.
func (m *CorrMatrix) Pairs() []Pair {
	var pairs []Pair
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	return pairs
}

// ColumnsMarkdown renders the column classification.
func ColumnsMarkdown(cols []ColumnInfo) string {
	var b strings.Builder
	b.WriteString("[SCHEMA]\n")
	for _, c := range cols {
		b.WriteString(fmt.Sprintf("- %s: %s (numbers %d, empty %d)\n", safeName(c.Name), c.Kind(), c.Numbers, c.Empty))
	}
	return b.String()
}
