package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"gonum.org/v1/gonum/stat"
)

// Order controls the axis ordering of a correlation matrix.
type Order string

const (
	OrderAlphabetical Order = "alphabetical"
	OrderAbsolute     Order = "absolute"
)

// ParseOrder defaults to alphabetical for an empty string.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alphabetical", "alpha":
		return OrderAlphabetical, nil
	case "absolute", "abs":
		return OrderAbsolute, nil
	}
	return "", fmt.Errorf("unsupported order %q (use alphabetical|absolute)", s)
}

// CorrMatrix holds a symmetric Pearson correlation matrix.
type CorrMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"` // row-major, Values[i][j]
	// Rows is the number of rows where every selected column was numeric.
	Rows int `json:"rows"`
}

// Get returns the coefficient for the pair (a, b).
func (m *CorrMatrix) Get(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.Values[i][j], true
}

// Map returns the matrix keyed by column name on both axes.
func (m *CorrMatrix) Map() map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(m.Columns))
	for i, a := range m.Columns {
		out[a] = make(map[string]float64, len(m.Columns))
		for j, b := range m.Columns {
			out[a][b] = m.Values[i][j]
		}
	}
	return out
}

func (m *CorrMatrix) index(col string) int {
	for i, c := range m.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Correlate computes pairwise Pearson coefficients over the rows where every
// selected column holds a Number. Constant columns correlate as 0.
func Correlate(t *table.Table, columns []string, order Order) (*CorrMatrix, error) {
	cols := uniqueColumns(columns)
	if len(cols) < 2 {
		return nil, &table.InsufficientDataError{Op: "correlate", What: "columns", Need: 2, Have: len(cols)}
	}
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, &table.InvalidColumnError{Column: c, Reason: "not in table"}
		}
	}

	series := make(map[string][]float64, len(cols))
	n := 0
	for _, r := range t.Rows {
		vals := make([]float64, len(cols))
		complete := true
		for i, c := range cols {
			v, ok := r[c].Number()
			if !ok {
				complete = false
				break
			}
			vals[i] = v
		}
		if !complete {
			continue
		}
		for i, c := range cols {
			series[c] = append(series[c], vals[i])
		}
		n++
	}

	coef := make(map[[2]string]float64)
	for a := 0; a < len(cols); a++ {
		for b := a + 1; b < len(cols); b++ {
			r := pearson(series[cols[a]], series[cols[b]])
			coef[[2]string{cols[a], cols[b]}] = r
			coef[[2]string{cols[b], cols[a]}] = r
		}
	}

	ordered := orderColumns(cols, coef, order)
	m := &CorrMatrix{Columns: ordered, Values: make([][]float64, len(ordered)), Rows: n}
	for i, a := range ordered {
		m.Values[i] = make([]float64, len(ordered))
		for j, b := range ordered {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			m.Values[i][j] = coef[[2]string{a, b}]
		}
	}
	return m, nil
}

// pearson returns 0 when either input has zero variance or fewer than two
// observations.
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	switch {
	case math.IsNaN(r) || math.IsInf(r, 0):
		return 0
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

func orderColumns(cols []string, coef map[[2]string]float64, order Order) []string {
	out := append([]string(nil), cols...)
	if order != OrderAbsolute {
		sort.Strings(out)
		return out
	}
	avg := make(map[string]float64, len(cols))
	for _, a := range cols {
		var sum float64
		for _, b := range cols {
			if a != b {
				sum += math.Abs(coef[[2]string{a, b}])
			}
		}
		avg[a] = sum / float64(len(cols)-1)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if avg[out[i]] == avg[out[j]] {
			return out[i] < out[j]
		}
		return avg[out[i]] > avg[out[j]]
	})
	return out
}

func uniqueColumns(cols []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range cols {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
