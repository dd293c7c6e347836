package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// Operator is an aggregation operator.
type Operator string

const (
	OpSum     Operator = "sum"
	OpAverage Operator = "average"
	OpCount   Operator = "count"
	OpMin     Operator = "min"
	OpMax     Operator = "max"
	OpMedian  Operator = "median"
	OpMode    Operator = "mode"
)

// Operators lists every supported operator.
var Operators = []Operator{OpSum, OpAverage, OpCount, OpMin, OpMax, OpMedian, OpMode}

// ParseOperator accepts operator names case-insensitively, plus "avg" and
// "mean" for average.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum":
		return OpSum, nil
	case "average", "avg", "mean":
		return OpAverage, nil
	case "count":
		return OpCount, nil
	case "min":
		return OpMin, nil
	case "max":
		return OpMax, nil
	case "median":
		return OpMedian, nil
	case "mode":
		return OpMode, nil
	}
	return "", fmt.Errorf("unsupported aggregation %q (use sum|average|count|min|max|median|mode)", s)
}

// Point is one aggregated group. A group with no qualifying samples keeps
// Value 0 and reports Valid false.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	N     int     `json:"n"`
	Valid bool    `json:"valid"`
}

// Result is an ordered aggregation.
type Result struct {
	GroupBy  string   `json:"group_by"`
	Value    string   `json:"value"`
	Operator Operator `json:"operator"`
	Points   []Point  `json:"points"`
}

type bucket struct {
	label   string
	samples []float64
	defined int
}

// Aggregate groups t by groupBy and reduces value with op. Rows without a
// groupBy value are skipped. For count, every row defining value counts;
// for the other operators only Number values are sampled.
func Aggregate(t *table.Table, groupBy, value string, op Operator) (*Result, error) {
	for _, col := range []string{groupBy, value} {
		if !t.HasColumn(col) {
			return nil, &table.InvalidColumnError{Column: col, Reason: "not in table"}
		}
	}
	if op != OpCount && t.Len() > 0 && !t.IsNumericColumn(value) {
		return nil, &table.InvalidColumnError{Column: value, Reason: fmt.Sprintf("no numeric values for %s; use count", op)}
	}

	index := map[string]*bucket{}
	var order []*bucket
	for _, r := range t.Rows {
		key, ok := r.Get(groupBy)
		if !ok {
			continue
		}
		label := key.String()
		b := index[label]
		if b == nil {
			b = &bucket{label: label}
			index[label] = b
			order = append(order, b)
		}
		c, ok := r.Get(value)
		if !ok {
			continue
		}
		b.defined++
		if v, isNum := c.Number(); isNum {
			b.samples = append(b.samples, v)
		}
	}

	res := &Result{GroupBy: groupBy, Value: value, Operator: op, Points: make([]Point, 0, len(order))}
	for _, b := range order {
		res.Points = append(res.Points, reduce(b, op))
	}
	sortPoints(res.Points)
	return res, nil
}

func reduce(b *bucket, op Operator) Point {
	p := Point{Label: b.label}
	if op == OpCount {
		p.N = b.defined
		p.Value = float64(b.defined)
		p.Valid = true
		return p
	}
	p.N = len(b.samples)
	if p.N == 0 {
		return p
	}
	data := stats.Float64Data(b.samples)
	var err error
	switch op {
	case OpSum:
		p.Value, err = data.Sum()
	case OpAverage:
		p.Value, err = data.Mean()
	case OpMin:
		p.Value, err = data.Min()
	case OpMax:
		p.Value, err = data.Max()
	case OpMedian:
		p.Value, err = data.Median()
	case OpMode:
		p.Value = firstMode(b.samples)
	}
	p.Valid = err == nil
	if !p.Valid {
		p.Value = 0
	}
	return p
}

// firstMode returns the most frequent value; ties go to the value seen first.
func firstMode(vals []float64) float64 {
	freq := make(map[float64]int, len(vals))
	top := 0
	for _, v := range vals {
		freq[v]++
		if freq[v] > top {
			top = freq[v]
		}
	}
	for _, v := range vals {
		if freq[v] == top {
			return v
		}
	}
	return 0
}

// sortPoints orders numerically when every label is numeric, otherwise
// lexicographically.
func sortPoints(points []Point) {
	nums := make([]float64, len(points))
	allNumeric := true
	for i, p := range points {
		v, ok := table.ParseNumber(strings.TrimSpace(p.Label))
		if !ok {
			allNumeric = false
			break
		}
		nums[i] = v
	}
	if allNumeric {
		idx := make([]int, len(points))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			if nums[idx[a]] == nums[idx[b]] {
				return points[idx[a]].Label < points[idx[b]].Label
			}
			return nums[idx[a]] < nums[idx[b]]
		})
		sorted := make([]Point, len(points))
		for i, j := range idx {
			sorted[i] = points[j]
		}
		copy(points, sorted)
		return
	}
	sort.SliceStable(points, func(a, b int) bool { return points[a].Label < points[b].Label })
}
