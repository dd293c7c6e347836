package analysis

import (
	"sort"
	"time"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// SeriesPoint is one observation of a time series.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Time parses the point's date.
func (p SeriesPoint) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, p.Date)
}

// ExtractSeries collects rows whose dateCol parses as a date and whose
// valueCol holds a Number, sorted by date. Dates are emitted as RFC3339 UTC.
func ExtractSeries(t *table.Table, dateCol, valueCol string) ([]SeriesPoint, error) {
	for _, col := range []string{dateCol, valueCol} {
		if !t.HasColumn(col) {
			return nil, &table.InvalidColumnError{Column: col, Reason: "not in table"}
		}
	}
	type obs struct {
		at time.Time
		v  float64
	}
	var raw []obs
	for _, r := range t.Rows {
		at, ok := table.ParseDate(r[dateCol])
		if !ok {
			continue
		}
		v, ok := r[valueCol].Number()
		if !ok {
			continue
		}
		raw = append(raw, obs{at: at.UTC(), v: v})
	}
	if len(raw) < 2 {
		return nil, &table.InsufficientDataError{Op: "series", What: "dated numeric rows", Need: 2, Have: len(raw)}
	}
	sort.SliceStable(raw, func(i, j int) bool { return raw[i].at.Before(raw[j].at) })
	out := make([]SeriesPoint, len(raw))
	for i, o := range raw {
		out[i] = SeriesPoint{Date: o.at.Format(time.RFC3339), Value: o.v}
	}
	return out, nil
}

// RegressionFrame returns the rows where dependent and every independent
// column hold Numbers, as flat numeric objects. It needs more rows than
// model parameters (independent columns plus the intercept).
func RegressionFrame(t *table.Table, dependent string, independent []string) ([]map[string]float64, error) {
	cols := uniqueColumns(append([]string{dependent}, independent...))
	if len(cols) < 2 || cols[0] != dependent {
		return nil, &table.InsufficientDataError{Op: "regression", What: "independent variables", Need: 1, Have: len(cols) - 1}
	}
	for _, c := range cols {
		if !t.HasColumn(c) {
			return nil, &table.InvalidColumnError{Column: c, Reason: "not in table"}
		}
		if !t.IsNumericColumn(c) {
			return nil, &table.InvalidColumnError{Column: c, Reason: "not numeric"}
		}
	}
	var frame []map[string]float64
	for _, r := range t.Rows {
		rec := make(map[string]float64, len(cols))
		complete := true
		for _, c := range cols {
			v, ok := r[c].Number()
			if !ok {
				complete = false
				break
			}
			rec[c] = v
		}
		if complete {
			frame = append(frame, rec)
		}
	}
	params := len(cols)
	if len(frame) <= params {
		return nil, &table.InsufficientDataError{Op: "regression", What: "complete rows", Need: params + 1, Have: len(frame)}
	}
	return frame, nil
}
