package analysis

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// Filter is an optional equality filter. Cells and Value are compared by
// their string forms, so the number 5 matches "5".
type Filter struct {
	Column string `json:"column,omitempty" yaml:"column,omitempty"`
	Value  string `json:"value,omitempty" yaml:"value,omitempty"`
}

// ParseFilter parses "column=value". An empty expression is no filter.
func ParseFilter(expr string) (Filter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Filter{}, nil
	}
	col, val, ok := strings.Cut(expr, "=")
	if !ok || strings.TrimSpace(col) == "" {
		return Filter{}, fmt.Errorf("invalid filter %q (want column=value)", expr)
	}
	return Filter{Column: strings.TrimSpace(col), Value: strings.TrimSpace(val)}, nil
}

// Active reports whether the filter restricts anything.
func (f Filter) Active() bool { return f.Column != "" && f.Value != "" }

func (f Filter) String() string {
	if !f.Active() {
		return ""
	}
	return f.Column + "=" + f.Value
}

// Apply returns the rows of t matching the filter. An inactive filter returns
// t itself. Zero matches is not an error.
func (f Filter) Apply(t *table.Table) (*table.Table, error) {
	if !f.Active() {
		return t, nil
	}
	if !t.HasColumn(f.Column) {
		return nil, &table.InvalidColumnError{Column: f.Column, Reason: "filter column not in table"}
	}
	rows := make([]table.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if c, ok := r.Get(f.Column); ok && c.String() == f.Value {
			rows = append(rows, r)
		}
	}
	return t.WithRows(rows), nil
}
