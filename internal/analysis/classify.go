package analysis

import "github.com/KaramelBytes/tabloom-cli/internal/table"

// ColumnInfo is the derived classification of one column.
type ColumnInfo struct {
	Name     string `json:"name"`
	Numeric  bool   `json:"numeric"`
	DateLike bool   `json:"date_like"`
	Numbers  int    `json:"numbers"`
	Empty    int    `json:"empty"`
}

// Kind summarizes the classification for display.
func (c ColumnInfo) Kind() string {
	switch {
	case c.DateLike:
		return "date"
	case c.Numeric:
		return "numeric"
	default:
		return "text"
	}
}

// Classify reports, in header order, which columns are numeric (any Number
// cell) and date-like (first row's value parses as a date).
func Classify(t *table.Table) []ColumnInfo {
	out := make([]ColumnInfo, 0, len(t.Columns))
	for _, col := range t.Columns {
		ci := ColumnInfo{Name: col, DateLike: t.IsDateColumn(col)}
		for _, r := range t.Rows {
			switch r[col].Kind() {
			case table.Number:
				ci.Numbers++
			case table.Empty:
				ci.Empty++
			}
		}
		ci.Numeric = ci.Numbers > 0
		out = append(out, ci)
	}
	return out
}
