package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row maps column names to cell values. A column absent from the map is
// undefined, which is distinct from an Empty cell.
type Row map[string]Cell

// Get returns the cell for col and whether the row defines it.
func (r Row) Get(col string) (Cell, bool) {
	c, ok := r[col]
	return c, ok
}

// Table is the normalized in-memory dataset produced by parsing.
type Table struct {
	Name     string   `json:"name,omitempty"`
	Columns  []string `json:"columns"`
	Rows     []Row    `json:"rows"`
	Warnings []string `json:"warnings,omitempty"`
}

// New returns an empty table with normalized, unique column names.
func New(columns []string) *Table {
	return &Table{Columns: NormalizeHeader(columns)}
}

// NormalizeHeader trims names, names blank headers "column_N" (1-based) and
// suffixes duplicates with "_2", "_3", ... so every column is unique.
func NormalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		base := name
		for seen[name] > 0 {
			seen[base]++
			name = fmt.Sprintf("%s_%d", base, seen[base])
		}
		seen[name]++
		out[i] = name
	}
	return out
}

// AppendValues adds a row from positional cells. The value count must match
// the column count.
func (t *Table) AppendValues(values []Cell) error {
	if len(values) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.Columns))
	}
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		row[col] = values[i]
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether col is a declared column.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// WithRows returns a table sharing t's columns and name but holding rows.
// Rows are shared, never copied; tables are treated as immutable once built.
func (t *Table) WithRows(rows []Row) *Table {
	return &Table{Name: t.Name, Columns: t.Columns, Rows: rows, Warnings: t.Warnings}
}

// IsNumericColumn reports whether at least one row holds a Number in col.
func (t *Table) IsNumericColumn(col string) bool {
	for _, r := range t.Rows {
		if c, ok := r[col]; ok && c.IsNumber() {
			return true
		}
	}
	return false
}

// NumericColumns lists, in header order, every column with at least one Number.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, col := range t.Columns {
		if t.IsNumericColumn(col) {
			out = append(out, col)
		}
	}
	return out
}

// IsDateColumn classifies col as date-like from the first row's value.
func (t *Table) IsDateColumn(col string) bool {
	if len(t.Rows) == 0 {
		return false
	}
	c, ok := t.Rows[0][col]
	return ok && IsDateLike(c)
}

// Numbers returns the Number values of col in row order.
func (t *Table) Numbers(col string) []float64 {
	var out []float64
	for _, r := range t.Rows {
		if v, ok := r[col].Number(); ok {
			out = append(out, v)
		}
	}
	return out
}

// FromRecords builds a table from decoded JSON objects. Columns are taken
// from the explicit list when given, otherwise from the union of keys
// (record by record, each record's keys sorted). Missing keys and JSON nulls
// stay undefined in the row.
func FromRecords(columns []string, records []map[string]Cell) *Table {
	if len(columns) == 0 {
		seen := map[string]bool{}
		for _, rec := range records {
			for _, k := range sortedKeys(rec) {
				if !seen[k] {
					seen[k] = true
					columns = append(columns, k)
				}
			}
		}
	}
	t := &Table{Columns: columns, Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row := make(Row, len(columns))
		for _, col := range columns {
			if c, ok := rec[col]; ok && !c.IsNull() {
				row[col] = c
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
