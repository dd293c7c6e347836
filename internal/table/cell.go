package table

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a cell value.
type Kind int

const (
	Empty Kind = iota
	Text
	Number
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return "empty"
	}
}

// Cell is a single table entry. The zero value is an Empty cell.
type Cell struct {
	kind Kind
	num  float64
	text string
	// null marks a decoded JSON null; FromRecords treats it as undefined.
	null bool
}

// NumberCell builds a Number cell. Non-finite values become Empty.
func NumberCell(v float64) Cell {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Cell{}
	}
	return Cell{kind: Number, num: v}
}

// TextCell builds a Text cell from an already-trimmed string that is known
// not to be numeric. Use ParseCell for raw input.
func TextCell(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{kind: Text, text: s}
}

// ParseCell is the single coercion rule for raw values: after trimming, a
// non-empty string that fully parses as a finite numeric literal is a
// Number, a blank string is Empty, anything else is Text.
func ParseCell(raw string) Cell {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Cell{}
	}
	if v, ok := ParseNumber(s); ok {
		return Cell{kind: Number, num: v}
	}
	return Cell{kind: Text, text: s}
}

// ParseNumber reports whether s (already trimmed) is a finite numeric literal.
func ParseNumber(s string) (float64, bool) {
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (c Cell) Kind() Kind { return c.kind }
func (c Cell) IsNumber() bool { return c.kind == Number }
func (c Cell) IsEmpty() bool { return c.kind == Empty }
func (c Cell) IsNull() bool { return c.null }
func (c Cell) Float() float64 { return c.num }
func (c Cell) Number() (float64, bool) {
	return c.num, c.kind == Number
}

// String is the canonical textual form used for labels and equality filters.
// Numbers format without trailing zeros so 5 and "5" compare equal.
func (c Cell) String() string {
	switch c.kind {
	case Number:
		return FormatNumber(c.num)
	case Text:
		return c.text
	default:
		return ""
	}
}

// FormatNumber renders v in the shortest form that round-trips.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalJSON writes Numbers as JSON numbers and everything else as strings.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.null {
		return []byte("null"), nil
	}
	if c.kind == Number {
		return json.Marshal(c.num)
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts numbers, strings, booleans and null. Strings go
// through ParseCell so a numeric string is classified like any parsed input.
// null decodes to an Empty cell flagged IsNull.
func (c *Cell) UnmarshalJSON(b []byte) error {
	if string(bytes.TrimSpace(b)) == "null" {
		*c = Cell{null: true}
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*c = FromAny(v)
	return nil
}

// FromAny converts a decoded JSON or spreadsheet value into a Cell.
func FromAny(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case json.Number:
		return ParseCell(x.String())
	case bool:
		return TextCell(strconv.FormatBool(x))
	case string:
		return ParseCell(x)
	default:
		return Cell{}
	}
}
