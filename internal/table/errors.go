package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyFile is wrapped by ParseError when the input has no content.
	ErrEmptyFile = errors.New("empty file")
	// ErrUnsupportedType is wrapped by ParseError for unknown file formats.
	ErrUnsupportedType = errors.New("unsupported type")
)

// ParseError reports malformed, empty or unsupported input. No partial table
// accompanies it.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("parse: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InsufficientDataError indicates too few rows or columns for an analysis.
type InsufficientDataError struct {
	Op   string
	What string
	Need int
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: need at least %d %s, have %d", e.Op, e.Need, e.What, e.Have)
}

// InvalidColumnError indicates a referenced column is absent or has the wrong
// type for the requested operation.
type InvalidColumnError struct {
	Column string
	Reason string
}

func (e *InvalidColumnError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid column %q", e.Column)
	}
	return fmt.Sprintf("invalid column %q: %s", e.Column, e.Reason)
}
