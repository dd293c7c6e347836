package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

// Options controls how raw content becomes a table.
type Options struct {
	// Delimiter for delimited text. If 0, detected from the file name and
	// header line among ',', ';' and '\t'.
	Delimiter rune
	// Sheet selects a workbook sheet by name; empty means the first sheet.
	Sheet string
	// Logger receives skipped-row diagnostics. Nil discards them.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Parser converts raw file content of one format family into a table.
type Parser interface {
	CanParse(filename string) bool
	Parse(content []byte, opt Options) (*table.Table, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// Parse selects a parser from formatHint (a file name or bare extension such
// as ".csv") and returns a freshly built table.
func Parse(content []byte, formatHint string, opt Options) (*table.Table, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, &table.ParseError{Source: formatHint, Err: table.ErrEmptyFile}
	}
	for _, p := range registry {
		if p.CanParse(formatHint) {
			t, err := p.Parse(content, opt)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	return nil, &table.ParseError{Source: formatHint, Err: table.ErrUnsupportedType}
}

// ParseFile reads path and parses it by extension. The table is named after
// the file's base name.
func ParseFile(path string, opt Options) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	t, err := Parse(data, filepath.Base(path), opt)
	if err != nil {
		return nil, err
	}
	t.Name = filepath.Base(path)
	return t, nil
}

// Supported reports whether some registered parser accepts filename.
func Supported(filename string) bool {
	for _, p := range registry {
		if p.CanParse(filename) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvParser{})
	Register(xlsxParser{})
}
