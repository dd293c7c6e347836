package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv") || name == "csv" || name == "tsv"
}

// Parse reads delimited text. The first record is the header; a later line
// whose field count differs from the header is skipped and noted in
// Table.Warnings rather than padded or truncated.
func (p csvParser) Parse(content []byte, opt Options) (*table.Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(content)
	}
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &table.ParseError{Source: "csv", Err: table.ErrEmptyFile}
		}
		return nil, &table.ParseError{Source: "csv", Err: fmt.Errorf("read header: %w", err)}
	}
	t := table.New(header)
	ncol := len(t.Columns)
	log := opt.logger()

	skipped := 0
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &table.ParseError{Source: "csv", Err: fmt.Errorf("read row %d: %w", t.Len()+skipped+1, err)}
		}
		if len(rec) != ncol {
			line, _ := r.FieldPos(0)
			log.Warn("skipping malformed row", slog.Int("line", line), slog.Int("fields", len(rec)), slog.Int("want", ncol))
			skipped++
			continue
		}
		cells := make([]table.Cell, ncol)
		for i, v := range rec {
			cells[i] = table.ParseCell(v)
		}
		if err := t.AppendValues(cells); err != nil {
			return nil, &table.ParseError{Source: "csv", Err: err}
		}
	}
	if skipped > 0 {
		t.Warnings = append(t.Warnings, fmt.Sprintf("skipped %d row(s) whose field count did not match the %d-column header", skipped, ncol))
	}
	return t, nil
}

// sniffDelimiter picks the most frequent of ',', ';' and '\t' in the header
// line, defaulting to ','.
func sniffDelimiter(content []byte) rune {
	line := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		line = content[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{',', ';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
