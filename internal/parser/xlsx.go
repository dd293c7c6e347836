package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/tabloom-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range []string{".xlsx", ".xlsm", ".xls"} {
		if strings.HasSuffix(name, ext) || name == ext[1:] {
			return true
		}
	}
	return false
}

// Parse reads the selected (default: first) sheet with raw cell values, so
// date cells arrive as serial numbers. The first row is the header; shorter
// rows are padded with Empty cells and rows with no content are dropped.
func (xlsxParser) Parse(content []byte, opt Options) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, &table.ParseError{Source: "spreadsheet", Err: fmt.Errorf("open workbook (legacy binary .xls must be re-saved as .xlsx): %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &table.ParseError{Source: "spreadsheet", Err: table.ErrEmptyFile}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &table.ParseError{Source: "spreadsheet", Err: fmt.Errorf("sheet %q not found; available sheets: %s", opt.Sheet, strings.Join(sheets, ", "))}
		}
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &table.ParseError{Source: "spreadsheet", Err: fmt.Errorf("read sheet %q: %w", sheet, err)}
	}
	if len(rows) == 0 || isBlankRow(rows[0]) {
		return nil, &table.ParseError{Source: "spreadsheet", Err: table.ErrEmptyFile}
	}

	t := table.New(rows[0])
	ncol := len(t.Columns)
	log := opt.logger()
	dropped, truncated := 0, 0
	for i, raw := range rows[1:] {
		if isBlankRow(raw) {
			dropped++
			continue
		}
		if len(raw) > ncol {
			log.Debug("ignoring cells beyond header width", slog.Int("row", i+2), slog.Int("cells", len(raw)), slog.Int("want", ncol))
			truncated++
			raw = raw[:ncol]
		}
		cells := make([]table.Cell, ncol)
		for j, v := range raw {
			cells[j] = table.ParseCell(v)
		}
		if err := t.AppendValues(cells); err != nil {
			return nil, &table.ParseError{Source: "spreadsheet", Err: err}
		}
	}
	if dropped > 0 {
		log.Debug("dropped empty rows", slog.Int("count", dropped))
	}
	if truncated > 0 {
		t.Warnings = append(t.Warnings, fmt.Sprintf("ignored cells beyond the %d-column header in %d row(s)", ncol, truncated))
	}
	return t, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
