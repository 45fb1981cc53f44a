package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoSheets = errors.New("workbook has no sheets")

const isoDate = "2006-01-02"

// ReadRows returns the rows of the first sheet of an Ads Manager XLSX export.
// Rows whose cells are all blank are skipped, as blank CSV lines are. Numbers
// keep their raw value; date-formatted cells are written as YYYY-MM-DD.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	dates := newDateCells(f, sheet)
	out := make([][]string, 0, len(rows))

	for i, row := range rows {
		if blank(row) {
			continue
		}

		for j, cell := range row {
			if d, ok := dates.format(i, j, cell); ok {
				row[j] = d
			}
		}

		out = append(out, row)
	}

	return out, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}

// dateCells recognises serial numbers stored in date-formatted cells.
type dateCells struct {
	f       *excelize.File
	sheet   string
	use1904 bool
	styles  map[int]bool
}

func newDateCells(f *excelize.File, sheet string) *dateCells {
	d := &dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.use1904 = *props.Date1904
	}

	return d
}

// format converts the cell at zero-based row i, column j when it holds a
// serial number under a date format.
func (d *dateCells) format(i, j int, raw string) (string, bool) {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", false
	}

	axis, err := excelize.CoordinatesToCellName(j+1, i+1)
	if err != nil {
		return "", false
	}

	idx, err := d.f.GetCellStyle(d.sheet, axis)
	if err != nil || !d.isDateStyle(idx) {
		return "", false
	}

	t, err := excelize.ExcelDateToTime(serial, d.use1904)
	if err != nil {
		return "", false
	}

	return t.Format(isoDate), true
}

func (d *dateCells) isDateStyle(idx int) bool {
	if idx == 0 {
		return false
	}

	if v, ok := d.styles[idx]; ok {
		return v
	}

	style, err := d.f.GetStyle(idx)
	isDate := err == nil && style != nil && isDateFormat(style)
	d.styles[idx] = isDate

	return isDate
}

// Built-in number formats that render a calendar date.
var builtinDateFormats = map[int]bool{14: true, 15: true, 16: true, 17: true, 22: true}

func isDateFormat(s *excelize.Style) bool {
	if s.CustomNumFmt != nil {
		return isDateCode(*s.CustomNumFmt)
	}

	return builtinDateFormats[s.NumFmt]
}

// isDateCode reports whether a custom format code has day or year tokens.
// Quoted literals, bracketed sections and escaped characters are ignored.
func isDateCode(code string) bool {
	var inQuote, inBracket, escaped bool

	for _, r := range strings.ToLower(code) {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd':
			return true
		}
	}

	return false
}
