// Package excel writes tabular data to xlsx workbooks. A table longer than a
// sheet can hold continues on extra sheets named <title>_ext<n>.
package excel

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"table-pump/internal/errs"
)

// MaxRows is the row limit of one xlsx worksheet.
const MaxRows = 1048576

const (
	dateFormat = "yyyy-mm-dd hh:mm:ss"
	maxWidth   = 255
	// maxSheetName is the xlsx limit on sheet title length, in characters.
	maxSheetName = 31
)

// Table is the data written to a sheet.
type Table interface {
	Columns() []string
	Rows() [][]any
	// ExtraRows are written above the header on the first sheet only.
	ExtraRows() [][]any
}

// Options controls workbook output.
type Options struct {
	// SheetNames are the sheet titles in table order. Missing titles
	// default to Sheet1, Sheet2, ...
	SheetNames []string
	// Formatted adds header styling, borders, autofilter, frozen panes and
	// column widths.
	Formatted bool
	// MaxRows overrides the per-sheet row limit; zero means MaxRows.
	MaxRows int
}

func (o Options) maxRows() int {
	if o.MaxRows > 0 {
		return o.MaxRows
	}
	return MaxRows
}

func (o Options) title(i int) string {
	if i < len(o.SheetNames) && o.SheetNames[i] != "" {
		return o.SheetNames[i]
	}
	return fmt.Sprintf("Sheet%d", i+1)
}

// Range is a half-open slice [Start, End) of body rows.
type Range struct {
	Start, End int
}

// SplitRanges cuts total body rows into sheets of maxRows-1-extra rows: the
// header takes one row and the extra rows are budgeted on every sheet. An
// empty table still yields one empty range.
func SplitRanges(total, extra, maxRows int) ([]Range, error) {
	chunk := maxRows - 1 - extra
	if chunk <= 0 {
		return nil, errs.Shapef("%d extra rows leave no room for data in a %d row sheet", extra, maxRows)
	}
	if total == 0 {
		return []Range{{0, 0}}, nil
	}
	var out []Range
	for start := 0; start < total; start += chunk {
		out = append(out, Range{Start: start, End: min(start+chunk, total)})
	}
	return out, nil
}

// Write renders the tables as a workbook into w.
func Write(w io.Writer, opts Options, tables ...Table) error {
	f, err := build(opts, tables)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

// WriteFile renders the tables into a workbook file, replacing it.
func WriteFile(name string, opts Options, tables ...Table) error {
	f, err := build(opts, tables)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(name); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", name, err)
	}
	return nil
}

// WriteBuffer renders the tables into memory.
func WriteBuffer(opts Options, tables ...Table) (*bytes.Buffer, error) {
	f, err := build(opts, tables)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.WriteToBuffer()
}

type styles struct {
	extra, header, body, date, plainDate int
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	format := dateFormat
	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 12}},
		{
			Font:   &excelize.Font{Bold: true, Size: 12},
			Border: border,
			Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D7E4BC"}},
		},
		{Border: border},
		{Border: border, CustomNumFmt: &format},
		{CustomNumFmt: &format},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return styles{}, fmt.Errorf("failed to create cell style: %w", err)
		}
		ids[i] = id
	}
	return styles{extra: ids[0], header: ids[1], body: ids[2], date: ids[3], plainDate: ids[4]}, nil
}

func build(opts Options, tables []Table) (*excelize.File, error) {
	if len(tables) == 0 {
		return nil, errs.Shapef("no tables to write")
	}
	f := excelize.NewFile()
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	first := true
	names := sheetNames{}
	for i, t := range tables {
		if err := writeTable(f, st, opts, names, opts.title(i), t, &first); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// sheetNames hands out sheet titles, unique ignoring case as xlsx requires.
type sheetNames map[string]bool

// next returns base followed by suffix, shortening base so the title fits in
// maxSheetName characters. A title already taken gets _1, _2... appended to
// the suffix.
func (s sheetNames) next(base, suffix string) string {
	name := fitSheetName(base, suffix)
	for n := 1; s[strings.ToLower(name)]; n++ {
		name = fitSheetName(base, fmt.Sprintf("%s_%d", suffix, n))
	}
	s[strings.ToLower(name)] = true
	return name
}

func fitSheetName(base, suffix string) string {
	r := []rune(base)
	if keep := max(maxSheetName-utf8.RuneCountInString(suffix), 0); len(r) > keep {
		r = r[:keep]
	}
	return string(r) + suffix
}

func writeTable(f *excelize.File, st styles, opts Options, names sheetNames, title string, t Table, first *bool) error {
	cols := t.Columns()
	rows := t.Rows()
	extra := t.ExtraRows()
	for i, r := range rows {
		if len(r) != len(cols) {
			return errs.Shapef("sheet %s: row %d has %d values for %d columns", title, i+1, len(r), len(cols))
		}
	}
	ranges, err := SplitRanges(len(rows), len(extra), opts.maxRows())
	if err != nil {
		return err
	}

	title = names.next(title, "")
	for n, rg := range ranges {
		name := title
		lead := extra
		if n > 0 {
			name = names.next(title, fmt.Sprintf("_ext%d", n))
			lead = nil
		}
		if *first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
			*first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := writeSheet(f, st, opts.Formatted, name, cols, lead, rows[rg.Start:rg.End]); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, st styles, formatted bool, name string, cols []string, lead, body [][]any) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return err
	}
	headerRow := len(lead) + 1

	if formatted && len(cols) > 0 {
		for c, w := range columnWidths(cols, body) {
			if err := sw.SetColWidth(c+1, c+1, w); err != nil {
				return err
			}
		}
		top, _ := excelize.CoordinatesToCellName(1, headerRow+1)
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      headerRow,
			TopLeftCell: top,
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}

	row := 1
	put := func(values []any, style func(any) int) error {
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = excelize.Cell{StyleID: style(v), Value: cellValue(v)}
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		row++
		return sw.SetRow(cell, cells)
	}

	for _, r := range lead {
		if err := put(r, func(any) int {
			if formatted {
				return st.extra
			}
			return 0
		}); err != nil {
			return err
		}
	}
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := put(header, func(any) int {
		if formatted {
			return st.header
		}
		return 0
	}); err != nil {
		return err
	}
	bodyStyle := func(v any) int {
		_, isTime := v.(time.Time)
		switch {
		case formatted && isTime:
			return st.date
		case formatted:
			return st.body
		case isTime:
			return st.plainDate
		}
		return 0
	}
	for _, r := range body {
		if err := put(r, bodyStyle); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	if formatted && len(cols) > 0 {
		from, _ := excelize.CoordinatesToCellName(1, headerRow)
		to, _ := excelize.CoordinatesToCellName(len(cols), headerRow+len(body))
		if err := f.AutoFilter(name, from+":"+to, nil); err != nil {
			return err
		}
	}
	return nil
}

// cellValue converts values excelize cannot store directly.
func cellValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, time.Time,
		int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	case []byte:
		return string(x)
	case decimal.Decimal:
		return x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.InexactFloat64()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

// columnWidths sizes each column from the longer of its header and widest
// body cell with an empirical padding factor.
func columnWidths(cols []string, body [][]any) []float64 {
	widths := make([]float64, len(cols))
	for c, name := range cols {
		h := utf8.RuneCountInString(name)
		v := 0
		for _, r := range body {
			if n := utf8.RuneCountInString(CellText(r[c])); n > v {
				v = n
			}
		}
		pad := 1.23
		if h >= v-1 {
			pad = 4.23
		}
		w := (float64(max(h, v)) + pad) * 1.23
		widths[c] = min(w, maxWidth)
	}
	return widths
}

// CellText is the display text of a value as used for sizing.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(time.DateTime)
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(cellValue(v))
	}
}
