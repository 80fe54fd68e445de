package dataset

import (
	"bytes"

	"github.com/xuri/excelize/v2"

	"table-pump/internal/excel"
)

// SheetOptions controls how a worksheet becomes a dataset.
type SheetOptions struct {
	// HeaderRow is the 1-based row holding the column names, default 1. Rows
	// above it become extra rows.
	HeaderRow int
	// NoHeader reads every row as data.
	NoHeader bool
	// KeepEmptyColumns disables pruning of columns with an empty header cell.
	KeepEmptyColumns bool
	// DropExtraRows discards the rows above the header.
	DropExtraRows bool
}

// Sheet is one worksheet read from a workbook.
type Sheet struct {
	Title string
	Data  *Dataset
}

// FromWorksheet reads one sheet of an open workbook. Empty cells are nil.
// Unless KeepEmptyColumns is set, columns whose header cell is empty are
// dropped; without a header, columns with no value at all are dropped.
func FromWorksheet(f *excelize.File, sheet string, opts SheetOptions) (*Dataset, error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}
	grid := make([][]any, len(raw))
	for i, r := range raw {
		row := make([]any, width)
		for j, v := range r {
			if v != "" {
				row[j] = v
			}
		}
		grid[i] = row
	}

	h := opts.HeaderRow
	if h <= 0 {
		h = 1
	}
	if opts.NoHeader {
		h = 0
	}
	if !opts.KeepEmptyColumns {
		grid = pruneColumns(grid, h, width)
	}

	d := New()
	if h == 0 {
		d.rows = grid
		return d, nil
	}
	if len(grid) < h {
		return d, nil
	}
	d.columns = make([]string, len(grid[h-1]))
	for i, v := range grid[h-1] {
		if v != nil {
			d.columns[i] = v.(string)
		}
	}
	d.rows = grid[h:]
	if !opts.DropExtraRows && h > 1 {
		d.extra = grid[:h-1]
	}
	return d, nil
}

// pruneColumns drops columns empty in the header row, or in every row when
// there is no header.
func pruneColumns(grid [][]any, header, width int) [][]any {
	keep := make([]bool, width)
	for c := range keep {
		if header > 0 {
			keep[c] = len(grid) >= header && grid[header-1][c] != nil
			continue
		}
		for _, row := range grid {
			if row[c] != nil {
				keep[c] = true
				break
			}
		}
	}
	for r, row := range grid {
		out := row[:0]
		for c, v := range row {
			if keep[c] {
				out = append(out, v)
			}
		}
		grid[r] = out
	}
	return grid
}

// FromExcel reads a sheet of a workbook file; an empty sheet name reads the
// active sheet.
func FromExcel(name, sheet string, opts SheetOptions) (*Dataset, error) {
	f, err := excelize.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	return FromWorksheet(f, sheet, opts)
}

// ReadWorkbook reads the named sheets, or every sheet in workbook order.
func ReadWorkbook(name string, opts SheetOptions, sheets ...string) ([]Sheet, error) {
	f, err := excelize.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if len(sheets) == 0 {
		sheets = f.GetSheetList()
	}
	out := make([]Sheet, 0, len(sheets))
	for _, s := range sheets {
		d, err := FromWorksheet(f, s, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, Sheet{Title: s, Data: d})
	}
	return out, nil
}

// ToExcel writes the dataset to a workbook file.
func (d *Dataset) ToExcel(name string, opts excel.Options) error {
	return excel.WriteFile(name, opts, d)
}

// ToExcelBuffer writes the dataset to an in-memory workbook.
func (d *Dataset) ToExcelBuffer(opts excel.Options) (*bytes.Buffer, error) {
	return excel.WriteBuffer(opts, d)
}

// WriteWorkbook writes several datasets, one per sheet, to a workbook file.
func WriteWorkbook(name string, opts excel.Options, sets ...*Dataset) error {
	tables := make([]excel.Table, len(sets))
	for i, d := range sets {
		tables[i] = d
	}
	return excel.WriteFile(name, opts, tables...)
}
