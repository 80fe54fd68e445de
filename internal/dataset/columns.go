package dataset

import (
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"table-pump/internal/errs"
)

// Index resolves column references to 0-based positions. A reference is a
// 1-based position (any integer type, or a numeric string) or a column name
// matched case-insensitively, first match wins. Strings may hold a comma
// separated list. No references selects every column, which Select and Values
// rely on.
func (d *Dataset) Index(refs ...any) ([]int, error) {
	cols := d.Columns()
	if len(refs) == 0 {
		idx := make([]int, len(cols))
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	}
	var out []int
	for _, ref := range refs {
		switch r := ref.(type) {
		case string:
			for _, part := range strings.Split(r, ",") {
				i, err := d.resolveName(cols, strings.TrimSpace(part))
				if err != nil {
					return nil, err
				}
				out = append(out, i)
			}
		case []string:
			for _, part := range r {
				i, err := d.resolveName(cols, part)
				if err != nil {
					return nil, err
				}
				out = append(out, i)
			}
		case []int:
			for _, n := range r {
				i, err := position(cols, n)
				if err != nil {
					return nil, err
				}
				out = append(out, i)
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			i, err := position(cols, cast.ToInt(r))
			if err != nil {
				return nil, err
			}
			out = append(out, i)
		default:
			return nil, errs.Shapef("unsupported column reference %v (%T)", ref, ref)
		}
	}
	return out, nil
}

func (d *Dataset) resolveName(cols []string, name string) (int, error) {
	if n, err := strconv.Atoi(name); err == nil {
		return position(cols, n)
	}
	if i := indexFold(cols, name); i >= 0 {
		return i, nil
	}
	return -1, errs.Shapef("column %q is not in dataset columns", name)
}

func position(cols []string, n int) (int, error) {
	if n < 1 || n > len(cols) {
		return -1, errs.Shapef("column position %d out of range 1..%d", n, len(cols))
	}
	return n - 1, nil
}

func indexFold(cols []string, name string) int {
	return slices.IndexFunc(cols, func(c string) bool { return strings.EqualFold(c, name) })
}

// Select returns a new dataset with copies of the chosen columns.
func (d *Dataset) Select(refs ...any) (*Dataset, error) {
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	cols := d.Columns()
	names := make([]string, len(idx))
	for i, c := range idx {
		names[i] = cols[c]
	}
	rows := make([][]any, len(d.rows))
	for r, row := range d.rows {
		out := make([]any, len(idx))
		for i, c := range idx {
			out[i] = cell(row, c)
		}
		rows[r] = out
	}
	return build(rows, names, WithColumnPrefix(d.prefix)), nil
}

// Values returns the chosen columns column-major: one slice per column.
func (d *Dataset) Values(refs ...any) ([][]any, error) {
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(idx))
	for i, c := range idx {
		col := make([]any, len(d.rows))
		for r, row := range d.rows {
			col[r] = cell(row, c)
		}
		out[i] = col
	}
	return out, nil
}

// Assign overwrites the chosen columns. values is column-major and must hold
// one slice per chosen column, each with one value per row.
func (d *Dataset) Assign(values [][]any, refs ...any) (*Dataset, error) {
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	if len(values) != len(idx) {
		return nil, errs.Shapef("%d value lists for %d columns", len(values), len(idx))
	}
	for _, col := range values {
		if len(col) != len(d.rows) {
			return nil, errs.Shapef("%d values for %d rows", len(col), len(d.rows))
		}
	}
	for r, row := range d.rows {
		for i, c := range idx {
			if c >= len(row) {
				return nil, errs.Shapef("row %d has %d values", r, len(row))
			}
			row[c] = values[i][r]
		}
	}
	return d, nil
}

// Remove deletes the chosen columns from the header and from every row. No
// references removes nothing.
func (d *Dataset) Remove(refs ...any) (*Dataset, error) {
	if len(refs) == 0 {
		return d, nil
	}
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)
	drop := func(s []any) []any {
		for shift, c := range idx {
			if c-shift < len(s) {
				s = slices.Delete(s, c-shift, c-shift+1)
			}
		}
		return s
	}
	cols := d.Columns()
	for shift, c := range idx {
		cols = slices.Delete(cols, c-shift, c-shift+1)
	}
	d.columns = cols
	for r, row := range d.rows {
		d.rows[r] = drop(row)
	}
	return d, nil
}

// Rename replaces every column name. names must match the column count.
func (d *Dataset) Rename(names []string) (*Dataset, error) {
	if len(names) != len(d.Columns()) {
		return nil, errs.Shapef("different length of fields (source: %d, target: %d)", len(d.Columns()), len(names))
	}
	d.columns = slices.Clone(names)
	return d, nil
}

// RenameMap renames columns through a case-insensitive old-to-new mapping.
// Columns not in the mapping keep their names.
func (d *Dataset) RenameMap(mapping map[string]string) *Dataset {
	lower := make(map[string]string, len(mapping))
	for k, v := range mapping {
		lower[strings.ToLower(k)] = v
	}
	cols := d.Columns()
	for i, c := range cols {
		if v, ok := lower[strings.ToLower(c)]; ok {
			cols[i] = v
		}
	}
	return d
}

// AppendDefaultValues adds each column not already present, in sorted name
// order, holding the given constant in every row.
func (d *Dataset) AppendDefaultValues(defaults map[string]any) *Dataset {
	cols := d.Columns()
	var names []string
	for _, k := range sortedKeys(defaults) {
		if indexFold(cols, k) < 0 {
			names = append(names, k)
		}
	}
	d.columns = append(cols, names...)
	for r, row := range d.rows {
		for _, k := range names {
			row = append(row, defaults[k])
		}
		d.rows[r] = row
	}
	return d
}

// AutoIncrement overwrites the chosen columns with a counter starting at
// start, one value per row shared by all chosen columns. No references
// changes nothing.
func (d *Dataset) AutoIncrement(start int, refs ...any) (*Dataset, error) {
	if len(refs) == 0 {
		return d, nil
	}
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	for r, row := range d.rows {
		for _, c := range idx {
			if c < len(row) {
				row[c] = start + r
			}
		}
	}
	return d, nil
}

func cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}
