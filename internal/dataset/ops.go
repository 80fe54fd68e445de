package dataset

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"table-pump/internal/errs"
)

// LeftJoin appends the columns of other to every row. on is "col" or
// "srcCol=tgtCol". Each row takes the first row of other whose target value
// equals its source value, or nils when nothing matches. The target key column
// is not appended; appended names already present get a _1, _2... suffix.
func (d *Dataset) LeftJoin(other *Dataset, on string) (*Dataset, error) {
	src, tgt, found := strings.Cut(on, "=")
	if !found {
		tgt = src
	}
	src, tgt = strings.TrimSpace(src), strings.TrimSpace(tgt)
	si := indexFold(d.Columns(), src)
	if si < 0 {
		return nil, errs.Shapef("column %s not in dataset", src)
	}
	otherCols := other.Columns()
	ti := indexFold(otherCols, tgt)
	if ti < 0 {
		return nil, errs.Shapef("column %s not in dataset", tgt)
	}

	// first row per key, keyed like Unique
	first := make(map[string][]any, len(other.rows))
	for _, row := range other.rows {
		k := key(cell(row, ti))
		if _, ok := first[k]; !ok {
			first[k] = row
		}
	}
	for r, row := range d.rows {
		match := first[key(cell(row, si))]
		for c := range otherCols {
			if c == ti {
				continue
			}
			row = append(row, cell(match, c))
		}
		d.rows[r] = row
	}

	cols := d.Columns()
	for c, name := range otherCols {
		if c == ti {
			continue
		}
		next := name
		for n := 1; indexFold(cols, next) >= 0; n++ {
			next = name + "_" + strconv.Itoa(n)
		}
		cols = append(cols, next)
	}
	d.columns = cols
	return d, nil
}

// Union appends the rows of other, which must have the same width.
func (d *Dataset) Union(other *Dataset) (*Dataset, error) {
	return d.UnionRows(other.rows)
}

// UnionRows appends rows of the dataset's width.
func (d *Dataset) UnionRows(rows [][]any) (*Dataset, error) {
	width := len(d.Columns())
	if width == 0 && len(rows) > 0 {
		width = len(rows[0])
	}
	for _, row := range rows {
		if len(row) != width {
			return nil, errs.Shapef("different length of data (source: %d, target: %d)", width, len(row))
		}
	}
	d.rows = append(d.rows, rows...)
	return d, nil
}

// Unique returns a new dataset restricted to the chosen columns holding one
// row per distinct combination of their values, in order of first occurrence.
func (d *Dataset) Unique(refs ...any) (*Dataset, error) {
	sel, err := d.Select(refs...)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(sel.rows))
	rows := sel.rows[:0]
	for _, row := range sel.rows {
		k := key(row...)
		if seen[k] {
			continue
		}
		seen[k] = true
		rows = append(rows, row)
	}
	sel.rows = rows
	return sel, nil
}

// key is a comparable identity for a tuple of cells. Numbers compare by value
// across Go types; otherwise values of different types never collide, so 1
// and "1" are distinct.
func key(values ...any) string {
	var b strings.Builder
	for _, v := range values {
		switch x := v.(type) {
		case nil:
			b.WriteString("<nil>")
		case []byte:
			fmt.Fprintf(&b, "string:%s", x)
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			fmt.Fprintf(&b, "num:%d", x)
		case float32, float64:
			f := cast.ToFloat64(x)
			if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				fmt.Fprintf(&b, "num:%d", int64(f))
			} else {
				fmt.Fprintf(&b, "num:%v", f)
			}
		case decimal.Decimal:
			if x.IsInteger() {
				fmt.Fprintf(&b, "num:%s", x.String())
			} else {
				fmt.Fprintf(&b, "num:%v", x.InexactFloat64())
			}
		default:
			fmt.Fprintf(&b, "%T:%v", v, v)
		}
		b.WriteByte(0)
	}
	return b.String()
}

// Convert replaces each value of the chosen columns with fn(value). The first
// error stops the conversion and is returned as is; rows already converted
// keep their new values.
func (d *Dataset) Convert(fn Converter, refs ...any) (*Dataset, error) {
	idx, err := d.Index(refs...)
	if err != nil {
		return nil, err
	}
	for _, row := range d.rows {
		for _, c := range idx {
			if c >= len(row) {
				continue
			}
			v, err := fn(row[c])
			if err != nil {
				return nil, err
			}
			row[c] = v
		}
	}
	return d, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
