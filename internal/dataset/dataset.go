// Package dataset is an in-memory table: ordered columns, row-major values and
// the extra rows a spreadsheet source carries above its header. It converts
// between records, CSV, JSON, workbooks and database tables.
package dataset

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"table-pump/internal/errs"
)

// DefaultColumnPrefix names synthesized columns Col1..ColN.
const DefaultColumnPrefix = "Col"

// Dataset is not safe for concurrent use. Mutators change the receiver and
// return it for chaining.
type Dataset struct {
	columns []string
	rows    [][]any
	extra   [][]any
	prefix  string
}

// Option configures a Dataset at construction.
type Option func(*Dataset)

// WithColumnPrefix sets the prefix used to name columns of headerless data.
func WithColumnPrefix(prefix string) Option {
	return func(d *Dataset) { d.prefix = prefix }
}

// WithExtraRows attaches rows that are written above the header of a
// workbook export.
func WithExtraRows(rows ...[]any) Option {
	return func(d *Dataset) { d.extra = rows }
}

// New returns an empty dataset.
func New(opts ...Option) *Dataset {
	d := &Dataset{prefix: DefaultColumnPrefix}
	for _, o := range opts {
		o(d)
	}
	return d
}

// FromRecords builds a dataset from copies of rows and columns, so later
// mutations never reach the caller's slices. With no columns, names are
// synthesized from the first row's width.
func FromRecords(rows [][]any, columns []string, opts ...Option) *Dataset {
	return build(cloneRows(rows), slices.Clone(columns), opts...)
}

// build wraps slices the package itself allocated.
func build(rows [][]any, columns []string, opts ...Option) *Dataset {
	d := New(opts...)
	d.rows = rows
	d.columns = columns
	return d
}

// FromMaps builds a dataset from key/value rows. Columns are the keys in the
// order they are first seen; keys new to a row are taken in sorted order.
// Keys absent from a row become nil.
func FromMaps(records []map[string]any, opts ...Option) *Dataset {
	var columns []string
	seen := map[string]bool{}
	for _, rec := range records {
		for _, k := range slices.Sorted(maps.Keys(rec)) {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	rows := make([][]any, len(records))
	for i, rec := range records {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = rec[c]
		}
		rows[i] = row
	}
	return build(rows, columns, opts...)
}

// FromColumns transposes column vectors into rows. Every vector must have the
// same length.
func FromColumns(names []string, values [][]any, opts ...Option) (*Dataset, error) {
	if len(names) != len(values) {
		return nil, errs.Shapef("%d column names for %d value lists", len(names), len(values))
	}
	n := 0
	if len(values) > 0 {
		n = len(values[0])
	}
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = make([]any, len(names))
	}
	for c, col := range values {
		if len(col) != n {
			return nil, errs.Shapef("column %q has %d values, expected %d", names[c], len(col), n)
		}
		for r, v := range col {
			rows[r][c] = v
		}
	}
	return build(rows, slices.Clone(names), opts...), nil
}

// FromDict is FromColumns over a map, with columns in sorted key order.
func FromDict(data map[string][]any, opts ...Option) (*Dataset, error) {
	names := slices.Sorted(maps.Keys(data))
	values := make([][]any, len(names))
	for i, n := range names {
		values[i] = data[n]
	}
	return FromColumns(names, values, opts...)
}

// FromString builds a single-row dataset by splitting s on sep, or on a comma
// when sep is empty.
func FromString(s, sep string, opts ...Option) *Dataset {
	if sep == "" {
		sep = ","
	}
	parts := strings.Split(s, sep)
	row := make([]any, len(parts))
	for i, p := range parts {
		row[i] = p
	}
	return build([][]any{row}, nil, opts...)
}

// FromValue builds a one-cell dataset.
func FromValue(v any, opts ...Option) *Dataset {
	return build([][]any{{v}}, nil, opts...)
}

// Copy returns a deep copy of the columns and rows.
func (d *Dataset) Copy() *Dataset {
	c := &Dataset{
		columns: slices.Clone(d.Columns()),
		rows:    cloneRows(d.rows),
		extra:   cloneRows(d.extra),
		prefix:  d.prefix,
	}
	return c
}

func cloneRows(rows [][]any) [][]any {
	if rows == nil {
		return nil
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out
}

// Columns returns the column names, naming them from the prefix first when
// the dataset has rows but no header.
func (d *Dataset) Columns() []string {
	if len(d.columns) == 0 && len(d.rows) > 0 {
		d.columns = SyntheticColumns(d.prefix, len(d.rows[0]))
	}
	return d.columns
}

// SyntheticColumns returns prefix1..prefixN.
func SyntheticColumns(prefix string, n int) []string {
	if prefix == "" {
		prefix = DefaultColumnPrefix
	}
	cols := make([]string, n)
	for i := range cols {
		cols[i] = prefix + strconv.Itoa(i+1)
	}
	return cols
}

// Rows returns the row slices. Callers may modify the values in place.
func (d *Dataset) Rows() [][]any { return d.rows }

// ExtraRows returns the rows kept above the header.
func (d *Dataset) ExtraRows() [][]any { return d.extra }

// SetExtraRows replaces the rows kept above the header.
func (d *Dataset) SetExtraRows(rows [][]any) *Dataset {
	d.extra = rows
	return d
}

// Len is the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Width is the number of columns.
func (d *Dataset) Width() int { return len(d.Columns()) }

// IsEmpty reports whether the dataset holds no values.
func (d *Dataset) IsEmpty() bool {
	return len(d.rows) == 0 || len(d.rows[0]) == 0
}

// Close drops the buffered rows and header.
func (d *Dataset) Close() error {
	d.columns, d.rows, d.extra = nil, nil, nil
	return nil
}
