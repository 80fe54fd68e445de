package connector

import (
	"database/sql"
	"errors"
	"strings"
)

// DefaultFetchSize is the batch size used by FetchMany when n <= 0.
const DefaultFetchSize = 100000

// Cursor reads the rows of one query.
type Cursor struct {
	rows    *sql.Rows
	columns []string
	binary  []bool
	owner   *Database
	done    bool
}

func newCursor(rows *sql.Rows) (*Cursor, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	c := &Cursor{rows: rows, columns: cols, binary: make([]bool, len(cols))}
	if types, err := rows.ColumnTypes(); err == nil {
		for i, t := range types {
			c.binary[i] = isBinaryType(t.DatabaseTypeName())
		}
	}
	return c, nil
}

func isBinaryType(name string) bool {
	n := strings.ToUpper(name)
	return strings.Contains(n, "BLOB") || strings.Contains(n, "BINARY") ||
		n == "BYTEA" || n == "RAW" || n == "IMAGE" || n == "LONG RAW"
}

// Columns are the result column names in select order.
func (c *Cursor) Columns() []string { return c.columns }

// FetchOne returns the next row, or nil when the cursor is exhausted.
func (c *Cursor) FetchOne() ([]any, error) {
	rows, err := c.FetchMany(1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// FetchMany returns up to n rows. An empty result means the cursor is
// exhausted.
func (c *Cursor) FetchMany(n int) ([][]any, error) {
	if n <= 0 {
		n = DefaultFetchSize
	}
	if c.done {
		return nil, nil
	}
	var out [][]any
	for len(out) < n {
		if !c.rows.Next() {
			c.done = true
			if err := c.rows.Err(); err != nil {
				return out, err
			}
			break
		}
		row, err := c.scan()
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	return out, nil
}

// FetchAll drains the cursor.
func (c *Cursor) FetchAll() ([][]any, error) {
	var all [][]any
	for {
		batch, err := c.FetchMany(DefaultFetchSize)
		all = append(all, batch...)
		if err != nil || len(batch) == 0 {
			return all, err
		}
	}
}

func (c *Cursor) scan() ([]any, error) {
	vals := make([]any, len(c.columns))
	ptrs := make([]any, len(c.columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		return nil, err
	}
	for i, v := range vals {
		if b, ok := v.([]byte); ok {
			if c.binary[i] {
				vals[i] = append([]byte(nil), b...)
			} else {
				vals[i] = string(b)
			}
		}
	}
	return vals, nil
}

// Close releases the result set. It is safe to call more than once.
func (c *Cursor) Close() error {
	if c.owner != nil {
		delete(c.owner.cursors, c)
		c.owner = nil
	}
	c.done = true
	err := c.rows.Close()
	if errors.Is(err, sql.ErrConnDone) {
		return nil
	}
	return err
}
