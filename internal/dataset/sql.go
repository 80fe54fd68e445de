package dataset

import (
	"context"
	"errors"

	"table-pump/internal/connector"
)

// FetchBatch is the number of rows pulled from a cursor per fetch.
const FetchBatch = connector.DefaultFetchSize

// Cursor is a query result read in batches.
type Cursor interface {
	Columns() []string
	FetchMany(n int) ([][]any, error)
	Close() error
}

// Querier runs a query on a live session.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*connector.Cursor, error)
}

// Inserter writes rows to a table in the session transaction.
type Inserter interface {
	Insert(ctx context.Context, table string, fields []string, rows ...[]any) (int64, error)
	Commit() error
}

// FromCursor drains c in batches of FetchBatch rows. Columns come from the
// result description. The cursor is not closed.
func FromCursor(c Cursor) (*Dataset, error) {
	d := New()
	d.columns = append([]string(nil), c.Columns()...)
	for {
		rows, err := c.FetchMany(FetchBatch)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return d, nil
		}
		d.rows = append(d.rows, rows...)
	}
}

// FromSQL runs query on db and loads the whole result.
func FromSQL(ctx context.Context, db Querier, query string, args ...any) (d *Dataset, err error) {
	c, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, c.Close()) }()
	return FromCursor(c)
}

// FromURL opens a session for the connection URL, loads the query result and
// closes the session.
func FromURL(ctx context.Context, url, query string, args ...any) (d *Dataset, err error) {
	db, err := connector.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, db.Close()) }()
	return FromSQL(ctx, db, query, args...)
}

// SQLOptions controls ToSQL.
type SQLOptions struct {
	// BatchSize is the number of rows per insert call, default FetchBatch.
	BatchSize int
	// AutoCommit commits once every row is inserted.
	AutoCommit bool
	// OnBatch is called after each batch with the rows written so far.
	OnBatch func(done, total int)
}

// ToSQL inserts every row into table using the dataset columns as the field
// list and returns the number of rows written.
func (d *Dataset) ToSQL(ctx context.Context, db Inserter, table string, opts SQLOptions) (int64, error) {
	size := opts.BatchSize
	if size <= 0 {
		size = FetchBatch
	}
	fields := d.Columns()
	var total int64
	for start := 0; start < len(d.rows); start += size {
		end := min(start+size, len(d.rows))
		n, err := db.Insert(ctx, table, fields, d.rows[start:end]...)
		if err != nil {
			return total, err
		}
		total += n
		if opts.OnBatch != nil {
			opts.OnBatch(end, len(d.rows))
		}
	}
	if opts.AutoCommit {
		if err := db.Commit(); err != nil {
			return total, err
		}
	}
	return total, nil
}
