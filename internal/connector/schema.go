package connector

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"table-pump/internal/dialect"
	"table-pump/internal/errs"
	"table-pump/internal/schema"
)

// Metadata runs the introspection query for a purpose and returns its rows
// keyed by lower-cased column name. Purposes the engine cannot serve return
// a *errs.LimitationError without running anything.
func (db *Database) Metadata(ctx context.Context, purpose dialect.Purpose, object string) ([]schema.Row, error) {
	cols, data, err := db.introspect(ctx, purpose, object)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Row, len(data))
	for i, r := range data {
		row := make(schema.Row, len(cols))
		for j, c := range cols {
			row[strings.ToLower(c)] = r[j]
		}
		out[i] = row
	}
	return out, nil
}

// introspect runs the purpose's template and returns the result columns and
// rows in query order.
func (db *Database) introspect(ctx context.Context, purpose dialect.Purpose, object string) ([]string, [][]any, error) {
	tpl := dialect.Query(purpose, db.desc.Engine)
	switch tpl.Status {
	case dialect.NotPossible:
		return nil, nil, &errs.LimitationError{Message: dialect.NotPossibleText(db.desc.Engine, db.driver.Name)}
	case dialect.NotImplemented:
		return nil, nil, &errs.LimitationError{Message: dialect.NotImplementedText(purpose, db.desc.Engine)}
	}

	cur, err := db.Query(ctx, tpl.Bind(object))
	if err != nil {
		return nil, nil, err
	}
	defer cur.Close()
	data, err := cur.FetchAll()
	if err != nil {
		return nil, nil, err
	}
	return cur.Columns(), data, nil
}

// Version returns the server version banner, the first column of the first
// row of the version query.
func (db *Database) Version(ctx context.Context) (string, error) {
	_, data, err := db.introspect(ctx, dialect.Version, "")
	if err != nil {
		return "", err
	}
	if len(data) == 0 || len(data[0]) == 0 {
		return "unknown", nil
	}
	return cast.ToString(data[0][0]), nil
}

// Tables lists the user tables.
func (db *Database) Tables(ctx context.Context) ([]string, error) {
	return db.names(ctx, dialect.Tables, "table_name")
}

// Views lists the views with their definitions.
func (db *Database) Views(ctx context.Context) ([]schema.View, error) {
	rows, err := db.Metadata(ctx, dialect.Views, "")
	if err != nil {
		return nil, err
	}
	out := make([]schema.View, len(rows))
	for i, r := range rows {
		out[i] = schema.ViewFrom(r)
	}
	return out, nil
}

// TableColumns describes the columns of a table.
func (db *Database) TableColumns(ctx context.Context, table string) ([]schema.Column, error) {
	return db.columns(ctx, dialect.TableColumns, table)
}

// ViewColumns describes the columns of a view.
func (db *Database) ViewColumns(ctx context.Context, view string) ([]schema.Column, error) {
	return db.columns(ctx, dialect.ViewColumns, view)
}

// Indexes lists the indexes of a table.
func (db *Database) Indexes(ctx context.Context, table string) ([]schema.Index, error) {
	rows, err := db.Metadata(ctx, dialect.Indexes, table)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Index, len(rows))
	for i, r := range rows {
		out[i] = schema.IndexFrom(r)
	}
	return out, nil
}

// IndexColumns lists the columns of an index.
func (db *Database) IndexColumns(ctx context.Context, index string) ([]schema.IndexColumn, error) {
	rows, err := db.Metadata(ctx, dialect.IndexColumns, index)
	if err != nil {
		return nil, err
	}
	out := make([]schema.IndexColumn, len(rows))
	for i, r := range rows {
		out[i] = schema.IndexColumnFrom(r)
	}
	return out, nil
}

func (db *Database) columns(ctx context.Context, p dialect.Purpose, object string) ([]schema.Column, error) {
	rows, err := db.Metadata(ctx, p, object)
	if err != nil {
		return nil, err
	}
	out := make([]schema.Column, len(rows))
	for i, r := range rows {
		out[i] = schema.ColumnFrom(r)
	}
	return out, nil
}

func (db *Database) names(ctx context.Context, p dialect.Purpose, key string) ([]string, error) {
	rows, err := db.Metadata(ctx, p, "")
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = cast.ToString(r[key])
	}
	return out, nil
}

// Count returns the number of rows in a table.
func (db *Database) Count(ctx context.Context, table string) (int64, error) {
	cur, err := db.Query(ctx, "SELECT COUNT(*) FROM "+table)
	if err != nil {
		return 0, err
	}
	defer cur.Close()
	row, err := cur.FetchOne()
	if err != nil {
		return 0, err
	}
	if len(row) == 0 {
		return 0, nil
	}
	return cast.ToInt64E(row[0])
}
