package connector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"table-pump/internal/dialect"
	"table-pump/internal/errs"
)

// BindParams renders fields as "field<op><placeholder>" joined by delim. A
// "," delimiter joins without spaces; any other delimiter is upper-cased and
// padded, so "and" gives "a=? AND b=?".
func BindParams(style dialect.Style, fields []string, delim, op string) string {
	return bindParams(style, fields, 0, delim, op)
}

func bindParams(style dialect.Style, fields []string, offset int, delim, op string) string {
	sep := strings.TrimSpace(delim)
	if sep != "," {
		sep = " " + strings.ToUpper(sep) + " "
	}
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + op + style.Token(f, offset+i)
	}
	return strings.Join(parts, sep)
}

// BindParams renders a clause in the session's placeholder style.
func (db *Database) BindParams(fields []string, delim, op string) string {
	return BindParams(db.Style(), fields, delim, op)
}

// SyntheticFields names n columns Col1..Coln.
func SyntheticFields(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "Col" + strconv.Itoa(i+1)
	}
	return names
}

// InsertSQL builds the INSERT text. Without fields the column list is
// omitted and width placeholders are rendered.
func InsertSQL(style dialect.Style, table string, fields []string, width int) string {
	if len(fields) == 0 {
		names := SyntheticFields(width)
		return fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, dialect.GeneratePlaceholders(style, names, 0, ","))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table,
		strings.Join(fields, ", "), dialect.GeneratePlaceholders(style, fields, 0, ","))
}

// UpdateSQL builds the UPDATE text; keys become the WHERE clause.
func UpdateSQL(style dialect.Style, table string, fields, keys []string) string {
	q := fmt.Sprintf("UPDATE %s SET %s", table, bindParams(style, fields, 0, ",", "="))
	if len(keys) > 0 {
		q += " WHERE " + bindParams(style, keys, len(fields), "AND", "=")
	}
	return q
}

// DeleteSQL builds the DELETE text, or the engine's bulk clear when there
// are no keys.
func DeleteSQL(style dialect.Style, policy dialect.Policy, table string, keys []string) string {
	if len(keys) == 0 {
		return policy.ClearQuery(table)
	}
	return fmt.Sprintf("DELETE FROM %s WHERE %s", table, bindParams(style, keys, 0, "AND", "="))
}

// Insert adds rows to a table and returns the affected row count. Without
// fields the names Col1..N are used for binding and no column list is sent.
func (db *Database) Insert(ctx context.Context, table string, fields []string, rows ...[]any) (int64, error) {
	width := len(fields)
	names := fields
	if width == 0 {
		if len(rows) == 0 {
			return 0, errs.Shapef("insert into %s needs fields or at least one row", table)
		}
		width = len(rows[0])
		names = SyntheticFields(width)
	}
	query := InsertSQL(db.Style(), table, fields, width)
	if db.driver.BatchHint && len(rows) > 1 && len(fields) > 0 {
		if err := checkWidth(rows, width); err != nil {
			return 0, err
		}
		return db.bulkInsert(ctx, table, fields, rows)
	}
	return db.dispatch(ctx, query, names, width, rows)
}

// Update sets fields on the rows matching keys. Each row holds the field
// values followed by the key values.
func (db *Database) Update(ctx context.Context, table string, fields, keys []string, rows ...[]any) (int64, error) {
	if len(fields) == 0 {
		return 0, errs.Shapef("update of %s needs at least one field", table)
	}
	names := append(append([]string{}, fields...), keys...)
	return db.dispatch(ctx, UpdateSQL(db.Style(), table, fields, keys), names, len(names), rows)
}

// Delete removes the rows matching keys. Without keys the whole table is
// cleared with the engine's bulk clear statement.
func (db *Database) Delete(ctx context.Context, table string, keys []string, rows ...[]any) (int64, error) {
	query := DeleteSQL(db.Style(), db.policy, table, keys)
	if len(keys) == 0 {
		return db.dispatch(ctx, query, nil, 0, nil)
	}
	return db.dispatch(ctx, query, keys, len(keys), rows)
}

func checkWidth(rows [][]any, width int) error {
	for i, r := range rows {
		if len(r) != width {
			return errs.Shapef("row %d has %d values, expected %d", i+1, len(r), width)
		}
	}
	return nil
}

// dispatch runs no rows as a plain statement, one row as a single
// statement and more rows as a prepared batch.
func (db *Database) dispatch(ctx context.Context, query string, names []string, width int, rows [][]any) (int64, error) {
	if err := checkWidth(rows, width); err != nil {
		return 0, err
	}
	switch len(rows) {
	case 0:
		res, err := db.Exec(ctx, query)
		if err != nil {
			return 0, err
		}
		return affected(res), nil
	case 1:
		res, err := db.Exec(ctx, query, db.bind(names, rows[0])...)
		if err != nil {
			return 0, err
		}
		return affected(res), nil
	}

	tx, err := db.begin(ctx)
	if err != nil {
		return 0, err
	}
	db.logger.Debug("batch", slog.String("sql", query), slog.Int("rows", len(rows)))
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var total int64
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx, db.bind(names, r)...)
		if err != nil {
			return total, err
		}
		total += affected(res)
	}
	return total, nil
}

// bulkInsert streams rows through the driver's bulk copy with the batch size
// set to the row count.
func (db *Database) bulkInsert(ctx context.Context, table string, fields []string, rows [][]any) (int64, error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return 0, err
	}
	db.logger.Debug("bulk copy", slog.String("table", table), slog.Int("rows", len(rows)))
	stmt, err := tx.PrepareContext(ctx, bulkCopy(table, fields, len(rows)))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r...); err != nil {
			return 0, err
		}
	}
	res, err := stmt.ExecContext(ctx)
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

// bind wraps values as named arguments for drivers that bind by name.
func (db *Database) bind(names []string, row []any) []any {
	if !db.Style().Named() {
		return row
	}
	args := make([]any, len(row))
	for i, v := range row {
		args[i] = sql.Named(names[i], v)
	}
	return args
}

func affected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}

// CallProc invokes a stored procedure with positional arguments and returns
// the rows it produced. Block style calls return no rows.
func (db *Database) CallProc(ctx context.Context, name string, args ...any) ([][]any, error) {
	if !db.policy.Procedures {
		return nil, fmt.Errorf("%w: %s has no stored procedures", errs.ErrDriverMismatch, db.desc.Engine)
	}
	name = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(name, ";", ""), "()", ""))
	tokens := make([]string, len(args))
	for i := range args {
		tokens[i] = db.Style().Token(strconv.Itoa(i+1), i)
	}
	query := db.driver.Proc.Render(name, tokens)

	if _, err := db.begin(ctx); err != nil {
		return nil, err
	}
	if !db.driver.Proc.ReturnsRows() {
		_, err := db.Exec(ctx, query, args...)
		return nil, err
	}
	cur, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer cur.Close()
	return cur.FetchAll()
}
