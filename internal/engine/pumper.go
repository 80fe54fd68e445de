package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"table-pump/internal/connector"
	"table-pump/internal/dataset"
	"table-pump/internal/schema"
)

// typeMax is the largest value an identity column of the given type holds.
func typeMax(baseType string) int {
	switch baseType {
	case "tinyint":
		return 255
	case "smallint":
		return 32767
	case "mediumint":
		return 8388607
	default:
		return 2147483647
	}
}

// maxRows caps the row count by the range of the table's identity columns.
func maxRows(table string, cols []schema.Column, requested int, logger *slog.Logger) int {
	n := requested
	for _, c := range cols {
		if !c.IsIdentity() {
			continue
		}
		if m := typeMax(c.BaseType()); m < n {
			logger.Warn("identity column limits row count",
				slog.String("table", table), slog.String("column", c.Name),
				slog.String("type", c.DataType), slog.Int("max", m))
			n = m
		}
	}
	return n
}

// runHooks executes the engine's session statements around a load.
func runHooks(ctx context.Context, db *connector.Database, stmts []string) {
	for _, s := range stmts {
		if _, err := db.Exec(ctx, s); err != nil {
			db.Logger().Warn("load hook failed", slog.String("sql", s), slog.Any("error", err))
		}
	}
}

// Fill inserts count generated rows into table. Column types and names come
// from introspection; identity columns are left to the database.
func Fill(ctx context.Context, db *connector.Database, table string, count int, opts Options) (PumpResult, error) {
	opts = opts.withDefaults()
	cols, err := db.TableColumns(ctx, table)
	if err != nil {
		return PumpResult{Table: table, Target: count}, err
	}
	if len(cols) == 0 {
		return PumpResult{Table: table, Target: count}, fmt.Errorf("table %s has no columns", table)
	}
	target := maxRows(table, cols, count, opts.Logger)

	var insertCols []schema.Column
	var names []string
	for _, c := range cols {
		if !c.IsIdentity() {
			insertCols = append(insertCols, c)
			names = append(names, c.Name)
		}
	}

	gen := NewGenerator(opts.Seed)
	rows := make([][]any, 0, target)
	used := make(map[string]bool, target)
	// duplicates are regenerated, up to ten attempts per row
	for attempts := 0; len(rows) < target && attempts < target*10; attempts++ {
		row := gen.Row(table, insertCols)
		k := fmt.Sprint(row...)
		if used[k] {
			continue
		}
		used[k] = true
		rows = append(rows, row)
	}

	opts.Logger.Info("filling table", slog.String("table", table), slog.Int("rows", len(rows)))
	res, err := Load(ctx, db, table, dataset.FromRecords(rows, names), opts)
	res.Target = target
	if err == nil && res.Actual < target {
		res.Status = StatusMissing
		res.Error = fmt.Sprintf("only inserted %d out of %d", res.Actual, target)
	}
	return res, err
}

// Load writes ds into table, clearing it first when opts.Clean is set, and
// checks the table gained every row.
func Load(ctx context.Context, db *connector.Database, table string, ds *dataset.Dataset, opts Options) (PumpResult, error) {
	opts = opts.withDefaults()
	res := PumpResult{Table: table, Target: ds.Len()}

	if opts.Clean {
		if _, err := db.Delete(ctx, table, nil); err != nil {
			return res, err
		}
	}
	initial, err := db.Count(ctx, table)
	if err != nil {
		return res, err
	}
	if opts.OnStart != nil {
		opts.OnStart(table, ds.Len())
	}
	if _, err := load(ctx, db, table, ds, opts); err != nil {
		res.Status, res.Error = StatusMissing, err.Error()
		return res, err
	}
	final, err := db.Count(ctx, table)
	if err != nil {
		return res, err
	}
	res.Actual = int(final - initial)
	res.Status = status(res.Actual, res.Target)
	return res, nil
}

// load writes ds into table between the engine's load hooks and commits. On
// failure the transaction is rolled back.
func load(ctx context.Context, db *connector.Database, table string, ds *dataset.Dataset, opts Options) (int64, error) {
	policy := db.Policy()
	runHooks(ctx, db, policy.BeforeLoad)
	var last int
	n, err := ds.ToSQL(ctx, db, table, dataset.SQLOptions{
		BatchSize: opts.BatchSize,
		OnBatch: func(done, total int) {
			opts.Logger.Debug("batch written", slog.String("table", table), slog.Int("done", done), slog.Int("total", total))
			if opts.OnProgress != nil {
				opts.OnProgress(done - last)
			}
			last = done
		},
	})
	if err != nil {
		_ = db.Rollback()
		return n, fmt.Errorf("failed to load %s: %w", table, err)
	}
	runHooks(ctx, db, policy.AfterLoad)
	if err := db.Commit(); err != nil {
		return n, fmt.Errorf("failed to commit %s: %w", table, err)
	}
	return n, nil
}

// Clean clears the tables in reverse order, so children listed after their
// parents go first, and commits.
func Clean(ctx context.Context, db *connector.Database, tables ...string) error {
	for _, t := range slices.Backward(tables) {
		db.Logger().Info("clearing table", slog.String("table", t))
		if _, err := db.Delete(ctx, t, nil); err != nil {
			_ = db.Rollback()
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return db.Commit()
}

// Verify re-counts each table and compares it with the result's target.
func Verify(ctx context.Context, db *connector.Database, results []PumpResult) []PumpResult {
	verified := make([]PumpResult, 0, len(results))
	for _, r := range results {
		n, err := db.Count(ctx, r.Table)
		v := PumpResult{Table: r.Table, Target: r.Target, Actual: int(n), Status: StatusOK, Error: r.Error}
		switch {
		case err != nil:
			v.Status = "VERIFY_FAIL: " + err.Error()
		case int(n) < r.Target:
			v.Status = fmt.Sprintf("PARTIAL: %d/%d", n, r.Target)
		}
		verified = append(verified, v)
	}
	return verified
}

// Summary renders results one per line.
func Summary(results []PumpResult) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n")
}
