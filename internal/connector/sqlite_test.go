package connector_test

import (
	"context"
	"path/filepath"
	"testing"

	"table-pump/internal/connector"
	"table-pump/internal/errs"
	"table-pump/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *connector.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := connector.Open(context.Background(), "sqlite://localhost/"+path, connector.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	_, err := db.Exec(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(20) NOT NULL, score NUMERIC(5,2) DEFAULT 0)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `CREATE UNIQUE INDEX ux_users_name ON users (name DESC)`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `CREATE VIEW v_users AS SELECT id, name FROM users`)
	require.NoError(t, err)

	n, err := db.Insert(ctx, "users", []string{"id", "name", "score"},
		[]any{1, "ann", 1.5}, []any{2, "bob", 2.5}, []any{3, "cy", 3.5})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = db.Update(ctx, "users", []string{"name"}, []string{"id"}, []any{"bea", 2})
	require.NoError(t, err)
	_, err = db.Delete(ctx, "users", []string{"id"}, []any{3})
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	cur, err := db.Query(ctx, "SELECT id, name FROM users ORDER BY id")
	require.NoError(t, err)
	rows, err := cur.FetchAll()
	require.NoError(t, err)
	require.NoError(t, cur.Close())
	assert.Equal(t, [][]any{{int64(1), "ann"}, {int64(2), "bea"}}, rows)

	count, err := db.Count(ctx, "users")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = db.Delete(ctx, "users", nil)
	require.NoError(t, err)
	require.NoError(t, db.Commit())
	count, err = db.Count(ctx, "users")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLiteIntrospection(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)

	for _, stmt := range []string{
		`CREATE TABLE b (id INTEGER PRIMARY KEY, label VARCHAR(10) NOT NULL)`,
		`CREATE TABLE a (id INTEGER, note TEXT DEFAULT 'x')`,
		`CREATE INDEX ix_b_label ON b (label DESC)`,
		`CREATE VIEW v AS SELECT id FROM b`,
	} {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, db.Commit())

	version, err := db.Version(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, version)

	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tables)

	views, err := db.Views(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "v", views[0].Name)
	assert.Equal(t, "No", views[0].Updatable)

	cols, err := db.TableColumns(ctx, "b")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "label", cols[1].Name)
	assert.Equal(t, "VARCHAR(10)", cols[1].DataType)
	assert.Equal(t, "No", cols[1].Nullable)

	cols, err = db.TableColumns(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "'x'", cols[1].DefaultValue)

	vcols, err := db.ViewColumns(ctx, "v")
	require.NoError(t, err)
	assert.Len(t, vcols, 1)

	idx, err := db.Indexes(ctx, "b")
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, "ix_b_label", idx[0].Name)
	assert.Equal(t, "No", idx[0].Unique)

	icols, err := db.IndexColumns(ctx, "ix_b_label")
	require.NoError(t, err)
	require.Len(t, icols, 1)
	assert.Equal(t, "label", icols[0].Name)
	assert.Equal(t, "DESC", icols[0].Descend)
}

func TestSQLiteReconnect(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	_, err := db.Exec(ctx, `CREATE TABLE t (x INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	require.NoError(t, db.Reconnect(ctx))
	assert.True(t, db.Connected())
	tables, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, tables)
}

func TestOpenFailsBeforeIO(t *testing.T) {
	ctx := context.Background()
	empty := connector.CatalogFunc(func() ([]string, error) { return nil, nil })
	_, err := connector.Open(ctx, "access://localhost/x.accdb", connector.WithCatalog(empty))
	assert.ErrorIs(t, err, errs.ErrConfiguration)

	_, err = connector.Open(ctx, "sqlite://localhost/")
	assert.ErrorIs(t, err, errs.ErrConfiguration)
}
