package engine_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-pump/internal/connector"
	"table-pump/internal/dataset"
	"table-pump/internal/engine"
	"table-pump/internal/testutil"
)

func openDB(t *testing.T, name string, ddl ...string) *connector.Database {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), name)
	db, err := connector.Open(ctx, "sqlite://localhost/"+path, connector.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	for _, s := range ddl {
		_, err := db.Exec(ctx, s)
		require.NoError(t, err)
	}
	require.NoError(t, db.Commit())
	return db
}

const peopleDDL = `CREATE TABLE people (
	id INTEGER,
	name VARCHAR(20) NOT NULL,
	email VARCHAR(40),
	born DATE,
	score NUMERIC(5,2),
	active BOOLEAN,
	note TEXT
)`

func TestFill(t *testing.T) {
	ctx := context.Background()
	db := openDB(t, "fill.db", peopleDDL)

	var progress int
	res, err := engine.Fill(ctx, db, "people", 25, engine.Options{
		Logger:     testutil.NewTestLogger(t),
		BatchSize:  10,
		Seed:       1,
		OnProgress: func(n int) { progress += n },
	})
	require.NoError(t, err)
	assert.Equal(t, engine.PumpResult{Table: "people", Target: 25, Actual: 25, Status: engine.StatusOK}, res)
	assert.Equal(t, 25, progress)

	cur, err := db.Query(ctx, "SELECT max(length(name)) FROM people")
	require.NoError(t, err)
	row, err := cur.FetchOne()
	require.NoError(t, err)
	require.NoError(t, cur.Close())
	assert.LessOrEqual(t, row[0].(int64), int64(20))

	verified := engine.Verify(ctx, db, []engine.PumpResult{res, {Table: "people", Target: 30}, {Table: "nope", Target: 1}})
	assert.Equal(t, engine.StatusOK, verified[0].Status)
	assert.Equal(t, "PARTIAL: 25/30", verified[1].Status)
	assert.True(t, strings.HasPrefix(verified[2].Status, "VERIFY_FAIL"))
}

func TestFillUnknownTable(t *testing.T) {
	db := openDB(t, "empty.db")
	_, err := engine.Fill(context.Background(), db, "missing", 5, engine.Options{})
	assert.Error(t, err)
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	src := openDB(t, "src.db",
		`CREATE TABLE items (id INTEGER, label TEXT)`,
		`INSERT INTO items VALUES (1, 'a'), (2, 'b'), (3, 'c')`)
	dst := openDB(t, "dst.db", `CREATE TABLE items_copy (id INTEGER, label TEXT)`)

	opts := engine.Options{Logger: testutil.NewTestLogger(t), BatchSize: 2, Clean: true}
	for range 2 {
		res, err := engine.Transfer(ctx, src, dst, "SELECT id, label FROM items ORDER BY id", "items_copy", opts)
		require.NoError(t, err)
		assert.Equal(t, engine.PumpResult{Table: "items_copy", Target: 3, Actual: 3, Status: engine.StatusOK}, res)
	}
	n, err := dst.Count(ctx, "items_copy")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = engine.Transfer(ctx, src, dst, "SELECT id, label FROM items", "no_such_table", engine.Options{})
	assert.Error(t, err)
}

func TestClean(t *testing.T) {
	ctx := context.Background()
	db := openDB(t, "clean.db",
		`CREATE TABLE parent (id INTEGER)`,
		`CREATE TABLE child (id INTEGER)`,
		`INSERT INTO parent VALUES (1)`,
		`INSERT INTO child VALUES (1), (2)`)

	require.NoError(t, engine.Clean(ctx, db, "parent", "child"))
	for _, table := range []string{"parent", "child"} {
		n, err := db.Count(ctx, table)
		require.NoError(t, err)
		assert.Zero(t, n, table)
	}
	assert.Error(t, engine.Clean(ctx, db, "missing"))
}

func TestSummary(t *testing.T) {
	s := engine.Summary([]engine.PumpResult{
		{Table: "a", Target: 2, Actual: 2, Status: engine.StatusOK},
		{Table: "b", Target: 2, Actual: 1, Status: engine.StatusMissing, Error: "boom"},
	})
	assert.Equal(t, "a: 2/2 OK\nb: 1/2 MISSING DATA (boom)", s)
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	db := openDB(t, "load.db", `CREATE TABLE t (a INTEGER, b TEXT)`, `INSERT INTO t VALUES (9, 'old')`)

	ds := dataset.FromRecords([][]any{{1, "x"}, {2, "y"}}, []string{"a", "b"})
	res, err := engine.Load(ctx, db, "t", ds, engine.Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Actual)
	n, err := db.Count(ctx, "t")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	res, err = engine.Load(ctx, db, "t", ds, engine.Options{Clean: true})
	require.NoError(t, err)
	assert.Equal(t, engine.StatusOK, res.Status)
	n, err = db.Count(ctx, "t")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	bad := dataset.FromRecords([][]any{{1}}, []string{"missing_col"})
	res, err = engine.Load(ctx, db, "t", bad, engine.Options{})
	assert.Error(t, err)
	assert.Equal(t, engine.StatusMissing, res.Status)
	n, err = db.Count(ctx, "t")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
