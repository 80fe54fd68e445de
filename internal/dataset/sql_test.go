package dataset_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-pump/internal/connector"
	"table-pump/internal/dataset"
	"table-pump/internal/testutil"
)

type batchCursor struct {
	batches [][][]any
	err     error
	sizes   []int
}

func (c *batchCursor) Columns() []string { return []string{"n"} }
func (c *batchCursor) Close() error      { return nil }
func (c *batchCursor) FetchMany(n int) ([][]any, error) {
	c.sizes = append(c.sizes, n)
	if len(c.batches) == 0 {
		return nil, c.err
	}
	b := c.batches[0]
	c.batches = c.batches[1:]
	return b, nil
}

func TestFromCursor(t *testing.T) {
	c := &batchCursor{batches: [][][]any{{{1}, {2}}, {{3}}}}
	d, err := dataset.FromCursor(c)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1}, {2}, {3}}, d.Rows())
	assert.Equal(t, []int{dataset.FetchBatch, dataset.FetchBatch, dataset.FetchBatch}, c.sizes)

	boom := errors.New("boom")
	_, err = dataset.FromCursor(&batchCursor{err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestSQLRoundTrip(t *testing.T) {
	ctx := context.Background()
	url := "sqlite://localhost/" + filepath.Join(t.TempDir(), "ds.db")
	db, err := connector.Open(ctx, url, connector.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(ctx, "CREATE TABLE people (id INTEGER, name TEXT)")
	require.NoError(t, err)
	require.NoError(t, db.Commit())

	d := dataset.FromRecords([][]any{{1, "ann"}, {2, "bob"}, {3, "cy"}}, []string{"id", "name"})
	var progress []int
	n, err := d.ToSQL(ctx, db, "people", dataset.SQLOptions{
		BatchSize:  2,
		AutoCommit: true,
		OnBatch:    func(done, total int) { progress = append(progress, done) },
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, []int{2, 3}, progress)

	back, err := dataset.FromSQL(ctx, db, "SELECT id, name FROM people WHERE id > ? ORDER BY id", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, back.Columns())
	assert.Equal(t, [][]any{{int64(2), "bob"}, {int64(3), "cy"}}, back.Rows())
	require.NoError(t, db.Close())

	all, err := dataset.FromURL(ctx, url, "SELECT name FROM people ORDER BY id")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Len())

	_, err = dataset.FromURL(ctx, "nosuch://localhost/x", "SELECT 1")
	assert.Error(t, err)
}
