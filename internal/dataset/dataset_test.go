package dataset_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table-pump/internal/dataset"
	"table-pump/internal/errs"
)

func TestFromMaps(t *testing.T) {
	d := dataset.FromMaps([]map[string]any{{"a": 1, "b": 2}, {"a": 3, "b": 4}})
	assert.Equal(t, []string{"a", "b"}, d.Columns())
	assert.Equal(t, [][]any{{1, 2}, {3, 4}}, d.Rows())

	d = dataset.FromMaps([]map[string]any{{"b": 1}, {"a": 2, "b": 3}})
	assert.Equal(t, []string{"b", "a"}, d.Columns())
	assert.Equal(t, [][]any{{1, nil}, {3, 2}}, d.Rows())
}

func TestSyntheticColumns(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, 2, 3}}, nil)
	assert.Equal(t, []string{"Col1", "Col2", "Col3"}, d.Columns())

	d = dataset.FromString("x;y", ";", dataset.WithColumnPrefix("F"))
	assert.Equal(t, []string{"F1", "F2"}, d.Columns())
	assert.Equal(t, [][]any{{"x", "y"}}, d.Rows())

	d = dataset.FromString("a,b,c", "")
	assert.Equal(t, 3, d.Width())

	d = dataset.FromValue(42)
	assert.Equal(t, [][]any{{42}}, d.Rows())
	assert.Equal(t, 1, d.Len())
	assert.False(t, d.IsEmpty())
	assert.True(t, dataset.New().IsEmpty())
}

func TestFromColumns(t *testing.T) {
	d, err := dataset.FromDict(map[string][]any{"b": {"x", "y"}, "a": {1, 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.Columns())
	assert.Equal(t, [][]any{{1, "x"}, {2, "y"}}, d.Rows())

	_, err = dataset.FromColumns([]string{"a", "b"}, [][]any{{1, 2}, {3}})
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestCopyIsDeep(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x"}}, []string{"id", "name"})
	c := d.Copy()
	c.Rows()[0][0] = 9
	c.RenameMap(map[string]string{"id": "key"})
	assert.Equal(t, 1, d.Rows()[0][0])
	assert.Equal(t, []string{"id", "name"}, d.Columns())
}

func TestIndex(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, 2, 3}}, []string{"Id", "Name", "id"})

	idx, err := d.Index("ID", 3, "name, 1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1, 0}, idx)

	idx, err = d.Index([]string{"name"}, []int{1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, idx)

	_, err = d.Index("missing")
	assert.ErrorIs(t, err, errs.ErrDataShape)
	_, err = d.Index(4)
	assert.ErrorIs(t, err, errs.ErrDataShape)
	_, err = d.Index(1.5)
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestSelectValuesAssign(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x", true}, {2, "y", false}}, []string{"id", "name", "ok"})

	s, err := d.Select("ok", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok", "id"}, s.Columns())
	assert.Equal(t, [][]any{{true, 1}, {false, 2}}, s.Rows())

	v, err := d.Values("name")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"x", "y"}}, v)

	_, err = d.Assign([][]any{{"a", "b"}}, "name")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1, "a", true}, {2, "b", false}}, d.Rows())

	_, err = d.Assign([][]any{{"a"}}, "name")
	assert.ErrorIs(t, err, errs.ErrDataShape)
	_, err = d.Assign([][]any{{"a", "b"}}, "name", "id")
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestRemove(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, 2, 3}, {4, 5, 6}}, []string{"a", "b", "c"})
	_, err := d.Remove("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, d.Columns())
	assert.Equal(t, [][]any{{1, 3}, {4, 6}}, d.Rows())

	d = dataset.FromRecords([][]any{{1, 2, 3, 4}}, []string{"a", "b", "c", "d"})
	_, err = d.Remove("d", "b", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, d.Columns())
	assert.Equal(t, [][]any{{1, 3}}, d.Rows())
}

func TestRemoveAndAutoIncrementWithoutColumns(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x"}, {2, "y"}}, []string{"a", "b"})

	_, err := d.Remove()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, d.Columns())
	assert.Equal(t, [][]any{{1, "x"}, {2, "y"}}, d.Rows())

	_, err = d.AutoIncrement(1)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1, "x"}, {2, "y"}}, d.Rows())
}

func TestFromRecordsCopiesCallerSlices(t *testing.T) {
	cols := []string{"id", "name"}
	rows := make([][]any, 1)
	rows[0] = make([]any, 2, 4)
	rows[0][0], rows[0][1] = 1, "x"

	d := dataset.FromRecords(rows, cols)
	d.RenameMap(map[string]string{"id": "key"})
	d.AppendDefaultValues(map[string]any{"src": "csv"})
	d.Rows()[0][0] = 9

	assert.Equal(t, []string{"id", "name"}, cols)
	assert.Equal(t, []any{1, "x"}, rows[0])
	assert.Nil(t, rows[0][:3][2])
	assert.Equal(t, []string{"key", "name", "src"}, d.Columns())
}

func TestRename(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, 2}}, []string{"a", "b"})
	_, err := d.Rename([]string{"x"})
	assert.ErrorIs(t, err, errs.ErrDataShape)

	_, err = d.Rename([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, d.Columns())

	d.RenameMap(map[string]string{"Y": "why", "z": "zed"})
	assert.Equal(t, []string{"x", "why"}, d.Columns())
}

func TestAppendDefaultsAndAutoIncrement(t *testing.T) {
	d := dataset.FromRecords([][]any{{"a", 0}, {"b", 0}}, []string{"name", "id"})
	d.AppendDefaultValues(map[string]any{"NAME": "ignored", "src": "csv", "flag": 1})
	assert.Equal(t, []string{"name", "id", "flag", "src"}, d.Columns())
	assert.Equal(t, [][]any{{"a", 0, 1, "csv"}, {"b", 0, 1, "csv"}}, d.Rows())

	_, err := d.AutoIncrement(10, "id", "flag")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", 10, 10, "csv"}, {"b", 11, 11, "csv"}}, d.Rows())
}

func TestLeftJoin(t *testing.T) {
	left := dataset.FromRecords([][]any{{1, "x"}, {2, "y"}}, []string{"id", "name"})
	right := dataset.FromRecords([][]any{{1, "A"}}, []string{"id", "val"})

	_, err := left.LeftJoin(right, "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "val"}, left.Columns())
	assert.Equal(t, [][]any{{1, "x", "A"}, {2, "y", nil}}, left.Rows())
}

func TestLeftJoinRenamesAndFirstMatch(t *testing.T) {
	left := dataset.FromRecords([][]any{{int64(1), "x"}}, []string{"id", "val"})
	right := dataset.FromRecords([][]any{{1, "first"}, {1, "second"}}, []string{"key", "val"})

	_, err := left.LeftJoin(right, "id=KEY")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "val", "val_1"}, left.Columns())
	assert.Equal(t, [][]any{{int64(1), "x", "first"}}, left.Rows())

	_, err = left.LeftJoin(right, "nope=key")
	assert.ErrorIs(t, err, errs.ErrDataShape)
	_, err = left.LeftJoin(right, "id=nope")
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestUnion(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x"}}, []string{"id", "name"})
	_, err := d.Union(dataset.FromRecords([][]any{{2, "y"}}, nil))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())

	_, err = d.UnionRows([][]any{{3}})
	assert.ErrorIs(t, err, errs.ErrDataShape)
	assert.Equal(t, 2, d.Len())
}

func TestUnique(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x"}, {1, "y"}, {2, "z"}}, []string{"a", "b"})
	u, err := d.Unique("a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, u.Columns())
	assert.Equal(t, [][]any{{1}, {2}}, u.Rows())

	d = dataset.FromRecords([][]any{{1, "x"}, {"1", "x"}, {1.0, "x"}, {nil, "x"}}, nil)
	u, err = d.Unique()
	require.NoError(t, err)
	assert.Equal(t, [][]any{{1, "x"}, {"1", "x"}, {nil, "x"}}, u.Rows())
}

func TestConvert(t *testing.T) {
	d := dataset.FromRecords([][]any{{"12", "1.50", nil}, {[]byte("7"), "2", nil}}, []string{"n", "amount", "maybe"})

	_, err := d.Convert(dataset.ToInt, "n")
	require.NoError(t, err)
	_, err = d.Convert(dataset.ToDecimal, "amount")
	require.NoError(t, err)
	_, err = d.Convert(dataset.Nullable(dataset.ToFloat), "maybe")
	require.NoError(t, err)

	assert.Equal(t, int64(12), d.Rows()[0][0])
	assert.Equal(t, int64(7), d.Rows()[1][0])
	assert.True(t, decimal.RequireFromString("1.5").Equal(d.Rows()[0][1].(decimal.Decimal)))
	assert.Nil(t, d.Rows()[0][2])

	_, err = dataset.FromValue("x").Convert(dataset.ToInt)
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	d := dataset.FromRecords([][]any{{1, "x"}, {2, nil}}, []string{"a", "b"})
	s, err := d.Format()
	require.NoError(t, err)
	assert.Equal(t, "#  a     b\n0  1     x\n1  2  NULL\n\n[2 rows x 2 columns]", s)

	d = dataset.FromRecords([][]any{{"abcdefghijklmn"}, {"short\nsecond line here"}}, []string{"t"})
	s, err = d.Format()
	require.NoError(t, err)
	assert.Contains(t, s, "abcdefghij...")
	assert.Contains(t, s, "short...")

	assert.Equal(t, "Empty dataset.", dataset.New().String())

	d = dataset.FromRecords([][]any{{1, 2}}, []string{"a"})
	_, err = d.Format()
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestFormatElides(t *testing.T) {
	rows := make([][]any, 8)
	for i := range rows {
		rows[i] = []any{i * 10}
	}
	s, err := dataset.FromRecords(rows, []string{"v"}).Format()
	require.NoError(t, err)
	lines := strings.Split(s, "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "...  ...", lines[4])
	assert.Equal(t, "  5   50", lines[5])
	assert.Equal(t, "[8 rows x 1 columns]", lines[9])

	wide := make([]any, 12)
	cols := make([]string, 12)
	for i := range wide {
		wide[i] = i
		cols[i] = string(rune('a' + i))
	}
	s, err = dataset.FromRecords([][]any{wide}, cols).Format()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s, "#  a  b  c  d  e  ...  h  i  j  k  l\n"))
}

func TestClose(t *testing.T) {
	d := dataset.FromRecords([][]any{{1}}, []string{"a"}, dataset.WithExtraRows([]any{"title"}))
	require.NoError(t, d.Close())
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.ExtraRows())
}
