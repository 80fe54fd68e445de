package excel_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"table-pump/internal/errs"
	"table-pump/internal/excel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type table struct {
	cols  []string
	rows  [][]any
	extra [][]any
}

func (t table) Columns() []string  { return t.cols }
func (t table) Rows() [][]any      { return t.rows }
func (t table) ExtraRows() [][]any { return t.extra }

func numbered(n int) [][]any {
	rows := make([][]any, n)
	for i := range rows {
		rows[i] = []any{i + 1, "r"}
	}
	return rows
}

func open(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestSplitRanges(t *testing.T) {
	got, err := excel.SplitRanges(2000000, 0, excel.MaxRows)
	require.NoError(t, err)
	assert.Equal(t, []excel.Range{{0, 1048575}, {1048575, 2000000}}, got)

	got, err = excel.SplitRanges(10, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, []excel.Range{{0, 3}, {3, 6}, {6, 9}, {9, 10}}, got)

	got, err = excel.SplitRanges(0, 0, 6)
	require.NoError(t, err)
	assert.Equal(t, []excel.Range{{0, 0}}, got)

	_, err = excel.SplitRanges(1, 5, 6)
	assert.ErrorIs(t, err, errs.ErrDataShape)
}

func TestWriteSplitsIntoContinuationSheets(t *testing.T) {
	data := table{
		cols:  []string{"id", "name"},
		rows:  numbered(7),
		extra: [][]any{{"report"}},
	}
	buf, err := excel.WriteBuffer(excel.Options{SheetNames: []string{"data"}, MaxRows: 5}, data)
	require.NoError(t, err)

	f := open(t, buf)
	assert.Equal(t, []string{"data", "data_ext1", "data_ext2"}, f.GetSheetList())

	first, err := f.GetRows("data")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"report"}, {"id", "name"}, {"1", "r"}, {"2", "r"}, {"3", "r"}}, first)

	second, err := f.GetRows("data_ext1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"4", "r"}, {"5", "r"}, {"6", "r"}}, second)

	third, err := f.GetRows("data_ext2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"id", "name"}, {"7", "r"}}, third)
}

func TestWriteShortensLongContinuationTitles(t *testing.T) {
	title := "customer_orders_2024_archive"
	data := table{cols: []string{"id", "name"}, rows: numbered(7)}
	buf, err := excel.WriteBuffer(excel.Options{SheetNames: []string{title}, MaxRows: 5}, data)
	require.NoError(t, err)

	f := open(t, buf)
	assert.Equal(t, []string{
		title,
		"customer_orders_2024_archi_ext1",
	}, f.GetSheetList())

	long := strings.Repeat("x", 40)
	buf, err = excel.WriteBuffer(excel.Options{SheetNames: []string{long}}, data)
	require.NoError(t, err)
	assert.Equal(t, []string{strings.Repeat("x", 31)}, open(t, buf).GetSheetList())
}

func TestWriteRepeatedTitles(t *testing.T) {
	a := table{cols: []string{"a", "c"}, rows: numbered(1)}
	b := table{cols: []string{"b", "c"}, rows: [][]any{{2, "r"}, {3, "r"}, {4, "r"}, {5, "r"}, {6, "r"}}}
	buf, err := excel.WriteBuffer(excel.Options{SheetNames: []string{"dup", "DUP"}, MaxRows: 5}, a, b)
	require.NoError(t, err)

	f := open(t, buf)
	assert.Equal(t, []string{"dup", "DUP_1", "DUP_1_ext1"}, f.GetSheetList())

	first, err := f.GetRows("dup")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "c"}, {"1", "r"}}, first)

	second, err := f.GetRows("DUP_1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b", "c"}, {"2", "r"}, {"3", "r"}, {"4", "r"}, {"5", "r"}}, second)
}

func TestWriteSeveralTablesWithDefaultTitles(t *testing.T) {
	a := table{cols: []string{"a"}, rows: [][]any{{1}}}
	b := table{cols: []string{"b"}}
	buf, err := excel.WriteBuffer(excel.Options{}, a, b)
	require.NoError(t, err)

	f := open(t, buf)
	assert.Equal(t, []string{"Sheet1", "Sheet2"}, f.GetSheetList())
	rows, err := f.GetRows("Sheet2")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"b"}}, rows)
}

func TestWriteFormatted(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	data := table{
		cols: []string{"id", "created"},
		rows: [][]any{{1, when}, {2, nil}},
	}
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, excel.WriteFile(path, excel.Options{Formatted: true}, data))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 12:30:00", v)

	styleID, err := f.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	assert.True(t, style.Font.Bold)

	panes, err := f.GetPanes("Sheet1")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)

	width, err := f.GetColWidth("Sheet1", "B")
	require.NoError(t, err)
	// header 7, widest value 19: (19 + 1.23) * 1.23
	assert.InDelta(t, (19+1.23)*1.23, width, 0.01)
}

func TestWriteRejectsRaggedRows(t *testing.T) {
	data := table{cols: []string{"a", "b"}, rows: [][]any{{1}}}
	_, err := excel.WriteBuffer(excel.Options{}, data)
	assert.ErrorIs(t, err, errs.ErrDataShape)

	_, err = excel.WriteBuffer(excel.Options{})
	assert.ErrorIs(t, err, errs.ErrDataShape)
}
