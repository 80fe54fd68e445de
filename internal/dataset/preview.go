package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"table-pump/internal/errs"
)

const (
	previewRows    = 3
	previewCols    = 5
	previewTextLen = 10
	ellipsis       = "..."
)

// Format renders a bounded preview: the first and last 3 rows and the first
// and last 5 columns of larger tables, an index column, and the dataset size.
func (d *Dataset) Format() (string, error) {
	cols := d.Columns()
	if len(cols) == 0 {
		return "Empty dataset.", nil
	}
	if len(d.rows) > 0 && len(d.rows[0]) != len(cols) {
		return "", errs.Shapef("different length of columns(%d) and data(%d)", len(cols), len(d.rows[0]))
	}

	n := len(d.rows)
	rowDots := n > previewRows*2+1
	colDots := len(cols) > previewCols*2+1
	trim := func(row []string) []string {
		if !colDots || len(row) <= previewCols*2 {
			return row
		}
		out := append([]string{}, row[:previewCols]...)
		out = append(out, ellipsis)
		return append(out, row[len(row)-previewCols:]...)
	}

	frame := [][]string{append([]string{"#"}, trim(cols)...)}
	for i := 0; i < n; i++ {
		if rowDots && i == previewRows {
			dots := make([]string, len(frame[0]))
			for j := range dots {
				dots[j] = ellipsis
			}
			frame = append(frame, dots)
			i = n - previewRows
		}
		texts := make([]string, len(d.rows[i]))
		for j, v := range d.rows[i] {
			texts[j] = previewText(v)
		}
		frame = append(frame, append([]string{strconv.Itoa(i)}, trim(texts)...))
	}

	var widths []int
	for r, row := range frame {
		for c, v := range row {
			v = shorten(v)
			frame[r][c] = v
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(v))
		}
	}

	var b strings.Builder
	for r, row := range frame {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, v := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			b.WriteString(strings.Repeat(" ", widths[c]-utf8.RuneCountInString(v)))
			b.WriteString(v)
		}
	}
	fmt.Fprintf(&b, "\n\n[%d rows x %d columns]", n, len(cols))
	return b.String(), nil
}

// String is Format, or the error text when the dataset is ragged.
func (d *Dataset) String() string {
	s, err := d.Format()
	if err != nil {
		return err.Error()
	}
	return s
}

func previewText(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.DateTime)
	default:
		return fmt.Sprint(v)
	}
}

// shorten cuts text longer than the preview limit to the start of its first
// line.
func shorten(s string) string {
	if utf8.RuneCountInString(s) <= previewTextLen {
		return s
	}
	line, _, _ := strings.Cut(s, "\n")
	if r := []rune(line); len(r) > previewTextLen {
		line = string(r[:previewTextLen])
	}
	return line + ellipsis
}
