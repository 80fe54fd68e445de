package dataset

import (
	"bytes"
	"encoding/json"
	"io"

	"table-pump/internal/errs"
)

// ToRecords returns a copy of the rows.
func (d *Dataset) ToRecords() [][]any {
	return cloneRows(d.rows)
}

// ToMaps returns one map per row keyed by column name.
func (d *Dataset) ToMaps() []map[string]any {
	cols := d.Columns()
	out := make([]map[string]any, len(d.rows))
	for i, row := range d.rows {
		m := make(map[string]any, len(cols))
		for c, name := range cols {
			m[name] = cell(row, c)
		}
		out[i] = m
	}
	return out
}

// ToJSON encodes the rows as an array of objects whose keys follow the
// column order, indented by four spaces.
func (d *Dataset) ToJSON() ([]byte, error) {
	cols := d.Columns()
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range d.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for c, name := range cols {
			if c > 0 {
				buf.WriteByte(',')
			}
			k, _ := json.Marshal(name)
			buf.Write(k)
			buf.WriteByte(':')
			v, err := json.Marshal(jsonValue(cell(row, c)))
			if err != nil {
				return nil, err
			}
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "    "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// WriteJSON writes ToJSON to w.
func (d *Dataset) WriteJSON(w io.Writer) error {
	b, err := d.ToJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// FromJSON decodes an array of objects. Columns are keys in the order they
// first appear in the document.
func FromJSON(r io.Reader, opts ...Option) (*Dataset, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	var (
		columns []string
		pos     = map[string]int{}
		objects []map[string]any
	)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return nil, err
		}
		obj := map[string]any{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			k := tok.(string)
			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, err
			}
			if _, ok := pos[k]; !ok {
				pos[k] = len(columns)
				columns = append(columns, k)
			}
			obj[k] = v
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	rows := make([][]any, len(objects))
	for i, obj := range objects {
		row := make([]any, len(columns))
		for k, v := range obj {
			row[pos[k]] = v
		}
		rows[i] = row
	}
	return build(rows, columns, opts...), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errs.Shapef("expected %q in JSON, got %v", want, tok)
	}
	return nil
}
