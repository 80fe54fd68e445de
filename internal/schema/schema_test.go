package schema_test

import (
	"testing"

	"table-pump/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestColumnFrom(t *testing.T) {
	c := schema.ColumnFrom(schema.Row{
		"column_id":     int64(2),
		"column_name":   "price",
		"data_type":     []byte("numeric(10,2)"),
		"nullable":      "NO",
		"default_value": nil,
		"comments":      "",
	})
	assert.Equal(t, 2, c.ID)
	assert.Equal(t, "numeric(10,2)", c.DataType)
	assert.Equal(t, "numeric", c.BaseType())
	assert.Equal(t, 10, c.Length())
	assert.Equal(t, 2, c.Scale())
	assert.False(t, c.IsNullable())
	assert.False(t, c.IsIdentity())
}

func TestColumnTypeParts(t *testing.T) {
	tests := []struct {
		dataType string
		base     string
		length   int
	}{
		{"VARCHAR2(20 BYTE)", "varchar2", 20},
		{"varchar(20)", "varchar", 20},
		{"character varying", "character varying", 0},
		{"timestamp(3) without time zone", "timestamp", 3},
		{"INTEGER", "integer", 0},
	}
	for _, tt := range tests {
		c := schema.Column{DataType: tt.dataType}
		assert.Equal(t, tt.base, c.BaseType(), tt.dataType)
		assert.Equal(t, tt.length, c.Length(), tt.dataType)
	}
}

func TestColumnFlags(t *testing.T) {
	assert.True(t, schema.Column{Nullable: ""}.IsNullable())
	assert.False(t, schema.Column{Nullable: "NOT NULL"}.IsNullable())
	assert.True(t, schema.Column{Identity: "IDENTITY"}.IsIdentity())
	assert.True(t, schema.Column{DefaultValue: "nextval('t_id_seq'::regclass)"}.IsIdentity())
}

func TestViewFromKeepsExtraColumns(t *testing.T) {
	v := schema.ViewFrom(schema.Row{
		"view_name":                  "v",
		"view_sql":                   "SELECT 1",
		"is_trigger_updatable":       "NO",
		"is_trigger_insertable_into": "NO",
	})
	assert.Equal(t, "v", v.Name)
	assert.Len(t, v.Extra, 2)
	assert.Equal(t, "NO", v.Extra["is_trigger_updatable"])
}

func TestIndexRows(t *testing.T) {
	idx := schema.IndexFrom(schema.Row{"index_name": "ix", "unique": "Yes", "partial": "No"})
	assert.Equal(t, schema.Index{Name: "ix", Unique: "Yes", Partial: "No"}, idx)

	ic := schema.IndexColumnFrom(schema.Row{"column_position": int64(0), "column_name": "a", "descend": "ASC"})
	assert.Equal(t, "a", ic.Name)
	assert.Equal(t, "ASC", ic.Descend)
}

func TestMeaning(t *testing.T) {
	tests := []struct {
		name, comment, want string
	}{
		{"cust_tel", "", "phone"},
		{"email_addr", "", "email"},
		{"x1", "contact email", "email"},
		{"reg_dt", "", "date"},
		{"use_yn", "", "yesno"},
		{"first_name", "", "name"},
		{"qty", "", "count"},
		{"foo", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, schema.Meaning(tt.name, tt.comment), tt.name)
	}
}
