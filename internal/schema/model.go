// Package schema holds the rows returned by schema introspection. Field tags
// carry the result column names, which are a stable contract shared with
// other tooling.
package schema

import (
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// Column is one row of a table or view column listing.
type Column struct {
	ID           int    `json:"column_id"`
	Name         string `json:"column_name"`
	DataType     string `json:"data_type"`
	Nullable     string `json:"nullable"`
	DefaultValue any    `json:"default_value"`
	Comments     string `json:"comments"`
	Identity     string `json:"identity,omitempty"` // mssql only
}

// View is one row of a view listing.
type View struct {
	Name        string         `json:"view_name"`
	SQLText     string         `json:"view_sql"`
	CheckOption string         `json:"check_option"`
	Updatable   string         `json:"is_updatable"`
	Insertable  string         `json:"is_insertable"`
	Deletable   string         `json:"is_deletable"`
	Extra       map[string]any `json:"-"`
}

// Index is one row of an index listing.
type Index struct {
	Name      string `json:"index_name"`
	Type      string `json:"index_type"`
	TableType string `json:"table_type"`
	Unique    string `json:"unique"`
	Partial   string `json:"partial,omitempty"`
}

// IndexColumn is one row of an index column listing.
type IndexColumn struct {
	Position   int    `json:"column_position"`
	Name       string `json:"column_name"`
	Descend    string `json:"descend"`
	Expression string `json:"column_expression"`
}

// Row is a result row keyed by lower-cased column name.
type Row map[string]any

func (r Row) str(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return cast.ToString(v)
}

func (r Row) int(key string) int {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	if b, ok := v.([]byte); ok {
		v = string(b)
	}
	return cast.ToInt(v)
}

// ColumnFrom maps a column listing row.
func ColumnFrom(r Row) Column {
	def := r["default_value"]
	if b, ok := def.([]byte); ok {
		def = string(b)
	}
	return Column{
		ID:           r.int("column_id"),
		Name:         r.str("column_name"),
		DataType:     r.str("data_type"),
		Nullable:     r.str("nullable"),
		DefaultValue: def,
		Comments:     r.str("comments"),
		Identity:     r.str("identity"),
	}
}

var viewKeys = map[string]bool{
	"view_name": true, "view_sql": true, "check_option": true,
	"is_updatable": true, "is_insertable": true, "is_deletable": true,
}

// ViewFrom maps a view listing row. Engine specific columns land in Extra.
func ViewFrom(r Row) View {
	v := View{
		Name:        r.str("view_name"),
		SQLText:     r.str("view_sql"),
		CheckOption: r.str("check_option"),
		Updatable:   r.str("is_updatable"),
		Insertable:  r.str("is_insertable"),
		Deletable:   r.str("is_deletable"),
	}
	for k, val := range r {
		if viewKeys[k] {
			continue
		}
		if v.Extra == nil {
			v.Extra = map[string]any{}
		}
		v.Extra[k] = val
	}
	return v
}

// IndexFrom maps an index listing row.
func IndexFrom(r Row) Index {
	return Index{
		Name:      r.str("index_name"),
		Type:      r.str("index_type"),
		TableType: r.str("table_type"),
		Unique:    r.str("unique"),
		Partial:   r.str("partial"),
	}
}

// IndexColumnFrom maps an index column listing row.
func IndexColumnFrom(r Row) IndexColumn {
	return IndexColumn{
		Position:   r.int("column_position"),
		Name:       r.str("column_name"),
		Descend:    r.str("descend"),
		Expression: r.str("column_expression"),
	}
}

// IsNullable interprets the engine specific nullable flag. Oracle, sqlite,
// mysql and postgres report Yes/No; mssql reports "NOT NULL" or "".
func (c Column) IsNullable() bool {
	switch strings.ToUpper(strings.TrimSpace(c.Nullable)) {
	case "NO", "N", "NOT NULL", "0", "FALSE":
		return false
	}
	return true
}

// IsIdentity reports identity and auto-increment columns.
func (c Column) IsIdentity() bool {
	if strings.EqualFold(c.Identity, "IDENTITY") {
		return true
	}
	d := strings.ToLower(cast.ToString(c.DefaultValue))
	return strings.HasPrefix(d, "nextval(") || strings.Contains(strings.ToLower(c.DataType), "identity")
}

var typeArgs = regexp.MustCompile(`^\s*([^(]+)(?:\(\s*(\d+)\s*(?:,\s*(\d+))?[^)]*\))?`)

// BaseType is the lower-cased type name without arguments, "varchar(20)"
// yields "varchar".
func (c Column) BaseType() string {
	m := typeArgs.FindStringSubmatch(c.DataType)
	if m == nil {
		return strings.ToLower(strings.TrimSpace(c.DataType))
	}
	return strings.ToLower(strings.TrimSpace(m[1]))
}

// Length is the first type argument, zero when absent. For character types
// it is the maximum length, for numeric types the precision.
func (c Column) Length() int {
	m := typeArgs.FindStringSubmatch(c.DataType)
	if m == nil || m[2] == "" {
		return 0
	}
	return cast.ToInt(m[2])
}

// Scale is the second type argument, zero when absent.
func (c Column) Scale() int {
	m := typeArgs.FindStringSubmatch(c.DataType)
	if m == nil || m[3] == "" {
		return 0
	}
	return cast.ToInt(m[3])
}
