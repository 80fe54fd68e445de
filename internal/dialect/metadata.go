package dialect

import (
	"fmt"
	"strings"
)

// Purpose names one kind of schema introspection query.
type Purpose string

const (
	Version      Purpose = "DBVERSION"
	Tables       Purpose = "TABLES"
	Views        Purpose = "VIEWS"
	TableColumns Purpose = "TABLE COLUMNS"
	ViewColumns  Purpose = "VIEW COLUMNS"
	Indexes      Purpose = "INDEXES"
	IndexColumns Purpose = "INDEX COLUMNS"
)

// Purposes lists every introspection purpose.
var Purposes = []Purpose{Version, Tables, Views, TableColumns, ViewColumns, Indexes, IndexColumns}

// Status tells whether a template can be executed.
type Status int

const (
	Available Status = iota
	// NotPossible marks engines whose schema cannot be read through SQL.
	NotPossible
	// NotImplemented marks queries nobody has written yet.
	NotImplemented
)

// objectMarker is replaced with the quoted object name by Bind.
const objectMarker = "{object}"

// Template is one introspection query. SQL may contain the {object} marker.
type Template struct {
	SQL    string
	Status Status
}

var (
	notPossible    = Template{Status: NotPossible}
	notImplemented = Template{Status: NotImplemented}
)

// NeedsObject reports whether the query is parameterized by an object name.
func (t Template) NeedsObject() bool {
	return strings.Contains(t.SQL, objectMarker)
}

// Bind substitutes the object name as a single-quoted SQL literal.
func (t Template) Bind(object string) string {
	return strings.ReplaceAll(t.SQL, objectMarker, strings.ReplaceAll(object, "'", "''"))
}

var templates = map[Engine]map[Purpose]Template{
	Access:     accessTemplates,
	MySQL:      mysqlTemplates,
	Oracle:     oracleTemplates,
	PostgreSQL: postgresTemplates,
	SQLite:     sqliteTemplates,
	MSSQL:      mssqlTemplates,
}

// Query returns the template for a purpose on an engine. Unknown pairs are
// reported as not implemented.
func Query(p Purpose, e Engine) Template {
	if t, ok := templates[e][p]; ok {
		return t
	}
	return notImplemented
}

// NotPossibleText describes an engine whose schema SQL cannot read.
func NotPossibleText(e Engine, driver string) string {
	return fmt.Sprintf("SQL CANNOT READ THE SCHEMA IN %s THROUGH %s.",
		strings.ToUpper(e.String()), strings.ToUpper(driver))
}

// NotImplementedText describes a purpose that has no query for an engine.
func NotImplementedText(p Purpose, e Engine) string {
	return fmt.Sprintf("FINDING YOUR %s NOT IMPLEMENTED FOR %s.", p, strings.ToUpper(e.String()))
}

// sqlText strips the indentation of multi-line template literals.
func sqlText(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, "\n")
}
