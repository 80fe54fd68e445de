// Package dialect is the static registry of per-engine behaviour: default
// driver and port, bind placeholder styles, bulk-clear policy, stored
// procedure call syntax and the schema introspection SQL templates.
//
// Everything here is data. Lookups are keyed by Engine or by (Purpose, Engine).
package dialect

import (
	"fmt"
	"strings"
)

// Engine identifies a database product family.
type Engine string

const (
	Access     Engine = "access"
	MySQL      Engine = "mysql"
	Oracle     Engine = "oracle"
	PostgreSQL Engine = "postgresql"
	SQLite     Engine = "sqlite"
	MSSQL      Engine = "mssql"
)

// Engines lists the supported engines in a stable order.
var Engines = []Engine{Access, MySQL, Oracle, PostgreSQL, SQLite, MSSQL}

// ParseEngine resolves a case-insensitive engine identifier.
func ParseEngine(s string) (Engine, bool) {
	e := Engine(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := policies[e]; ok {
		return e, true
	}
	return "", false
}

func (e Engine) String() string { return string(e) }

// IsFile reports whether the engine stores a database in a local file.
func (e Engine) IsFile() bool {
	return e == Access || e == SQLite
}

// Policy is the behavioural profile of one engine.
type Policy struct {
	Engine        Engine
	DefaultDriver string
	DefaultPort   int
	// ODBCHint is matched case-insensitively against installed ODBC driver
	// names when the odbc driver is used without an explicit driver option.
	ODBCHint string
	// ClearTemplate empties a table. Engines without TRUNCATE use DELETE.
	ClearTemplate string
	// Procedures is false for engines without stored procedure support.
	Procedures bool
	// BeforeLoad and AfterLoad wrap a bulk load in the loading session.
	BeforeLoad []string
	AfterLoad  []string

	limit func(query string, n int) string
}

const (
	truncateSQL = "TRUNCATE TABLE %s"
	deleteSQL   = "DELETE FROM %s"
)

var policies = map[Engine]Policy{
	Access: {
		Engine:        Access,
		DefaultDriver: "odbc",
		ODBCHint:      "Microsoft Access Driver",
		ClearTemplate: deleteSQL,
		limit:         topLimit,
	},
	MySQL: {
		Engine:        MySQL,
		DefaultDriver: "mysql",
		DefaultPort:   3306,
		ODBCHint:      "MySQL",
		ClearTemplate: truncateSQL,
		Procedures:    true,
		BeforeLoad:    []string{"SET FOREIGN_KEY_CHECKS = 0"},
		AfterLoad:     []string{"SET FOREIGN_KEY_CHECKS = 1"},
		limit:         suffixLimit,
	},
	Oracle: {
		Engine:        Oracle,
		DefaultDriver: "go-ora",
		DefaultPort:   1521,
		ODBCHint:      "Oracle",
		ClearTemplate: truncateSQL,
		Procedures:    true,
		BeforeLoad: []string{
			"ALTER SESSION SET NLS_DATE_FORMAT = 'YYYY-MM-DD HH24:MI:SS'",
			"ALTER SESSION SET NLS_TIMESTAMP_FORMAT = 'YYYY-MM-DD HH24:MI:SS'",
		},
		limit: rownumLimit,
	},
	PostgreSQL: {
		Engine:        PostgreSQL,
		DefaultDriver: "pgx",
		DefaultPort:   5432,
		ODBCHint:      "Postgres",
		ClearTemplate: truncateSQL,
		Procedures:    true,
		BeforeLoad:    []string{"SET CONSTRAINTS ALL DEFERRED"},
		AfterLoad:     []string{"SET CONSTRAINTS ALL IMMEDIATE"},
		limit:         suffixLimit,
	},
	SQLite: {
		Engine:        SQLite,
		DefaultDriver: "sqlite",
		ODBCHint:      "SQLite",
		ClearTemplate: deleteSQL,
		Procedures:    true,
		limit:         suffixLimit,
	},
	MSSQL: {
		Engine:        MSSQL,
		DefaultDriver: "sqlserver",
		DefaultPort:   1433,
		ODBCHint:      "SQL Server",
		ClearTemplate: truncateSQL,
		Procedures:    true,
		limit:         topLimit,
	},
}

// Lookup returns the policy of an engine.
func Lookup(e Engine) (Policy, bool) {
	p, ok := policies[e]
	return p, ok
}

// ClearQuery renders the bulk-clear statement for a table.
func (p Policy) ClearQuery(table string) string {
	return fmt.Sprintf(p.ClearTemplate, table)
}

// LimitQuery restricts a SELECT to its first n rows using the engine's syntax.
// A non-positive n returns the query unchanged.
func (p Policy) LimitQuery(query string, n int) string {
	if n <= 0 || p.limit == nil {
		return query
	}
	return p.limit(strings.TrimRight(strings.TrimSpace(query), ";"), n)
}

func suffixLimit(query string, n int) string {
	return fmt.Sprintf("%s LIMIT %d", query, n)
}

func rownumLimit(query string, n int) string {
	return fmt.Sprintf("SELECT * FROM (%s) WHERE ROWNUM <= %d", query, n)
}

// topLimit injects TOP after the first SELECT keyword.
func topLimit(query string, n int) string {
	i := strings.Index(strings.ToUpper(query), "SELECT")
	if i < 0 {
		return query
	}
	return fmt.Sprintf("%sSELECT TOP %d%s", query[:i], n, query[i+len("SELECT"):])
}
