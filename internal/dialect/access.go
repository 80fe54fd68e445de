package dialect

// Access keeps its catalog in system tables that are not readable through
// the ODBC driver's SQL dialect.
var accessTemplates = map[Purpose]Template{
	Version:      notPossible,
	Tables:       notPossible,
	Views:        notPossible,
	TableColumns: notPossible,
	ViewColumns:  notPossible,
	Indexes:      notPossible,
	IndexColumns: notPossible,
}
