package dialect

import "strings"

// mssqlColumns is shared by tables and views; {kind} selects sys.objects
// type U or V. Character lengths of n-types are stored in bytes.
const mssqlColumns = `
	SELECT c.column_id, c.name AS column_name,
	  CASE
	    WHEN t.name IN ('char','varchar')
	      THEN CONCAT(t.name,'(',c.max_length,')')
	    WHEN t.name IN ('nchar','nvarchar')
	      THEN CONCAT(t.name,'(',c.max_length/2,')')
	    WHEN t.name IN ('numeric','decimal')
	      THEN CONCAT(t.name,'(',c.precision,',',c.scale,')')
	    WHEN t.name IN ('real','float')
	      THEN CONCAT(t.name,'(',c.precision,')')
	    ELSE t.name
	    END AS data_type,
	  CASE
	    WHEN c.is_nullable = 0
	      THEN 'NOT NULL'
	    ELSE ''
	    END AS nullable,
	  '' AS default_value,
	  '' AS comments,
	  CASE
	    WHEN c.is_identity = 1
	      THEN 'IDENTITY'
	    ELSE ''
	    END AS "identity"
	FROM sys.columns c INNER JOIN sys.objects o
	  ON o.object_id = c.object_id
	LEFT JOIN sys.types t
	  ON t.user_type_id = c.user_type_id
	WHERE o.type = '{kind}'
	AND o.name = '{object}'
	ORDER BY c.column_id
`

func mssqlColumnsOf(kind string) Template {
	return Template{SQL: sqlText(strings.Replace(mssqlColumns, "{kind}", kind, 1))}
}

var mssqlTemplates = map[Purpose]Template{
	Version: {SQL: "SELECT @@VERSION"},
	Tables: {SQL: sqlText(`
		SELECT name AS table_name
		FROM sys.tables
		WHERE type = 'U'
		ORDER BY name
	`)},
	Views: {SQL: sqlText(`
		SELECT name AS view_name, object_definition(object_id(name)) AS view_sql,
		'No' AS check_option, 'No' AS is_updatable, 'No' AS is_insertable,
		'No' AS is_deletable
		FROM sys.views WHERE type = 'V'
		ORDER BY name
	`)},
	TableColumns: mssqlColumnsOf("U"),
	ViewColumns:  mssqlColumnsOf("V"),
	Indexes:      notImplemented,
	IndexColumns: notImplemented,
}
