package dialect

var mysqlColumns = Template{SQL: sqlText(`
	SELECT ordinal_position AS column_id, column_name,
	column_type AS data_type, is_nullable AS nullable,
	column_default AS default_value, column_comment AS comments
	FROM information_schema.columns
	WHERE table_name = '{object}'
	AND table_schema = database()
	ORDER BY ordinal_position
`)}

var mysqlTemplates = map[Purpose]Template{
	Version: {SQL: "SELECT version()"},
	Tables: {SQL: sqlText(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema = database()
		ORDER BY table_name
	`)},
	Views: {SQL: sqlText(`
		SELECT table_name AS view_name, view_definition AS view_sql,
		check_option, is_updatable, 'No' AS is_insertable,
		'No' AS is_deletable
		FROM information_schema.views
		WHERE table_schema = database()
		ORDER BY table_name
	`)},
	TableColumns: mysqlColumns,
	ViewColumns:  mysqlColumns,
	Indexes:      notImplemented,
	IndexColumns: notImplemented,
}
