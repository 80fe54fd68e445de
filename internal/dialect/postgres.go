package dialect

// postgresColumns rebuilds the type display string: lengths for character
// and bit types, precision and scale for numeric, and the fractional
// seconds precision for time types only when it differs from the default 6.
var postgresColumns = Template{SQL: sqlText(`
	SELECT ordinal_position AS column_id, column_name,
	  CASE
	    WHEN data_type = 'character varying'
	      THEN 'varchar('||character_maximum_length||')'
	    WHEN data_type = 'bit'
	      THEN 'bit('||character_maximum_length||')'
	    WHEN data_type = 'bit varying'
	      THEN 'varbit('||character_maximum_length||')'
	    WHEN data_type = 'character'
	      THEN 'char('||character_maximum_length||')'
	    WHEN data_type = 'numeric' AND numeric_precision IS NOT NULL AND
	          numeric_scale IS NOT NULL
	      THEN 'numeric('||numeric_precision||','||numeric_scale||')'
	    WHEN data_type IN ('bigint', 'boolean', 'date', 'double precision',
	          'integer', 'money', 'numeric', 'real', 'smallint', 'text')
	      THEN data_type
	    WHEN data_type LIKE 'timestamp%' AND datetime_precision != 6
	      THEN REPLACE(data_type, 'timestamp',
	          'timestamp('||datetime_precision||')')
	    WHEN data_type LIKE 'time%' AND datetime_precision != 6
	      THEN REGEXP_REPLACE(data_type, '^time',
	          'time('||datetime_precision||')')
	    ELSE data_type
	    END AS data_type,
	  is_nullable AS nullable,
	  column_default AS default_value,
	  '' AS comments
	FROM information_schema.columns
	WHERE table_name = lower('{object}')
	AND table_schema = 'public'
	ORDER BY ordinal_position
`)}

var postgresTemplates = map[Purpose]Template{
	Version: {SQL: "SELECT version()"},
	Tables: {SQL: sqlText(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_type = 'BASE TABLE'
		AND table_schema = 'public'
		ORDER BY table_name
	`)},
	Views: {SQL: sqlText(`
		SELECT table_name AS view_name, view_definition AS view_sql,
		check_option, is_updatable, is_insertable_into AS is_insertable,
		'No' AS is_deletable,
		is_trigger_insertable_into, is_trigger_updatable, is_trigger_deletable
		FROM information_schema.views
		WHERE table_schema = 'public'
		ORDER BY table_name
	`)},
	TableColumns: postgresColumns,
	ViewColumns:  postgresColumns,
	Indexes:      notImplemented,
	IndexColumns: notImplemented,
}
