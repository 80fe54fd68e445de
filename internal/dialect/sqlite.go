package dialect

var sqliteColumns = Template{SQL: sqlText(`
	SELECT cid AS column_id, name AS column_name, type AS data_type,
	  CASE
	    WHEN "notnull" = 1
	      THEN 'No'
	    ELSE 'Yes'
	    END AS nullable,
	  dflt_value AS default_value,
	  '' AS comments
	FROM pragma_table_info('{object}')
	ORDER BY column_id
`)}

var sqliteTemplates = map[Purpose]Template{
	Version: {SQL: "SELECT sqlite_version()"},
	Tables: {SQL: sqlText(`
		SELECT name AS table_name
		FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)},
	Views: {SQL: sqlText(`
		SELECT name AS view_name, sql AS view_sql,
		'No' AS check_option, 'No' AS is_updatable, 'No' AS is_insertable,
		'No' AS is_deletable
		FROM sqlite_master
		WHERE type = 'view'
		ORDER BY name
	`)},
	TableColumns: sqliteColumns,
	ViewColumns:  sqliteColumns,
	Indexes: {SQL: sqlText(`
		SELECT name AS index_name, '' AS index_type, '' AS table_type,
		  CASE
		    WHEN "unique" = 1
		      THEN 'Yes'
		    ELSE 'No'
		    END AS "unique",
		  CASE
		    WHEN partial = 1
		      THEN 'Yes'
		    ELSE 'No'
		    END AS partial
		FROM pragma_index_list('{object}')
		ORDER BY name
	`)},
	IndexColumns: {SQL: sqlText(`
		SELECT seqno AS column_position, name AS column_name,
		  CASE
		    WHEN "desc" = 1
		      THEN 'DESC'
		    ELSE 'ASC'
		    END AS descend,
		  '' AS column_expression
		FROM pragma_index_xinfo('{object}')
		WHERE key = 1
		ORDER BY seqno
	`)},
}
