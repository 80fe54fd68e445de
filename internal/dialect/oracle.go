package dialect

var oracleColumns = Template{SQL: sqlText(`
	SELECT column_id, c.column_name,
	  CASE
	    WHEN (data_type LIKE '%CHAR%' OR data_type IN ('RAW','UROWID'))
	      THEN data_type||'('||c.char_length||
	          DECODE(char_used,'B',' BYTE','C',' CHAR','')||')'
	    WHEN data_type = 'NUMBER'
	      THEN
	        CASE
	          WHEN c.data_precision IS NULL AND c.data_scale IS NULL
	            THEN 'NUMBER'
	          WHEN c.data_precision IS NULL AND c.data_scale IS NOT NULL
	            THEN 'NUMBER(38,'||c.data_scale||')'
	          ELSE data_type||'('||c.data_precision||','||c.data_scale||')'
	          END
	    WHEN data_type = 'BFILE'
	      THEN 'BINARY FILE LOB (BFILE)'
	    WHEN data_type = 'FLOAT'
	      THEN data_type||'('||to_char(data_precision)||')'||DECODE(
	          data_precision, 126,' (double precision)', 63,' (real)','')
	    ELSE data_type
	    END AS data_type,
	  DECODE(nullable,'Y','Yes','No') AS nullable,
	  data_default AS default_value,
	  comments
	FROM user_tab_cols c, user_col_comments com
	WHERE c.table_name = '{object}'
	AND c.table_name = com.table_name
	AND c.column_name = com.column_name
	ORDER BY column_id
`)}

var oracleTemplates = map[Purpose]Template{
	Version: {SQL: "SELECT banner FROM v$version WHERE banner LIKE 'Oracle%'"},
	Tables: {SQL: sqlText(`
		SELECT table_name
		FROM user_tables
		ORDER BY table_name
	`)},
	Views: {SQL: sqlText(`
		SELECT view_name, text AS view_sql,
		'No' AS check_option, 'No' AS is_updatable, 'No' AS is_insertable,
		'No' AS is_deletable
		FROM user_views
		ORDER BY view_name
	`)},
	TableColumns: oracleColumns,
	ViewColumns:  oracleColumns,
	Indexes: {SQL: sqlText(`
		SELECT index_name, index_type, table_type,
		  CASE
		    WHEN uniqueness = 'UNIQUE'
		      THEN 'Yes'
		    ELSE 'No'
		    END AS "unique"
		FROM user_indexes WHERE table_name = '{object}'
		ORDER BY index_name
	`)},
	IndexColumns: {SQL: sqlText(`
		SELECT ic.column_position, column_name, descend,
		  column_expression FROM user_ind_columns ic
		LEFT OUTER JOIN user_ind_expressions ie
		ON ic.column_position = ie.column_position
		AND ic.index_name = ie.index_name
		WHERE ic.index_name = '{object}'
		ORDER BY ic.column_position
	`)},
}
