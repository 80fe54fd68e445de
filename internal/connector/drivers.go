package connector

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/spf13/cast"
	_ "modernc.org/sqlite"

	"table-pump/internal/dialect"
	"table-pump/internal/errs"
)

func init() {
	RegisterDriver(Driver{
		Name:    "mysql",
		SQLName: "mysql",
		Engines: []dialect.Engine{dialect.MySQL},
		Style:   dialect.StyleQMark,
		Proc:    dialect.CallStatement,
		Options: []string{"charset", "collation", "parsetime", "loc", "timeout", "tls", "allownativepasswords"},
		DSN:     mysqlDSN,
	})
	RegisterDriver(Driver{
		Name:    "pgx",
		SQLName: "pgx",
		Engines: []dialect.Engine{dialect.PostgreSQL},
		Style:   dialect.StyleDollar,
		Proc:    dialect.CallStatement,
		Options: postgresOptions,
		DSN:     postgresDSN,
	})
	RegisterDriver(Driver{
		Name:    "pq",
		SQLName: "postgres",
		Engines: []dialect.Engine{dialect.PostgreSQL},
		Style:   dialect.StyleDollar,
		Proc:    dialect.CallStatement,
		Options: postgresOptions,
		DSN:     postgresDSN,
	})
	RegisterDriver(Driver{
		Name:    "go-ora",
		SQLName: "oracle",
		Engines: []dialect.Engine{dialect.Oracle},
		Style:   dialect.StyleNamed,
		Proc:    dialect.BlockStatement,
		Options: []string{"sid", "ssl", "ssl verify", "wallet", "timeout", "prefetch_rows", "lob fetch"},
		DSN:     oracleDSN,
	})
	RegisterDriver(Driver{
		Name:    "sqlite",
		SQLName: "sqlite",
		Engines: []dialect.Engine{dialect.SQLite},
		Style:   dialect.StyleNamed,
		Proc:    dialect.CallStatement,
		Options: []string{"_pragma", "_txlock", "_time_format", "mode", "cache"},
		DSN:     sqliteDSN,
	})
	RegisterDriver(Driver{
		Name:      "sqlserver",
		SQLName:   "sqlserver",
		Engines:   []dialect.Engine{dialect.MSSQL},
		Style:     dialect.StyleAt,
		Proc:      dialect.ExecStatement,
		BatchHint: true,
		Options:   mssqlOptions,
		DSN:       mssqlDSN,
	})
	RegisterDriver(Driver{
		Name:      "mssql",
		SQLName:   "mssql",
		Engines:   []dialect.Engine{dialect.MSSQL},
		Style:     dialect.StyleQMark,
		Proc:      dialect.ExecStatement,
		BatchHint: true,
		Options:   mssqlOptions,
		DSN:       mssqlDSN,
	})
	RegisterDriver(Driver{
		Name:    "odbc",
		SQLName: "odbc",
		Engines: dialect.Engines,
		Style:   dialect.StyleQMark,
		Proc:    dialect.ExecStatement,
		Options: []string{"driver", "trusted_connection", "encrypt", "trustservercertificate", "readonly", "exclusive", "pwd"},
		DSN:     odbcDSN,
	})
}

var (
	postgresOptions = []string{"sslmode", "sslrootcert", "sslcert", "sslkey", "connect_timeout", "application_name", "search_path", "timezone"}
	mssqlOptions    = []string{"encrypt", "trustservercertificate", "app name", "connection timeout", "dial timeout", "instance", "log"}
)

func mysqlDSN(_ dialect.Engine, p Params) (string, error) {
	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
	cfg.DBName = p.Database
	for k, v := range p.Options {
		switch k {
		case "parsetime":
			cfg.ParseTime = cast.ToBool(v)
		case "allownativepasswords":
			cfg.AllowNativePasswords = cast.ToBool(v)
		case "collation":
			cfg.Collation = v
		case "tls":
			cfg.TLSConfig = v
		case "timeout":
			d, err := time.ParseDuration(v)
			if err != nil {
				return "", errs.Configf("mysql timeout %q: %v", v, err)
			}
			cfg.Timeout = d
		case "loc":
			loc, err := time.LoadLocation(v)
			if err != nil {
				return "", errs.Configf("mysql loc %q: %v", v, err)
			}
			cfg.Loc = loc
		default:
			if cfg.Params == nil {
				cfg.Params = map[string]string{}
			}
			cfg.Params[k] = v
		}
	}
	return cfg.FormatDSN(), nil
}

// postgresDSN renders libpq key=value pairs, which pgx and lib/pq both read.
func postgresDSN(_ dialect.Engine, p Params) (string, error) {
	kv := map[string]string{
		"host":   p.Host,
		"port":   strconv.Itoa(p.Port),
		"dbname": p.Database,
	}
	if p.User != "" {
		kv["user"] = p.User
	}
	if p.Password != "" {
		kv["password"] = p.Password
	}
	for k, v := range p.Options {
		kv[k] = v
	}
	return joinPairs(kv, "=", " ", quoteLibpq), nil
}

func quoteLibpq(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}

// oracleDSN maps the database to the service name.
func oracleDSN(_ dialect.Engine, p Params) (string, error) {
	opts := map[string]string{}
	for k, v := range p.Options {
		opts[strings.ToUpper(k)] = v
	}
	service := p.Database
	if sid, ok := opts["SID"]; ok && service == "" {
		service = sid
	}
	return go_ora.BuildUrl(p.Host, p.Port, service, p.User, p.Password, opts), nil
}

// sqliteDSN treats the database as a file path.
func sqliteDSN(_ dialect.Engine, p Params) (string, error) {
	if p.Database == "" {
		return "", errs.Configf("sqlite needs a database file path")
	}
	if len(p.Options) == 0 {
		return p.Database, nil
	}
	path := p.Database
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path + "?" + joinPairs(p.Options, "=", "&", nil), nil
}

// mssqlDSN renders an ADO style string; the database maps to the server's
// database keyword and the host to server.
func mssqlDSN(_ dialect.Engine, p Params) (string, error) {
	kv := map[string]string{
		"server":   p.Host,
		"port":     strconv.Itoa(p.Port),
		"database": p.Database,
	}
	if p.User != "" {
		kv["user id"] = p.User
	}
	if p.Password != "" {
		kv["password"] = p.Password
	}
	for k, v := range p.Options {
		kv[k] = v
	}
	return joinPairs(kv, "=", ";", quoteADO), nil
}

func quoteADO(v string) string {
	if !strings.ContainsAny(v, ";=") {
		return v
	}
	return "{" + strings.ReplaceAll(v, "}", "}}") + "}"
}

// odbcDSN expects the driver option to be resolved already.
func odbcDSN(e dialect.Engine, p Params) (string, error) {
	name := p.Options["driver"]
	if name == "" {
		return "", errs.Configf("odbc connection needs a driver name")
	}
	kv := map[string]string{}
	if e == dialect.Access {
		kv["DBQ"] = p.Database
	} else {
		kv["SERVER"] = p.Host
		kv["DATABASE"] = p.Database
		if p.Port != 0 {
			kv["PORT"] = strconv.Itoa(p.Port)
		}
	}
	if p.User != "" {
		kv["UID"] = p.User
	}
	if p.Password != "" {
		kv["PWD"] = p.Password
	}
	for k, v := range p.Options {
		if k != "driver" {
			kv[strings.ToUpper(k)] = v
		}
	}
	return fmt.Sprintf("DRIVER={%s};", name) + joinPairs(kv, "=", ";", quoteADO), nil
}

// joinPairs renders a map in key order so DSNs are stable.
func joinPairs(kv map[string]string, eq, sep string, quote func(string) string) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := kv[k]
		if quote != nil {
			v = quote(v)
		}
		parts = append(parts, k+eq+v)
	}
	return strings.Join(parts, sep)
}

// bulkCopy renders the bulk copy statement used by batch-hint drivers.
func bulkCopy(table string, fields []string, rows int) string {
	return mssql.CopyIn(table, mssql.BulkOptions{RowsPerBatch: rows}, fields...)
}
