// Package connector is the connection manager: it turns a connection URL into
// a live session on one of the supported engines and hides the differences
// between drivers behind one Database type.
package connector

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"table-pump/internal/dialect"
	"table-pump/internal/errs"
)

// Database is one session on a database. The session is a pinned
// connection; writes run in a transaction begun on first use and kept open
// until Commit or Rollback. A Database is not safe for concurrent use.
type Database struct {
	desc    *Descriptor
	driver  Driver
	policy  dialect.Policy
	logger  *slog.Logger
	catalog Catalog

	pool    *sql.DB
	conn    *sql.Conn
	tx      *sql.Tx
	cursors map[*Cursor]struct{}
	// attached pools were handed in by the caller and cannot be reopened.
	attached bool
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(db *Database) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithCatalog replaces the ODBC driver catalog used for driver discovery.
func WithCatalog(c Catalog) Option {
	return func(db *Database) { db.catalog = c }
}

// Open parses a connection URL and connects.
func Open(ctx context.Context, rawURL string, opts ...Option) (*Database, error) {
	desc, err := Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return Connect(ctx, desc, opts...)
}

// Connect opens a session for a parsed descriptor. Configuration problems
// fail with ErrConfiguration before any network I/O; driver errors are
// returned as the driver reported them.
func Connect(ctx context.Context, desc *Descriptor, opts ...Option) (*Database, error) {
	db, err := newDatabase(desc, opts)
	if err != nil {
		return nil, err
	}
	if err := db.open(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// Attach wraps an already opened pool, for example one built by a test
// double. The Database takes ownership of the pool.
func Attach(ctx context.Context, desc *Descriptor, pool *sql.DB, opts ...Option) (*Database, error) {
	db, err := newDatabase(desc, opts)
	if err != nil {
		return nil, err
	}
	db.pool = pool
	db.attached = true
	if err := db.pin(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func newDatabase(desc *Descriptor, opts []Option) (*Database, error) {
	drv, ok := lookupDriver(desc.Driver)
	if !ok {
		return nil, errs.Configf("unsupported driver %q", desc.Driver)
	}
	policy, ok := dialect.Lookup(desc.Engine)
	if !ok {
		return nil, errs.Configf("unsupported engine %q", desc.Engine)
	}
	db := &Database{
		desc:    desc,
		driver:  drv,
		policy:  policy,
		logger:  slog.New(slog.DiscardHandler),
		catalog: DefaultCatalog(),
		cursors: map[*Cursor]struct{}{},
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

func (db *Database) open(ctx context.Context) error {
	if !db.driver.Available() {
		return errs.Configf("driver library %q is not compiled into this build", db.driver.SQLName)
	}
	params, err := db.params()
	if err != nil {
		return err
	}
	dsn, err := db.driver.DSN(db.desc.Engine, params)
	if err != nil {
		return err
	}

	db.logger.Debug("connecting", slog.String("url", db.desc.String()), slog.String("driver", db.driver.SQLName))
	pool, err := sql.Open(db.driver.SQLName, dsn)
	if err != nil {
		return err
	}
	db.pool = pool
	if err := db.pin(ctx); err != nil {
		_ = pool.Close()
		db.pool = nil
		return err
	}
	return nil
}

func (db *Database) pin(ctx context.Context) error {
	conn, err := db.pool.Conn(ctx)
	if err != nil {
		return err
	}
	db.conn = conn
	return nil
}

// params projects the descriptor into the canonical parameter set and drops
// the options the driver does not accept.
func (db *Database) params() (Params, error) {
	p := Params{
		Host:     db.desc.Host,
		Port:     db.desc.PortOrDefault(),
		User:     db.desc.User,
		Password: db.desc.Password,
		Database: db.desc.Database,
		Options:  map[string]string{},
	}
	for k, v := range db.desc.Options {
		if !db.driver.Accepts(k) {
			db.logger.Debug("dropping option", slog.String("option", k), slog.String("driver", db.driver.Name))
			continue
		}
		p.Options[k] = v
	}
	if db.driver.Name == "odbc" && p.Options["driver"] == "" {
		name, err := FindODBCDriver(db.catalog, db.policy.ODBCHint)
		if err != nil {
			return Params{}, err
		}
		db.logger.Debug("discovered odbc driver", slog.String("name", name))
		p.Options["driver"] = name
	}
	return p, nil
}

// Reconnect drops the session and opens a new one with the same descriptor.
// Failures are returned as is.
func (db *Database) Reconnect(ctx context.Context) error {
	db.logger.Debug("reconnecting", slog.String("url", db.desc.String()))
	if db.attached {
		err := db.closeSession()
		if err != nil {
			db.logger.Debug("closing session before reconnect", slog.Any("error", err))
		}
		return db.pin(ctx)
	}
	if err := db.Close(); err != nil {
		db.logger.Debug("closing session before reconnect", slog.Any("error", err))
	}
	return db.open(ctx)
}

// Close releases open cursors, rolls back an uncommitted transaction and
// closes the connection and the pool. Every step runs even when an earlier
// one fails.
func (db *Database) Close() error {
	err := db.closeSession()
	if db.pool != nil {
		err = errors.Join(err, db.pool.Close())
		db.pool = nil
	}
	return err
}

func (db *Database) closeSession() error {
	var errList []error
	for c := range db.cursors {
		errList = append(errList, c.Close())
	}
	if db.tx != nil {
		if err := db.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			errList = append(errList, err)
		}
		db.tx = nil
	}
	if db.conn != nil {
		errList = append(errList, db.conn.Close())
		db.conn = nil
	}
	return errors.Join(errList...)
}

// Connected reports whether a session is open.
func (db *Database) Connected() bool { return db.conn != nil }

// Ping checks the session.
func (db *Database) Ping(ctx context.Context) error {
	if db.conn == nil {
		return sql.ErrConnDone
	}
	return db.conn.PingContext(ctx)
}

// Commit commits the pending transaction, if any.
func (db *Database) Commit() error {
	if db.tx == nil {
		return nil
	}
	tx := db.tx
	db.tx = nil
	return tx.Commit()
}

// Rollback discards the pending transaction, if any.
func (db *Database) Rollback() error {
	if db.tx == nil {
		return nil
	}
	tx := db.tx
	db.tx = nil
	return tx.Rollback()
}

func (db *Database) Descriptor() *Descriptor { return db.desc }
func (db *Database) Engine() dialect.Engine  { return db.desc.Engine }
func (db *Database) Policy() dialect.Policy  { return db.policy }
func (db *Database) Driver() Driver          { return db.driver }
func (db *Database) Style() dialect.Style    { return db.driver.Style }
func (db *Database) Logger() *slog.Logger    { return db.logger }

// begin starts the session transaction on the first write.
func (db *Database) begin(ctx context.Context) (*sql.Tx, error) {
	if db.tx != nil {
		return db.tx, nil
	}
	if db.conn == nil {
		return nil, sql.ErrConnDone
	}
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	db.tx = tx
	return tx, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (db *Database) reader() (queryer, error) {
	if db.tx != nil {
		return db.tx, nil
	}
	if db.conn == nil {
		return nil, sql.ErrConnDone
	}
	return db.conn, nil
}

// Exec runs a statement inside the session transaction.
func (db *Database) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	tx, err := db.begin(ctx)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("exec", slog.String("sql", query), slog.Int("args", len(args)))
	return tx.ExecContext(ctx, query, args...)
}

// Query runs a statement and returns a cursor over its rows. It sees the
// uncommitted writes of the session.
func (db *Database) Query(ctx context.Context, query string, args ...any) (*Cursor, error) {
	q, err := db.reader()
	if err != nil {
		return nil, err
	}
	db.logger.Debug("query", slog.String("sql", query), slog.Int("args", len(args)))
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	c, err := newCursor(rows)
	if err != nil {
		_ = rows.Close()
		return nil, err
	}
	c.owner = db
	db.cursors[c] = struct{}{}
	return c, nil
}
