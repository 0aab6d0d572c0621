// Package connector runs compiled statements over database/sql.
package connector

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/shipq/typedsql/logging"
	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
)

// Querier wraps the database/sql methods the connector runs statements
// with. Both *sql.DB and *sql.Tx implement it.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Driver describes how statements are compiled and errors decoded for one
// database.
type Driver struct {
	// Name is the dialect name used in log records.
	Name string
	// Context compiles statements for the database.
	Context *compile.Context
	// ErrorCode decodes driver errors. Optional.
	ErrorCode ErrorCode
	// SignedUnsigned binds unsigned values as int64.
	SignedUnsigned bool
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Conn) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStatementCache keeps prepared statements for reuse, keyed by their
// SQL.
func WithStatementCache() Option {
	return func(c *Conn) { c.cacheEnabled = true }
}

// WithOnClose registers fn to run after the database is closed.
func WithOnClose(fn func()) Option {
	return func(c *Conn) { c.onClose = append(c.onClose, fn) }
}

// Conn runs statements against a database.
type Conn struct {
	q        Querier
	db       *sql.DB
	tx       *sql.Tx
	driver   Driver
	compiler *compile.Compiler
	logger   *slog.Logger

	cacheEnabled bool
	cache        *stmtCache
	onClose      []func()
}

// New creates a connection over db.
func New(db *sql.DB, d Driver, opts ...Option) *Conn {
	c := &Conn{
		q:        db,
		db:       db,
		driver:   d,
		compiler: compile.NewCompiler(d.Context),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("dialect", d.Name)
	if c.cacheEnabled {
		c.cache = newStmtCache(db, c.logger)
	}
	return c
}

// DB returns the underlying database.
func (c *Conn) DB() *sql.DB { return c.db }

// Driver returns the driver description.
func (c *Conn) Driver() Driver { return c.driver }

// Compile compiles stmt for the connection's dialect.
func (c *Conn) Compile(stmt query.Statement) (compile.Result, error) {
	return c.compiler.Compile(stmt)
}

// Ping verifies the database is reachable.
func (c *Conn) Ping(ctx context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.wrap("ping", "", c.db.PingContext(ctx))
}

// Close closes cached statements and the database. Closing a transaction
// connection does nothing.
func (c *Conn) Close() error {
	if c.tx != nil || c.db == nil {
		return nil
	}
	var errs []error
	if c.cache != nil {
		errs = append(errs, c.cache.close())
	}
	errs = append(errs, c.db.Close())
	for _, fn := range c.onClose {
		fn()
	}
	return errors.Join(errs...)
}

// compileDirect compiles a statement that is run without binding.
func (c *Conn) compileDirect(stmt query.Statement) (compile.Result, error) {
	res, err := c.compiler.Compile(stmt)
	if err != nil {
		return compile.Result{}, err
	}
	if res.HasParams() {
		return compile.Result{}, ErrNoParameters
	}
	return res, nil
}

// Exec runs a statement and returns the number of affected rows.
func (c *Conn) Exec(ctx context.Context, stmt query.Statement) (int64, error) {
	res, err := c.compileDirect(stmt)
	if err != nil {
		return 0, err
	}
	return c.exec(ctx, res.SQL, 0, func() (sql.Result, error) {
		return c.q.ExecContext(ctx, res.SQL)
	})
}

// Query runs a statement that has result rows.
func (c *Conn) Query(ctx context.Context, stmt query.Statement) (*Rows, error) {
	res, err := c.compileDirect(stmt)
	if err != nil {
		return nil, err
	}
	if len(res.Fields) == 0 {
		return nil, ErrNoResultRows
	}
	return c.query(ctx, res, 0, func() (*sql.Rows, error) {
		return c.q.QueryContext(ctx, res.SQL)
	})
}

// Run runs a statement of any kind. Statements with result rows call fn
// once per row and return the row count; the others return the number of
// affected rows.
func (c *Conn) Run(ctx context.Context, stmt query.Statement, fn func(Row) error) (int64, error) {
	res, err := c.compileDirect(stmt)
	if err != nil {
		return 0, err
	}
	if len(res.Fields) == 0 {
		return c.exec(ctx, res.SQL, 0, func() (sql.Result, error) {
			return c.q.ExecContext(ctx, res.SQL)
		})
	}

	rows, err := c.query(ctx, res, 0, func() (*sql.Rows, error) {
		return c.q.QueryContext(ctx, res.SQL)
	})
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var n int64
	for rows.Next() {
		n++
		if fn == nil {
			continue
		}
		if err := fn(rows.Row()); err != nil {
			return n, err
		}
	}
	return n, rows.Err()
}

func (c *Conn) exec(ctx context.Context, sqlText string, nparams int, run func() (sql.Result, error)) (int64, error) {
	start := time.Now()
	r, err := run()
	c.logStatement(ctx, sqlText, nparams, start)
	if err != nil {
		return 0, c.wrap("exec", sqlText, err)
	}
	n, err := r.RowsAffected()
	if err != nil {
		return 0, c.wrap("exec", sqlText, err)
	}
	return n, nil
}

func (c *Conn) query(ctx context.Context, res compile.Result, nparams int, run func() (*sql.Rows, error)) (*Rows, error) {
	start := time.Now()
	rows, err := run()
	c.logStatement(ctx, res.SQL, nparams, start)
	if err != nil {
		return nil, c.wrap("query", res.SQL, err)
	}
	return newRows(c, rows, res.SQL, res.Fields), nil
}

func (c *Conn) logStatement(ctx context.Context, sqlText string, nparams int, start time.Time) {
	c.logger.DebugContext(ctx, "statement",
		"sql", sqlText,
		"params", nparams,
		"elapsed", time.Since(start),
	)
}

// Tx is a connection bound to a transaction. The caller must Commit or
// Rollback it.
type Tx struct {
	*Conn
	tx *sql.Tx
}

// BeginTx starts a transaction.
func (c *Conn) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	if c.tx != nil {
		return nil, errors.New("connector: transaction already in progress")
	}
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, c.wrap("begin", "", err)
	}

	child := *c
	child.q = tx
	child.tx = tx
	return &Tx{Conn: &child, tx: tx}, nil
}

func (t *Tx) Commit() error {
	return t.wrap("commit", "", t.tx.Commit())
}

// Rollback aborts the transaction. Rolling back a finished transaction is
// not an error.
func (t *Tx) Rollback() error {
	err := t.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return t.wrap("rollback", "", err)
}
