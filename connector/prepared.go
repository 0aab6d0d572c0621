package connector

import (
	"context"
	"database/sql"

	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
)

// Prepared is a prepared statement. Parameters are bound by name on every
// run.
type Prepared struct {
	conn  *Conn
	res   compile.Result
	stmt  *sql.Stmt
	owned bool
}

// Prepare compiles and prepares stmt.
func (c *Conn) Prepare(ctx context.Context, stmt query.Statement) (*Prepared, error) {
	res, err := c.compiler.Compile(stmt)
	if err != nil {
		return nil, err
	}

	if c.cache == nil {
		s, err := c.q.PrepareContext(ctx, res.SQL)
		if err != nil {
			return nil, c.wrap("prepare", res.SQL, err)
		}
		return &Prepared{conn: c, res: res, stmt: s, owned: true}, nil
	}

	s, err := c.cache.get(ctx, res.SQL)
	if err != nil {
		return nil, c.wrap("prepare", res.SQL, err)
	}
	if c.tx != nil {
		return &Prepared{conn: c, res: res, stmt: c.tx.StmtContext(ctx, s), owned: true}, nil
	}
	return &Prepared{conn: c, res: res, stmt: s}, nil
}

// SQL returns the compiled SQL.
func (p *Prepared) SQL() string { return p.res.SQL }

// Params describes the placeholders in bind order.
func (p *Prepared) Params() []compile.ParamSlot { return p.res.Params }

// Fields describes the result row.
func (p *Prepared) Fields() []query.Field { return p.res.Fields }

// Exec runs the statement and returns the number of affected rows.
func (p *Prepared) Exec(ctx context.Context, params map[string]any) (int64, error) {
	args, err := bindArgs(p.res, params, p.conn.driver.SignedUnsigned)
	if err != nil {
		return 0, err
	}
	return p.conn.exec(ctx, p.res.SQL, len(args), func() (sql.Result, error) {
		return p.stmt.ExecContext(ctx, args...)
	})
}

// Query runs the statement and returns its rows.
func (p *Prepared) Query(ctx context.Context, params map[string]any) (*Rows, error) {
	if len(p.res.Fields) == 0 {
		return nil, ErrNoResultRows
	}
	args, err := bindArgs(p.res, params, p.conn.driver.SignedUnsigned)
	if err != nil {
		return nil, err
	}
	return p.conn.query(ctx, p.res, len(args), func() (*sql.Rows, error) {
		return p.stmt.QueryContext(ctx, args...)
	})
}

// Close releases the statement. Cached statements stay open until the
// connection is closed.
func (p *Prepared) Close() error {
	if !p.owned {
		return nil
	}
	return p.stmt.Close()
}
