// Package postgres connects typedsql to PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query/compile"
)

// SQLSTATE codes callers commonly branch on.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeNotNullViolation    = "23502"
	CodeSerialization       = "40001"
)

// Driver describes PostgreSQL to the connector.
func Driver() connector.Driver {
	return connector.Driver{
		Name:      "postgres",
		Context:   compile.NewContext(compile.Postgres),
		ErrorCode: ErrorCode,
	}
}

// ErrorCode returns the SQLSTATE and message of a server error.
func ErrorCode(err error) (code, message string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.Message, true
	}
	return "", "", false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	code, _, ok := ErrorCode(err)
	return ok && code == CodeUniqueViolation
}

// Open connects to dsn, a postgres:// URL or key=value string, and checks
// the connection.
func Open(ctx context.Context, dsn string, pool connector.Pool, opts ...connector.Option) (*connector.Conn, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		cfg.MaxConns = int32(pool.MaxOpenConns)
	}
	if pool.ConnMaxLifetime > 0 {
		cfg.MaxConnLifetime = pool.ConnMaxLifetime
	}

	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	db := stdlib.OpenDBFromPool(p)
	pool.Apply(db)
	return connector.New(db, Driver(), append(opts, connector.WithOnClose(p.Close))...), nil
}
