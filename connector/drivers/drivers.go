// Package drivers opens the connector matching a database URL.
package drivers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shipq/typedsql/config"
	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/connector/mysql"
	"github.com/shipq/typedsql/connector/postgres"
	"github.com/shipq/typedsql/connector/sqlite"
	"github.com/shipq/typedsql/dburl"
)

// ErrNoURL is returned when no database URL is configured.
var ErrNoURL = errors.New("database.url is not set")

// ErrDialectMismatch is returned when the configured dialect disagrees
// with the URL scheme.
var ErrDialectMismatch = errors.New("database.dialect does not match the URL")

// Open connects to the database described by cfg.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*connector.Conn, error) {
	if cfg.Database.URL == "" {
		return nil, ErrNoURL
	}
	u, err := dburl.Parse(cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	if d := cfg.Database.Dialect; d != "" && d != u.Dialect {
		return nil, fmt.Errorf("%w: %s vs %s", ErrDialectMismatch, d, u.Dialect)
	}

	opts := []connector.Option{connector.WithLogger(logger)}
	if cfg.Statements.Cache {
		opts = append(opts, connector.WithStatementCache())
	}
	pool := connector.Pool{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	conn, err := OpenURL(ctx, u, pool, opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("connected", "dialect", u.Dialect, "url", u.Redacted())
	return conn, nil
}

// OpenURL connects to u with the connector of its dialect.
func OpenURL(ctx context.Context, u *dburl.URL, pool connector.Pool, opts ...connector.Option) (*connector.Conn, error) {
	switch u.Dialect {
	case dburl.DialectPostgres:
		dsn, err := u.PostgresDSN()
		if err != nil {
			return nil, err
		}
		return postgres.Open(ctx, dsn, pool, opts...)
	case dburl.DialectMySQL:
		cfg, err := u.MySQLConfig()
		if err != nil {
			return nil, err
		}
		return mysql.OpenConfig(ctx, cfg, pool, opts...)
	case dburl.DialectSQLite:
		return sqlite.Open(ctx, u.SQLitePath(), pool, opts...)
	}
	return nil, fmt.Errorf("%w: %s", dburl.ErrUnknownDialect, u.Dialect)
}

// Driver returns the connector description of a dialect.
func Driver(dialect string) (connector.Driver, error) {
	switch dialect {
	case dburl.DialectPostgres:
		return postgres.Driver(), nil
	case dburl.DialectMySQL:
		return mysql.Driver(), nil
	case dburl.DialectSQLite:
		return sqlite.Driver(), nil
	}
	return connector.Driver{}, fmt.Errorf("%w: %q", dburl.ErrUnknownDialect, dialect)
}
