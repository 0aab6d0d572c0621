// Package mysql connects typedsql to MySQL and MariaDB.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query/compile"
)

// Server error numbers callers commonly branch on.
const (
	ErDupEntry        = 1062
	ErNoReferencedRow = 1452
	ErBadNull         = 1048
	ErLockDeadlock    = 1213
)

// Driver describes MySQL to the connector.
func Driver() connector.Driver {
	return connector.Driver{
		Name:      "mysql",
		Context:   compile.NewContext(compile.MySQL),
		ErrorCode: ErrorCode,
	}
}

// ErrorCode returns the server error number and message.
func ErrorCode(err error) (code, message string, ok bool) {
	var myErr *gomysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number)), myErr.Message, true
	}
	return "", "", false
}

// IsDuplicateEntry reports whether err is a unique key violation.
func IsDuplicateEntry(err error) bool {
	var myErr *gomysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == ErDupEntry
}

// Open connects to a driver DSN (user:pass@tcp(host:port)/db) and checks
// the connection. parseTime is always enabled.
func Open(ctx context.Context, dsn string, pool connector.Pool, opts ...connector.Option) (*connector.Conn, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("mysql: parse DSN: %w", err)
	}
	return OpenConfig(ctx, cfg, pool, opts...)
}

// OpenConfig connects with a parsed driver configuration.
func OpenConfig(ctx context.Context, cfg *gomysql.Config, pool connector.Pool, opts ...connector.Option) (*connector.Conn, error) {
	cfg = cfg.Clone()
	cfg.ParseTime = true

	c, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql: create connector: %w", err)
	}
	db := sql.OpenDB(c)
	pool.Apply(db)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return connector.New(db, Driver(), opts...), nil
}
