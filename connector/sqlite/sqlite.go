// Package sqlite connects typedsql to SQLite through the pure Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query/compile"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// Driver describes SQLite to the connector. Unsigned values are bound as
// int64.
func Driver() connector.Driver {
	return connector.Driver{
		Name:           "sqlite",
		Context:        compile.NewContext(compile.SQLite),
		ErrorCode:      ErrorCode,
		SignedUnsigned: true,
	}
}

// ErrorCode returns the extended result code and message.
func ErrorCode(err error) (code, message string, ok bool) {
	var sqErr *sqlitedrv.Error
	if errors.As(err, &sqErr) {
		return strconv.Itoa(sqErr.Code()), sqErr.Error(), true
	}
	return "", "", false
}

// IsConstraint reports whether err is any constraint violation.
func IsConstraint(err error) bool {
	var sqErr *sqlitedrv.Error
	return errors.As(err, &sqErr) && sqErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

// IsUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// violation.
func IsUniqueViolation(err error) bool {
	var sqErr *sqlitedrv.Error
	if !errors.As(err, &sqErr) {
		return false
	}
	code := sqErr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// isMemory reports whether path names an in-memory database, which only
// lives as long as its single connection.
func isMemory(path string) bool {
	return path == Memory || strings.HasPrefix(path, Memory+"?") || strings.Contains(path, "mode=memory")
}

// Open opens the database file at path, or Memory, and checks the
// connection. In-memory databases are limited to one connection.
func Open(ctx context.Context, path string, pool connector.Pool, opts ...connector.Option) (*connector.Conn, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if isMemory(path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		pool.Apply(db)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping %s: %w", path, err)
	}
	return connector.New(db, Driver(), opts...), nil
}
