// Package dburl parses database URLs and converts them to driver DSNs.
package dburl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Supported database dialects
const (
	DialectPostgres = "postgres"
	DialectMySQL    = "mysql"
	DialectSQLite   = "sqlite"
)

var (
	ErrUnknownDialect = errors.New("unknown database dialect")
	ErrInvalidURL     = errors.New("invalid database URL")
)

// URL is a parsed database URL.
type URL struct {
	// Dialect is postgres, mysql or sqlite.
	Dialect string
	u       *url.URL
}

// Parse parses a postgres://, postgresql://, mysql://, sqlite: or sqlite3:
// URL.
func Parse(raw string) (*URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	dialect, err := dialectOf(u.Scheme)
	if err != nil {
		return nil, err
	}
	if dialect != DialectSQLite && u.Host == "" {
		return nil, fmt.Errorf("%w: missing host in %s URL", ErrInvalidURL, dialect)
	}
	return &URL{Dialect: dialect, u: u}, nil
}

func dialectOf(scheme string) (string, error) {
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, scheme)
}

// InferDialect returns the dialect of a database URL from its scheme.
func InferDialect(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return dialectOf(u.Scheme)
}

func (u *URL) String() string { return u.u.String() }

// Redacted returns the URL with any password replaced by "xxxxx".
func (u *URL) Redacted() string { return u.u.Redacted() }

// IsLocalhost reports whether the URL points to the local machine. SQLite
// is always local.
func (u *URL) IsLocalhost() bool {
	if u.Dialect == DialectSQLite {
		return true
	}
	host := strings.ToLower(u.u.Hostname())
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}

// DatabaseName returns the database name, or the file path for SQLite.
func (u *URL) DatabaseName() string {
	if u.Dialect == DialectSQLite {
		return u.SQLitePath()
	}
	return strings.TrimPrefix(u.u.Path, "/")
}

// WithDatabaseName returns a copy of the URL naming another database.
func (u *URL) WithDatabaseName(name string) *URL {
	c := *u.u
	if u.Dialect == DialectSQLite && c.Opaque != "" {
		c.Opaque = name
	} else {
		c.Path = "/" + name
	}
	return &URL{Dialect: u.Dialect, u: &c}
}

// PostgresDSN returns the URL in the form pgx accepts.
func (u *URL) PostgresDSN() (string, error) {
	if u.Dialect != DialectPostgres {
		return "", fmt.Errorf("%w: %s URL is not a postgres URL", ErrInvalidURL, u.Dialect)
	}
	c := *u.u
	c.Scheme = "postgres"
	return c.String(), nil
}

// MySQLConfig converts the URL into a driver configuration. Query
// parameters become DSN parameters; parseTime is always set.
func (u *URL) MySQLConfig() (*mysql.Config, error) {
	if u.Dialect != DialectMySQL {
		return nil, fmt.Errorf("%w: %s URL is not a mysql URL", ErrInvalidURL, u.Dialect)
	}

	var b strings.Builder
	if u.u.User != nil {
		b.WriteString(u.u.User.Username())
		if pw, ok := u.u.User.Password(); ok {
			b.WriteString(":" + pw)
		}
		b.WriteString("@")
	}
	addr := u.u.Host
	if u.u.Port() == "" {
		addr += ":3306"
	}
	fmt.Fprintf(&b, "tcp(%s)/%s", addr, strings.TrimPrefix(u.u.Path, "/"))

	params := u.u.Query()
	params.Set("parseTime", "true")
	b.WriteString("?" + params.Encode())

	cfg, err := mysql.ParseDSN(b.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	return cfg, nil
}

// MySQLDSN converts the URL into a driver DSN:
// user:password@tcp(host:port)/dbname?parseTime=true
func (u *URL) MySQLDSN() (string, error) {
	cfg, err := u.MySQLConfig()
	if err != nil {
		return "", err
	}
	return cfg.FormatDSN(), nil
}

// SQLitePath returns the file path of a SQLite URL. sqlite:///abs/file.db
// names an absolute path, sqlite:rel/file.db a relative one and
// sqlite::memory: an in-memory database. Query parameters are kept.
func (u *URL) SQLitePath() string {
	path := u.u.Opaque
	if path == "" {
		path = u.u.Host + u.u.Path
	}
	if u.u.RawQuery != "" {
		path += "?" + u.u.RawQuery
	}
	return path
}

// BuildPostgresURL constructs a PostgreSQL connection URL.
// Format: postgres://user@host:port/dbname
func BuildPostgresURL(dbname, user, host string, port int) string {
	return fmt.Sprintf("postgres://%s@%s:%d/%s", user, host, port, dbname)
}

// BuildMySQLURL constructs a MySQL connection URL.
// Format: mysql://user@host:port/dbname
func BuildMySQLURL(dbname, user, host string, port int) string {
	return fmt.Sprintf("mysql://%s@%s:%d/%s", user, host, port, dbname)
}

// BuildSQLiteURL constructs a SQLite connection URL.
func BuildSQLiteURL(path string) string {
	if strings.HasPrefix(path, "/") {
		return "sqlite://" + path
	}
	return "sqlite:" + path
}
