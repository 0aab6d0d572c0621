package compile

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shipq/typedsql/query"
)

// PostgresDialect quotes every identifier with double quotes, binds with
// numbered $n placeholders and has native BOOLEAN, bytea and float specials.
type PostgresDialect struct{}

func (*PostgresDialect) Name() string { return "postgres" }

func (d *PostgresDialect) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }

func (*PostgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (*PostgresDialect) BoolLiteral(b bool) string { return strings.ToUpper(strconv.FormatBool(b)) }

func (d *PostgresDialect) StringLiteral(s string) string { return quoteString(s) }

// BlobLiteral writes a bytea in hex format.
func (d *PostgresDialect) BlobLiteral(b []byte) string { return `'\x` + hexUpper(b) + "'" }

func (d *PostgresDialect) DateLiteral(t time.Time) string { return "DATE '" + formatDate(t) + "'" }

func (d *PostgresDialect) TimestampLiteral(t time.Time) string {
	return "TIMESTAMP '" + formatTimestamp(t, ' ') + "'"
}

func (d *PostgresDialect) TimeOfDayLiteral(dur time.Duration) string {
	return "TIME '" + FormatTimeOfDay(dur) + "'"
}

func (d *PostgresDialect) FloatLiteral(f float64) (string, error) {
	switch {
	case math.IsNaN(f):
		return "'NaN'::float8", nil
	case math.IsInf(f, 1):
		return "'Infinity'::float8", nil
	case math.IsInf(f, -1):
		return "'-Infinity'::float8", nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

// Postgres needs no overrides: it supports every clause the builder
// produces.
func (d *PostgresDialect) register(ctx *Context) {}

var postgresContext = NewContext(Postgres)

// CompilePostgres compiles stmt with a shared Postgres context.
func CompilePostgres(stmt query.Statement) (Result, error) {
	return NewCompiler(postgresContext).Compile(stmt)
}
