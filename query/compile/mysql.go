package compile

import (
	"strings"
	"time"

	"github.com/shipq/typedsql/query"
)

// =============================================================================
// MySQL Dialect
// =============================================================================

// MySQLDialect implements Dialect for MySQL.
type MySQLDialect struct{}

func (d *MySQLDialect) Name() string { return "mysql" }

func (d *MySQLDialect) QuoteIdentifier(name string) string { return quoteWith(name, "`") }

func (d *MySQLDialect) Placeholder(index int) string { return "?" }

func (d *MySQLDialect) BoolLiteral(val bool) string {
	if val {
		return "1"
	}
	return "0"
}

// StringLiteral escapes backslashes too, as MySQL treats them as escape
// characters unless NO_BACKSLASH_ESCAPES is set.
func (d *MySQLDialect) StringLiteral(s string) string {
	return quoteString(strings.ReplaceAll(s, `\`, `\\`))
}

func (d *MySQLDialect) BlobLiteral(b []byte) string    { return "x'" + hexUpper(b) + "'" }
func (d *MySQLDialect) DateLiteral(t time.Time) string { return "DATE '" + formatDate(t) + "'" }

func (d *MySQLDialect) TimestampLiteral(t time.Time) string {
	return "TIMESTAMP '" + formatTimestamp(t, ' ') + "'"
}

func (d *MySQLDialect) TimeOfDayLiteral(dur time.Duration) string {
	return "TIME '" + FormatTimeOfDay(dur) + "'"
}

func (d *MySQLDialect) FloatLiteral(f float64) (string, error) { return formatFloat(d, f) }

func (d *MySQLDialect) register(ctx *Context) {
	ctx.Register(query.Join{}, func(w *Writer, node any, next func() error) error {
		if j := node.(query.Join); j.Type == query.FullJoin && joinActive(j) {
			return unsupported(d, "FULL OUTER JOIN")
		}
		return next()
	})
	ctx.Register(ReturningClause{}, func(w *Writer, node any, next func() error) error {
		if len(activeItems(node.(ReturningClause).Columns)) == 0 {
			return nil
		}
		return unsupported(d, "RETURNING")
	})
	ctx.Register((*query.OnConflict)(nil), func(w *Writer, node any, next func() error) error {
		return unsupported(d, "ON CONFLICT")
	})
	ctx.Register(query.SortExpr{}, func(w *Writer, node any, next func() error) error {
		if node.(query.SortExpr).Nulls != query.NullsDefault {
			return unsupported(d, "NULLS FIRST/LAST")
		}
		return next()
	})
	// MySQL spells IS [NOT] DISTINCT FROM with the null-safe equality <=>.
	ctx.Register(query.BinaryExpr{}, func(w *Writer, node any, next func() error) error {
		b := node.(query.BinaryExpr)
		switch b.Op {
		case query.OpIsNotDistinctFrom:
			return w.infix(b.Left, "<=>", b.Right)
		case query.OpIsDistinctFrom:
			w.WriteString("NOT (")
			if err := w.infix(b.Left, "<=>", b.Right); err != nil {
				return err
			}
			w.WriteString(")")
			return nil
		}
		return next()
	})
}

var mysqlContext = NewContext(MySQL)

// CompileMySQL is a convenience function.
func CompileMySQL(stmt query.Statement) (Result, error) {
	return NewCompiler(mysqlContext).Compile(stmt)
}
