package compile

import (
	"math"
	"strconv"
	"time"

	"github.com/shipq/typedsql/query"
)

// =============================================================================
// SQLite Dialect
// =============================================================================

// SQLiteDialect implements Dialect for SQLite.
type SQLiteDialect struct{}

func (d *SQLiteDialect) Name() string { return "sqlite" }

func (d *SQLiteDialect) QuoteIdentifier(name string) string { return quoteWith(name, `"`) }

// Placeholder uses numbered ?NNN parameters so that the binding order is
// explicit.
func (d *SQLiteDialect) Placeholder(index int) string { return "?" + strconv.Itoa(index) }

func (d *SQLiteDialect) BoolLiteral(val bool) string {
	if val {
		return "1"
	}
	return "0"
}

func (d *SQLiteDialect) StringLiteral(s string) string { return quoteString(s) }
func (d *SQLiteDialect) BlobLiteral(b []byte) string   { return "x'" + hexUpper(b) + "'" }

// SQLite has no date types; dates and timestamps are text in the formats
// of its date functions.
func (d *SQLiteDialect) DateLiteral(t time.Time) string { return "DATE('" + formatDate(t) + "')" }

func (d *SQLiteDialect) TimestampLiteral(t time.Time) string {
	return "STRFTIME('%Y-%m-%d %H:%M:%f', '" + formatTimestamp(t, ' ') + "')"
}

func (d *SQLiteDialect) TimeOfDayLiteral(dur time.Duration) string {
	return "TIME('" + FormatTimeOfDay(dur) + "')"
}

func (d *SQLiteDialect) FloatLiteral(f float64) (string, error) {
	switch {
	case math.IsNaN(f):
		return "'NaN'", nil
	case math.IsInf(f, 1):
		return "'Inf'", nil
	case math.IsInf(f, -1):
		return "'-Inf'", nil
	}
	return strconv.FormatFloat(f, 'g', -1, 64), nil
}

func (d *SQLiteDialect) register(ctx *Context) {
	ctx.Register(query.Join{}, func(w *Writer, node any, next func() error) error {
		j := node.(query.Join)
		if !joinActive(j) {
			return next()
		}
		switch j.Type {
		case query.FullJoin:
			return unsupported(d, "FULL OUTER JOIN")
		case query.RightJoin:
			return unsupported(d, "RIGHT OUTER JOIN")
		}
		return next()
	})
	ctx.Register(query.QuantifiedExpr{}, func(w *Writer, node any, next func() error) error {
		return unsupported(d, string(node.(query.QuantifiedExpr).Quantifier))
	})
	ctx.Register(LockClause{}, func(w *Writer, node any, next func() error) error {
		return unsupported(d, "FOR UPDATE")
	})
	ctx.Register(UsingClause{}, func(w *Writer, node any, next func() error) error {
		return unsupported(d, "DELETE ... USING")
	})
	// SQLite knows UNION but not UNION DISTINCT.
	ctx.Register((*query.UnionClause)(nil), func(w *Writer, node any, next func() error) error {
		u := node.(*query.UnionClause)
		if u.All || !u.RightActive {
			return next()
		}
		if err := w.WriteStatement(u.Left); err != nil {
			return err
		}
		w.WriteString(" UNION ")
		return w.WriteStatement(u.Right)
	})
	// IS [NOT] DISTINCT FROM is spelled IS NOT and IS.
	ctx.Register(query.BinaryExpr{}, func(w *Writer, node any, next func() error) error {
		b := node.(query.BinaryExpr)
		switch b.Op {
		case query.OpIsDistinctFrom:
			return w.infix(b.Left, "IS NOT", b.Right)
		case query.OpIsNotDistinctFrom:
			return w.infix(b.Left, "IS", b.Right)
		}
		return next()
	})
}

var sqliteContext = NewContext(SQLite)

// CompileSQLite is a convenience function.
func CompileSQLite(stmt query.Statement) (Result, error) {
	return NewCompiler(sqliteContext).Compile(stmt)
}
