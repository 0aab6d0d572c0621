//go:build property

package compile

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/shipq/typedsql/proptest"
	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/querytest"
)

var propertyDialects = []Dialect{Standard, Postgres, MySQL, SQLite}

// randomCondition builds a boolean expression over tab_foo and
// tab_date_time with literals, parameters and nested logic.
func randomCondition(g *proptest.Generator, depth int) query.Expr {
	if depth == 0 || g.BoolWithProb(0.3) {
		table := proptest.OneOf(g, querytest.TabFoo, querytest.TabDateTime)
		col := proptest.Pick(g, table.All().Columns).(query.Column)
		switch g.Intn(4) {
		case 0:
			return col.IsNull()
		case 1:
			return col.Eq(query.Parameter(col))
		default:
			return col.Ne(g.Literal(col.ValueType()))
		}
	}

	switch g.Intn(3) {
	case 0:
		return query.Not(randomCondition(g, depth-1))
	case 1:
		return query.And(randomCondition(g, depth-1), randomCondition(g, depth-1))
	default:
		return query.Or(randomCondition(g, depth-1), randomCondition(g, depth-1))
	}
}

func randomSelect(g *proptest.Generator) query.SelectStatement {
	foo := querytest.TabFoo
	dt := querytest.TabDateTime

	cols := proptest.Sample(g, foo.All().Columns, g.IntRange(1, 4))

	stmt := query.Select(cols...).
		From(foo.CrossJoin(dt)).
		Where(randomCondition(g, g.IntRange(0, 4)))
	if g.Bool() {
		stmt = stmt.OrderBy(cols[0].(query.Column).Desc())
	}
	if g.Bool() {
		stmt = stmt.Limit(g.IntRange(1, 100))
	}
	return stmt
}

type scan struct {
	depth        int
	placeholders int
	balanced     bool
}

// scanSQL walks compiled SQL outside of quoted strings and identifiers,
// tracking parenthesis depth and counting placeholders.
func scanSQL(d Dialect, sql string) scan {
	s := scan{balanced: true}
	for i := 0; i < len(sql); i++ {
		switch c := sql[i]; c {
		case '\'', '"', '`':
			for i++; i < len(sql); i++ {
				if c == '\'' && d == MySQL && sql[i] == '\\' {
					i++
					continue
				}
				if sql[i] == c {
					if i+1 < len(sql) && sql[i+1] == c {
						i++
						continue
					}
					break
				}
			}
		case '(':
			s.depth++
		case ')':
			s.depth--
			if s.depth < 0 {
				s.balanced = false
			}
		case '?':
			s.placeholders++
		case '$':
			if i+1 < len(sql) && sql[i+1] >= '0' && sql[i+1] <= '9' {
				s.placeholders++
			}
		}
	}
	if s.depth != 0 {
		s.balanced = false
	}
	return s
}

func TestProperty_DeterministicSerialization(t *testing.T) {
	proptest.Check(t, "same statement compiles to same SQL", proptest.Config{NumTrials: 200},
		func(g *proptest.Generator) (string, bool) {
			stmt := randomSelect(g)
			d := proptest.Pick(g, propertyDialects)

			first, err := NewCompiler(NewContext(d)).Compile(stmt)
			if err != nil {
				return fmt.Sprintf("%s: %v", d.Name(), err), false
			}
			second, err := NewCompiler(NewContext(d)).Compile(stmt)
			if err != nil {
				return fmt.Sprintf("%s: %v", d.Name(), err), false
			}
			return first.SQL, first.SQL == second.SQL && slices.Equal(first.ParamOrder, second.ParamOrder)
		})
}

func TestProperty_BalancedParentheses(t *testing.T) {
	proptest.Check(t, "parentheses balance outside literals", proptest.Config{NumTrials: 200},
		func(g *proptest.Generator) (string, bool) {
			stmt := randomSelect(g)
			for _, d := range propertyDialects {
				res, err := NewCompiler(NewContext(d)).Compile(stmt)
				if err != nil {
					return fmt.Sprintf("%s: %v", d.Name(), err), false
				}
				if !scanSQL(d, res.SQL).balanced {
					return res.SQL, false
				}
			}
			return "", true
		})
}

func TestProperty_PlaceholdersMatchParams(t *testing.T) {
	proptest.Check(t, "one placeholder per param slot", proptest.Config{NumTrials: 200},
		func(g *proptest.Generator) (string, bool) {
			stmt := randomSelect(g)
			for _, d := range propertyDialects {
				res, err := NewCompiler(NewContext(d)).Compile(stmt)
				if err != nil {
					return fmt.Sprintf("%s: %v", d.Name(), err), false
				}
				if n := scanSQL(d, res.SQL).placeholders; n != len(res.Params) || n != len(res.ParamOrder) {
					return fmt.Sprintf("%s: %d placeholders, %d params: %s", d.Name(), n, len(res.Params), res.SQL), false
				}
				for i, p := range res.Params {
					if p.Index != i+1 {
						return fmt.Sprintf("%s: slot %d has index %d", d.Name(), i, p.Index), false
					}
				}
			}
			return "", true
		})
}

func TestProperty_TextLiteralQuoting(t *testing.T) {
	proptest.ForAll(t, "standard text literal unquotes to input", 500, func(g *proptest.Generator) (string, bool) {
		s := g.EdgeCaseString()
		sql, err := ToSQL(NewContext(Standard), query.Literal(s))
		if err != nil || len(sql) < 2 || sql[0] != '\'' || sql[len(sql)-1] != '\'' {
			return s, false
		}
		return s, strings.ReplaceAll(sql[1:len(sql)-1], "''", "'") == s
	})
}

func TestProperty_ValidIdentifiersAccepted(t *testing.T) {
	proptest.ForAll(t, "generated identifiers validate", 500, func(g *proptest.Generator) (string, bool) {
		name := g.IdentifierLower(30)
		return name, ValidateIdentifier(name) == nil
	})
}
