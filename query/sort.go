package query

// SortOrder is ASC or DESC.
type SortOrder string

const (
	Ascending  SortOrder = "ASC"
	Descending SortOrder = "DESC"
)

// NullsOrder places NULLs first or last. The zero value leaves it to the
// database.
type NullsOrder string

const (
	NullsDefault NullsOrder = ""
	NullsFirst   NullsOrder = "NULLS FIRST"
	NullsLast    NullsOrder = "NULLS LAST"
)

// SortExpr is an ORDER BY item. It has no value of its own.
type SortExpr struct {
	Expr  Expr
	Order SortOrder
	Nulls NullsOrder
}

func (s SortExpr) ValueType() ValueType { return NoValue }
func (s SortExpr) CanBeNull() bool      { return false }
func (s SortExpr) Scope() Scope         { return s.Expr.Scope() }

// NullsFirst returns s with NULLS FIRST.
func (s SortExpr) NullsFirst() SortExpr {
	s.Nulls = NullsFirst
	return s
}

// NullsLast returns s with NULLS LAST.
func (s SortExpr) NullsLast() SortExpr {
	s.Nulls = NullsLast
	return s
}

// Asc sorts by v in ascending order.
func Asc(v any) SortExpr { return SortExpr{Expr: toExpr(v), Order: Ascending} }

// Desc sorts by v in descending order.
func Desc(v any) SortExpr { return SortExpr{Expr: toExpr(v), Order: Descending} }

var _ Expr = SortExpr{}
