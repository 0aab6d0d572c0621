package query

// =============================================================================
// Subquery Expressions
// =============================================================================

// SubqueryExpr represents a sub-select used as a value. The sub-select must
// have exactly one result column. Tables it reads without providing them
// are required from the enclosing statement.
type SubqueryExpr struct {
	Query Query
	err   error
}

func (s SubqueryExpr) ValueType() ValueType {
	if f := s.Query.Fields(); len(f) == 1 {
		return f[0].Type
	}
	return NoValue
}

// CanBeNull is always true: a sub-select without rows yields NULL.
func (s SubqueryExpr) CanBeNull() bool { return true }

func (s SubqueryExpr) Scope() Scope { return subScope(s.Query).withErr(s.err) }

// As names the sub-select in a select list.
func (s SubqueryExpr) As(alias string) AliasExpr { return As(s, alias) }

// Value uses a single column sub-select as a value.
func Value(q Query) SubqueryExpr {
	return SubqueryExpr{Query: q, err: singleColumn(q)}
}

func singleColumn(q Query) error {
	if len(q.Fields()) != 1 {
		return ErrSubSelectSingleColumn
	}
	return nil
}

// subScope is the scope a sub-select imposes on its enclosing statement.
// Aggregates inside it do not make the enclosing expression an aggregate.
func subScope(q Query) Scope {
	s := q.unresolved()
	s.Aggregate = false
	return s
}

// ExistsExpr represents EXISTS (subquery). The result is never NULL.
type ExistsExpr struct {
	Query Query
}

func (e ExistsExpr) ValueType() ValueType { return Boolean }
func (e ExistsExpr) CanBeNull() bool      { return false }
func (e ExistsExpr) Scope() Scope         { return subScope(e.Query) }

// As names the expression in a select list.
func (e ExistsExpr) As(alias string) AliasExpr { return As(e, alias) }

// Exists creates EXISTS (q).
func Exists(q Query) ExistsExpr { return ExistsExpr{Query: q} }

// Quantifier is ANY or SOME.
type Quantifier string

const (
	QuantAny  Quantifier = "ANY"
	QuantSome Quantifier = "SOME"
)

// QuantifiedExpr is the right side of a quantified comparison, as in
// x = ANY(subquery).
type QuantifiedExpr struct {
	Quantifier Quantifier
	Query      Query
	err        error
}

func (q QuantifiedExpr) ValueType() ValueType {
	if f := q.Query.Fields(); len(f) == 1 {
		return f[0].Type
	}
	return NoValue
}

func (q QuantifiedExpr) CanBeNull() bool { return true }
func (q QuantifiedExpr) Scope() Scope    { return subScope(q.Query).withErr(q.err) }

// Any creates ANY(q) for use on the right side of a comparison.
func Any(q Query) QuantifiedExpr {
	return QuantifiedExpr{Quantifier: QuantAny, Query: q, err: singleColumn(q)}
}

// Some creates SOME(q) for use on the right side of a comparison.
func Some(q Query) QuantifiedExpr {
	return QuantifiedExpr{Quantifier: QuantSome, Query: q, err: singleColumn(q)}
}

// =============================================================================
// IN and BETWEEN
// =============================================================================

// InExpr is operand [NOT] IN (values...) or operand [NOT] IN (subquery).
// Exactly one of Values and Query is used.
type InExpr struct {
	Operand Expr
	Values  []Expr
	Query   Query
	Negated bool
	err     error
}

func (in InExpr) ValueType() ValueType { return Boolean }

func (in InExpr) CanBeNull() bool {
	if in.Operand.CanBeNull() || in.Query != nil {
		return true
	}
	for _, v := range in.Values {
		if v.CanBeNull() {
			return true
		}
	}
	return false
}

func (in InExpr) Scope() Scope {
	s := mergeScopes(in.Operand.Scope(), scopeOf(in.Values...))
	if in.Query != nil {
		s = mergeScopes(s, subScope(in.Query))
	}
	return s.withErr(in.err)
}

// As names the expression in a select list.
func (in InExpr) As(alias string) AliasExpr { return As(in, alias) }

func inExpr(v any, negated bool, values []any) InExpr {
	op := toExpr(v)
	in := InExpr{Operand: op, Negated: negated}
	if len(values) == 1 {
		if q, ok := values[0].(Query); ok {
			in.Query = q
			in.err = singleColumn(q)
			if in.err == nil && !IsCompatible(op.ValueType(), q.Fields()[0].Type) {
				in.err = ErrComparisonOperandsAreCompatible
			}
			return in
		}
	}
	in.Values = make([]Expr, len(values))
	for i, x := range values {
		e := toExprFor(op.ValueType(), x)
		in.Values[i] = e
		if !IsCompatible(op.ValueType(), e.ValueType()) && in.err == nil {
			in.err = ErrComparisonOperandsAreCompatible
		}
	}
	return in
}

// In creates v IN (values...). A single Query argument is used as a
// sub-select. An empty list is written as false.
func In(v any, values ...any) InExpr { return inExpr(v, false, values) }

// NotIn creates v NOT IN (values...). An empty list is written as true.
func NotIn(v any, values ...any) InExpr { return inExpr(v, true, values) }

// BetweenExpr is operand [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Operand Expr
	Low     Expr
	High    Expr
	Negated bool
	err     error
}

func (b BetweenExpr) ValueType() ValueType { return Boolean }

func (b BetweenExpr) CanBeNull() bool {
	return b.Operand.CanBeNull() || b.Low.CanBeNull() || b.High.CanBeNull()
}

func (b BetweenExpr) Scope() Scope { return scopeOf(b.Operand, b.Low, b.High).withErr(b.err) }

// As names the expression in a select list.
func (b BetweenExpr) As(alias string) AliasExpr { return As(b, alias) }

// Between creates v BETWEEN low AND high.
func Between(v, low, high any) BetweenExpr { return between(v, false, low, high) }

// NotBetween creates v NOT BETWEEN low AND high.
func NotBetween(v, low, high any) BetweenExpr { return between(v, true, low, high) }

func between(v any, negated bool, low, high any) BetweenExpr {
	op := toExpr(v)
	b := BetweenExpr{
		Operand: op,
		Low:     toExprFor(op.ValueType(), low),
		High:    toExprFor(op.ValueType(), high),
		Negated: negated,
	}
	if !IsCompatible(op.ValueType(), b.Low.ValueType()) || !IsCompatible(op.ValueType(), b.High.ValueType()) {
		b.err = ErrComparisonOperandsAreCompatible
	}
	return b
}

// Compile-time verification that subquery types implement Expr
var (
	_ Aliasable = SubqueryExpr{}
	_ Aliasable = ExistsExpr{}
	_ Expr      = QuantifiedExpr{}
	_ Aliasable = InExpr{}
	_ Aliasable = BetweenExpr{}
)
