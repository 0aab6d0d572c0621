package query

import "strings"

// =============================================================================
// Scalar functions
// =============================================================================

// FuncExpr represents a scalar function call.
type FuncExpr struct {
	Name     string
	Args     []Expr
	Type     ValueType
	Nullable bool
	err      error
}

func (f FuncExpr) ValueType() ValueType { return f.Type }
func (f FuncExpr) CanBeNull() bool      { return f.Nullable }
func (f FuncExpr) Scope() Scope         { return scopeOf(f.Args...).withErr(f.err) }

// As names the function call in a select list.
func (f FuncExpr) As(alias string) AliasExpr { return As(f, alias) }

func textFunc(name string, args []any) FuncExpr {
	f := FuncExpr{Name: name, Type: Text, Args: make([]Expr, len(args))}
	for i, v := range args {
		e := toExprFor(Text, v)
		f.Args[i] = e
		f.Nullable = f.Nullable || e.CanBeNull()
		if e.ValueType() != Text && f.err == nil {
			f.err = ErrTextFunctionOperandIsText
		}
	}
	return f
}

// Lower creates LOWER(v).
func Lower(v any) FuncExpr { return textFunc("LOWER", []any{v}) }

// Upper creates UPPER(v).
func Upper(v any) FuncExpr { return textFunc("UPPER", []any{v}) }

// Trim creates TRIM(v).
func Trim(v any) FuncExpr { return textFunc("TRIM", []any{v}) }

// Concat creates CONCAT(args...). The result is NULL if any argument is.
func Concat(args ...any) FuncExpr { return textFunc("CONCAT", args) }

// Coalesce creates COALESCE(args...). The result takes the kind of the first
// argument and is only nullable if every argument is.
func Coalesce(first any, rest ...any) FuncExpr {
	head := toExpr(first)
	f := FuncExpr{Name: "COALESCE", Type: head.ValueType(), Nullable: head.CanBeNull(), Args: []Expr{head}}
	for _, v := range rest {
		e := toExprFor(f.Type, v)
		f.Args = append(f.Args, e)
		f.Nullable = f.Nullable && e.CanBeNull()
		if !IsCompatible(f.Type, e.ValueType()) && f.err == nil {
			f.err = ErrComparisonOperandsAreCompatible
		}
	}
	return f
}

// =============================================================================
// Aggregate Expressions (COUNT, SUM, AVG, MIN, MAX)
// =============================================================================

// AggregateFunc represents an aggregate function type.
type AggregateFunc string

const (
	AggCount AggregateFunc = "COUNT"
	AggSum   AggregateFunc = "SUM"
	AggAvg   AggregateFunc = "AVG"
	AggMin   AggregateFunc = "MIN"
	AggMax   AggregateFunc = "MAX"
)

// AggregateExpr represents an aggregate function call.
// Examples: COUNT(*), SUM(amount), AVG(price), COUNT(DISTINCT email)
type AggregateExpr struct {
	Func     AggregateFunc
	Arg      Expr // nil for COUNT(*)
	Distinct bool
	err      error
}

// Name is the default name of the aggregate in a select list, e.g. "count".
func (a AggregateExpr) Name() string { return strings.ToLower(string(a.Func)) }

func (a AggregateExpr) ValueType() ValueType {
	switch a.Func {
	case AggCount:
		return Integral
	case AggAvg:
		return FloatingPoint
	}
	return a.Arg.ValueType()
}

// CanBeNull is true for everything but COUNT: the others are NULL on empty input.
func (a AggregateExpr) CanBeNull() bool { return a.Func != AggCount }

func (a AggregateExpr) Scope() Scope {
	s := scopeOf(a.Arg).withErr(a.err)
	s.Aggregate = true
	return s
}

// As names the aggregate in a select list.
func (a AggregateExpr) As(alias string) AliasExpr { return As(a, alias) }

// WithDistinct returns the aggregate applied to distinct values only.
func (a AggregateExpr) WithDistinct() AggregateExpr {
	a.Distinct = true
	return a
}

func (a AggregateExpr) Eq(v any) BinaryExpr { return Eq(a, v) }
func (a AggregateExpr) Ne(v any) BinaryExpr { return Ne(a, v) }
func (a AggregateExpr) Lt(v any) BinaryExpr { return Lt(a, v) }
func (a AggregateExpr) Le(v any) BinaryExpr { return Le(a, v) }
func (a AggregateExpr) Gt(v any) BinaryExpr { return Gt(a, v) }
func (a AggregateExpr) Ge(v any) BinaryExpr { return Ge(a, v) }
func (a AggregateExpr) Asc() SortExpr       { return Asc(a) }
func (a AggregateExpr) Desc() SortExpr      { return Desc(a) }

// Over turns the aggregate into a window function over the whole result.
func (a AggregateExpr) Over() WindowExpr { return WindowExpr{Aggregate: a} }

func aggregate(fn AggregateFunc, v any) AggregateExpr {
	a := AggregateExpr{Func: fn, Arg: toExpr(v)}
	switch {
	case !a.Arg.ValueType().HasValue():
		a.err = ErrAggregateOperandHasValue
	case a.Arg.Scope().Aggregate:
		a.err = ErrNoNestedAggregates
	case (fn == AggSum || fn == AggAvg) && !a.Arg.ValueType().IsNumeric():
		a.err = ErrArithmeticOperandsAreNumeric
	}
	return a
}

// Count creates COUNT(v).
func Count(v any) AggregateExpr { return aggregate(AggCount, v) }

// CountAll creates COUNT(*).
func CountAll() AggregateExpr { return AggregateExpr{Func: AggCount} }

// Sum creates SUM(v).
func Sum(v any) AggregateExpr { return aggregate(AggSum, v) }

// Avg creates AVG(v).
func Avg(v any) AggregateExpr { return aggregate(AggAvg, v) }

// Min creates MIN(v).
func Min(v any) AggregateExpr { return aggregate(AggMin, v) }

// Max creates MAX(v).
func Max(v any) AggregateExpr { return aggregate(AggMax, v) }

// Distinct marks an aggregate argument as DISTINCT, as in Count(Distinct(x)).
func Distinct(a AggregateExpr) AggregateExpr { return a.WithDistinct() }

// WindowExpr is an aggregate evaluated as a window function: agg OVER().
// It is neither an aggregate nor a plain value for the select list rules,
// but it cannot be used in WHERE.
type WindowExpr struct {
	Aggregate AggregateExpr
}

func (w WindowExpr) ValueType() ValueType { return w.Aggregate.ValueType() }
func (w WindowExpr) CanBeNull() bool      { return w.Aggregate.CanBeNull() }
func (w WindowExpr) Scope() Scope         { return w.Aggregate.Scope() }

// As names the window function in a select list.
func (w WindowExpr) As(alias string) AliasExpr { return As(w, alias) }

// =============================================================================
// CASE
// =============================================================================

// WhenThen is one branch of a CASE expression.
type WhenThen struct {
	When Expr
	Then Expr
}

// CaseExpr is CASE WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Branches []WhenThen
	ElseExpr Expr // nil means ELSE NULL
	err      error
}

func (c CaseExpr) ValueType() ValueType { return c.Branches[0].Then.ValueType() }

func (c CaseExpr) CanBeNull() bool {
	if c.ElseExpr == nil || c.ElseExpr.CanBeNull() {
		return true
	}
	for _, b := range c.Branches {
		if b.Then.CanBeNull() {
			return true
		}
	}
	return false
}

func (c CaseExpr) Scope() Scope {
	exprs := make([]Expr, 0, 2*len(c.Branches)+1)
	for _, b := range c.Branches {
		exprs = append(exprs, b.When, b.Then)
	}
	exprs = append(exprs, c.ElseExpr)
	return scopeOf(exprs...).withErr(c.err)
}

// As names the CASE expression in a select list.
func (c CaseExpr) As(alias string) AliasExpr { return As(c, alias) }

// Case starts a CASE expression with its first branch.
func Case(when, then any) CaseExpr {
	return CaseExpr{}.When(when, then)
}

// When adds a branch. Every THEN must match the kind of the first one.
func (c CaseExpr) When(when, then any) CaseExpr {
	w := toExpr(when)
	var t Expr
	if len(c.Branches) == 0 {
		t = toExpr(then)
	} else {
		t = toExprFor(c.ValueType(), then)
	}
	if c.err == nil {
		switch {
		case w.ValueType() != Boolean:
			c.err = ErrCaseWhenBooleanExpression
		case !t.ValueType().HasValue():
			c.err = ErrCaseThenExpression
		case len(c.Branches) > 0 && !IsCompatible(c.ValueType(), t.ValueType()):
			c.err = ErrCaseThenElseSameType
		}
	}
	c.Branches = append(c.Branches[:len(c.Branches):len(c.Branches)], WhenThen{When: w, Then: t})
	return c
}

// Else sets the ELSE branch. It must match the kind of the THEN branches.
func (c CaseExpr) Else(v any) CaseExpr {
	e := toExprFor(c.ValueType(), v)
	if c.err == nil {
		switch {
		case !e.ValueType().HasValue():
			c.err = ErrCaseElseExpression
		case !IsCompatible(c.ValueType(), e.ValueType()):
			c.err = ErrCaseThenElseSameType
		}
	}
	c.ElseExpr = e
	return c
}

// Compile-time verification that function types implement Aliasable
var (
	_ Aliasable = FuncExpr{}
	_ Aliasable = AggregateExpr{}
	_ Aliasable = WindowExpr{}
	_ Aliasable = CaseExpr{}
)
