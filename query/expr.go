package query

import (
	"reflect"
	"time"
)

// Expr is the interface for all expressions in a statement.
type Expr interface {
	// ValueType is the SQL value kind the expression evaluates to.
	ValueType() ValueType
	// CanBeNull reports whether the expression may evaluate to NULL.
	CanBeNull() bool
	// Scope is the scope contract of the expression. Scope().Err carries
	// the first violation detected while constructing it.
	Scope() Scope
}

// Aliasable is implemented by expressions that can be given a name in a
// select list.
type Aliasable interface {
	Expr
	As(alias string) AliasExpr
}

// NameOf returns the name a selected expression is known by: the column
// name, the alias, or the default name of operators with one. An empty
// string means the expression needs an alias before it can be selected.
func NameOf(e Expr) string {
	switch v := e.(type) {
	case Column:
		return v.Spec.Name
	case AliasExpr:
		return v.Alias
	case DynamicExpr:
		return NameOf(v.Expr)
	case GroupByColumnExpr:
		return NameOf(v.Expr)
	case ParamExpr:
		return v.Name
	case AggregateExpr:
		return v.Name()
	case WindowExpr:
		return v.Aggregate.Name()
	case UnaryExpr:
		switch v.Op {
		case OpIsNull:
			return "is_null"
		case OpIsNotNull:
			return "is_not_null"
		}
	case ExistsExpr:
		return "exists"
	}
	return ""
}

// HasDefaultName reports whether e carries a name that is not spelled out
// in its SQL, so a select list has to add it as an alias.
func HasDefaultName(e Expr) bool {
	switch v := e.(type) {
	case AggregateExpr, WindowExpr, ExistsExpr, ParamExpr:
		return true
	case UnaryExpr:
		return v.Op == OpIsNull || v.Op == OpIsNotNull
	case GroupByColumnExpr:
		return HasDefaultName(v.Expr)
	}
	return false
}

// =============================================================================
// Literals
// =============================================================================

// LiteralExpr is a constant value. Value holds the normalized Go value:
// bool, int64, uint64, float64, string, []byte, time.Time or time.Duration.
type LiteralExpr struct {
	Value any
	Type  ValueType
	Null  bool
	err   error
}

func (l LiteralExpr) ValueType() ValueType { return l.Type }
func (l LiteralExpr) CanBeNull() bool      { return l.Null }
func (l LiteralExpr) Scope() Scope         { return Scope{Err: l.err} }

// Literal creates a literal from a Go value. Signed integers become
// Integral, unsigned ones UnsignedIntegral, time.Time is a Timestamp and
// time.Duration a TimeOfDay. A nil pointer is a NULL of the pointee's kind,
// an untyped nil a NULL without value type.
func Literal(v any) LiteralExpr {
	switch x := v.(type) {
	case nil:
		return LiteralExpr{Null: true}
	case LiteralExpr:
		return x
	case bool:
		return LiteralExpr{Value: x, Type: Boolean}
	case int:
		return LiteralExpr{Value: int64(x), Type: Integral}
	case int8:
		return LiteralExpr{Value: int64(x), Type: Integral}
	case int16:
		return LiteralExpr{Value: int64(x), Type: Integral}
	case int32:
		return LiteralExpr{Value: int64(x), Type: Integral}
	case int64:
		return LiteralExpr{Value: x, Type: Integral}
	case uint:
		return LiteralExpr{Value: uint64(x), Type: UnsignedIntegral}
	case uint8:
		return LiteralExpr{Value: uint64(x), Type: UnsignedIntegral}
	case uint16:
		return LiteralExpr{Value: uint64(x), Type: UnsignedIntegral}
	case uint32:
		return LiteralExpr{Value: uint64(x), Type: UnsignedIntegral}
	case uint64:
		return LiteralExpr{Value: x, Type: UnsignedIntegral}
	case float32:
		return LiteralExpr{Value: float64(x), Type: FloatingPoint}
	case float64:
		return LiteralExpr{Value: x, Type: FloatingPoint}
	case string:
		return LiteralExpr{Value: x, Type: Text}
	case []byte:
		return LiteralExpr{Value: x, Type: Blob}
	case time.Time:
		return LiteralExpr{Value: x, Type: Timestamp}
	case time.Duration:
		return LiteralExpr{Value: x, Type: TimeOfDay}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if !rv.IsNil() {
			return Literal(rv.Elem().Interface())
		}
		elem := Literal(reflect.Zero(rv.Type().Elem()).Interface())
		if elem.err != nil {
			return elem
		}
		return Null(elem.Type)
	}
	return LiteralExpr{err: ErrLiteralTypeSupported}
}

// DateValue creates a DATE literal from the calendar day of t.
func DateValue(t time.Time) LiteralExpr {
	y, m, d := t.Date()
	return LiteralExpr{Value: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Type: Date}
}

// TimeOfDayValue creates a TIME literal, d being the offset from midnight.
func TimeOfDayValue(d time.Duration) LiteralExpr {
	return LiteralExpr{Value: d, Type: TimeOfDay}
}

// Null is a typed NULL literal.
func Null(vt ValueType) LiteralExpr {
	return LiteralExpr{Type: vt, Null: true}
}

// DefaultValue is the DEFAULT keyword on the right side of an assignment.
type DefaultValue struct{}

// Default assigns the column's default value.
var Default DefaultValue

func (DefaultValue) ValueType() ValueType { return NoValue }
func (DefaultValue) CanBeNull() bool      { return false }
func (DefaultValue) Scope() Scope         { return Scope{} }

// =============================================================================
// Parameters
// =============================================================================

// ParamExpr is a named placeholder bound at execution time.
type ParamExpr struct {
	Name     string
	Type     ValueType
	Nullable bool
}

func (p ParamExpr) ValueType() ValueType { return p.Type }
func (p ParamExpr) CanBeNull() bool      { return p.Nullable }
func (p ParamExpr) Scope() Scope         { return Scope{} }

// As names the parameter in a select list.
func (p ParamExpr) As(alias string) AliasExpr { return As(p, alias) }

// Parameter creates a parameter that takes the type and nullability of col
// and is named after it.
func Parameter(col Column) ParamExpr {
	return ParamExpr{Name: col.Spec.Name, Type: col.Spec.Type, Nullable: col.Spec.Nullable}
}

// NewParam creates a parameter with an explicit name and type.
func NewParam(name string, vt ValueType, nullable bool) ParamExpr {
	return ParamExpr{Name: name, Type: vt, Nullable: nullable}
}

// =============================================================================
// Verbatim SQL
// =============================================================================

// VerbatimExpr is SQL text copied into the statement as is. It requires no
// tables and is not checked beyond the declared value type.
type VerbatimExpr struct {
	SQL      string
	Type     ValueType
	Nullable bool
}

func (v VerbatimExpr) ValueType() ValueType { return v.Type }
func (v VerbatimExpr) CanBeNull() bool      { return v.Nullable }
func (v VerbatimExpr) Scope() Scope         { return Scope{} }

// As names the verbatim expression in a select list.
func (v VerbatimExpr) As(alias string) AliasExpr { return As(v, alias) }

// Verbatim creates a non-nullable verbatim expression of kind vt.
func Verbatim(sql string, vt ValueType) VerbatimExpr {
	return VerbatimExpr{SQL: sql, Type: vt}
}

// =============================================================================
// Aliases
// =============================================================================

// AliasExpr names an expression: expr AS alias.
type AliasExpr struct {
	Expr  Expr
	Alias string
	err   error
}

func (a AliasExpr) ValueType() ValueType { return a.Expr.ValueType() }
func (a AliasExpr) CanBeNull() bool      { return a.Expr.CanBeNull() }
func (a AliasExpr) Scope() Scope         { return a.Expr.Scope().withErr(a.err) }

// As names e. Aliasing an alias is a violation.
func As(e Expr, alias string) AliasExpr {
	a := AliasExpr{Expr: e, Alias: alias}
	if _, ok := e.(AliasExpr); ok {
		a.err = ErrNoAliasOfAlias
	}
	return a
}

// =============================================================================
// Dynamic fragments
// =============================================================================

// DynamicExpr is an expression that is only part of the statement if
// Active is set when the statement is built.
type DynamicExpr struct {
	Active bool
	Expr   Expr
}

func (d DynamicExpr) ValueType() ValueType { return d.Expr.ValueType() }

// CanBeNull is always true: an inactive fragment selects NULL.
func (d DynamicExpr) CanBeNull() bool { return true }

func (d DynamicExpr) Scope() Scope {
	s := d.Expr.Scope()
	s.StaticTables = TableSet{}
	return s
}

// As names the dynamic expression in a select list.
func (d DynamicExpr) As(alias string) AliasExpr { return As(d, alias) }

// Dynamic wraps e so it can be switched off at runtime.
func Dynamic(active bool, e any) DynamicExpr {
	return DynamicExpr{Active: active, Expr: toExpr(e)}
}

// GroupByColumnExpr declares an expression as grouped, so it can be
// selected next to aggregates when the same expression is in GROUP BY.
type GroupByColumnExpr struct {
	Expr Expr
}

func (g GroupByColumnExpr) ValueType() ValueType { return g.Expr.ValueType() }
func (g GroupByColumnExpr) CanBeNull() bool      { return g.Expr.CanBeNull() }
func (g GroupByColumnExpr) Scope() Scope         { return g.Expr.Scope() }

// As names the grouped expression in a select list.
func (g GroupByColumnExpr) As(alias string) AliasExpr { return As(g, alias) }

// GroupByColumn declares e as a group by column.
func GroupByColumn(e Expr) GroupByColumnExpr {
	return GroupByColumnExpr{Expr: e}
}

// toExpr converts any value to an Expr.
// If the value is already an Expr, it's returned as-is.
// Otherwise, it's wrapped in a LiteralExpr.
func toExpr(v any) Expr {
	if e, ok := v.(Expr); ok {
		return e
	}
	return Literal(v)
}

// toExprFor converts v like toExpr, except that an untyped nil becomes a
// NULL of the given kind.
func toExprFor(vt ValueType, v any) Expr {
	if v == nil {
		return Null(vt)
	}
	return toExpr(v)
}

// Compile-time verification that the leaf types implement Expr
var (
	_ Expr = LiteralExpr{}
	_ Expr = ParamExpr{}
	_ Expr = VerbatimExpr{}
	_ Expr = AliasExpr{}
	_ Expr = DynamicExpr{}
	_ Expr = GroupByColumnExpr{}
	_ Expr = DefaultValue{}

	_ Aliasable = ParamExpr{}
	_ Aliasable = DynamicExpr{}
)
