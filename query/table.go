package query

import "fmt"

// ColumnSpec describes a column of a table.
type ColumnSpec struct {
	Name     string
	Type     ValueType
	Nullable bool
	// HasDefault is set for columns with an explicit default or an
	// auto-increment value.
	HasDefault bool
	// NullIsTrivial is set if reading NULL as the zero value loses nothing.
	NullIsTrivial bool
}

// Required reports whether inserts have to assign the column.
func (s ColumnSpec) Required() bool { return !s.Nullable && !s.HasDefault }

// Table is a table referenced in statements. Tables are values; As returns
// an aliased copy that is known by its alias in scope checks.
type Table struct {
	name  string
	alias string
	specs []ColumnSpec
	err   error
}

// NewTable declares a table and its columns.
func NewTable(name string, columns ...ColumnSpec) Table {
	return Table{name: name, specs: columns}
}

// TableName returns the name of the underlying table.
func (t Table) TableName() string { return t.name }

// Alias returns the alias, or an empty string.
func (t Table) Alias() string { return t.alias }

// Name returns the name the table is known by in the statement.
func (t Table) Name() string {
	if t.alias != "" {
		return t.alias
	}
	return t.name
}

// As returns a copy of the table known by alias. Aliasing an aliased
// table is a violation.
func (t Table) As(alias string) Table {
	if t.alias != "" {
		t.err = ErrNoAliasOfAlias
	}
	t.alias = alias
	return t
}

// Columns returns the column declarations.
func (t Table) Columns() []ColumnSpec { return t.specs }

// Lookup returns the named column.
func (t Table) Lookup(name string) (Column, bool) {
	for _, s := range t.specs {
		if s.Name == name {
			return Column{Table: t.Name(), Spec: s}, true
		}
	}
	return Column{}, false
}

// C returns the named column. An unknown name yields a column carrying
// ErrUnknownColumn, reported when the statement is checked.
func (t Table) C(name string) Column {
	if c, ok := t.Lookup(name); ok {
		return c
	}
	return Column{
		Table: t.Name(),
		Spec:  ColumnSpec{Name: name},
		err:   fmt.Errorf("%w: %s.%s", ErrUnknownColumn, t.Name(), name),
	}
}

// All returns every column of the table for use in a select list.
func (t Table) All() ColumnList {
	cols := make([]Expr, len(t.specs))
	for i, s := range t.specs {
		cols[i] = Column{Table: t.Name(), Spec: s}
	}
	return ColumnList{Columns: cols}
}

// Required returns the columns inserts have to assign.
func (t Table) Required() []Column {
	var out []Column
	for _, s := range t.specs {
		if s.Required() {
			out = append(out, Column{Table: t.Name(), Spec: s})
		}
	}
	return out
}

func (t Table) Provides() Provided {
	n := NewTableSet(t.Name())
	return Provided{All: n, Static: n}
}

func (t Table) Scope() Scope { return Scope{Err: t.err} }
func (t Table) fromItem()    {}

// =============================================================================
// Columns
// =============================================================================

// Column is a column of a table, bound to the name the table is known by.
type Column struct {
	Table string
	Spec  ColumnSpec
	err   error
}

// Name returns the column name.
func (c Column) Name() string { return c.Spec.Name }

func (c Column) ValueType() ValueType { return c.Spec.Type }
func (c Column) CanBeNull() bool      { return c.Spec.Nullable }
func (c Column) Scope() Scope         { return requireTable(c.Table).withErr(c.err) }

// As names the column in a select list.
func (c Column) As(alias string) AliasExpr { return As(c, alias) }

// same reports whether both refer to the same column of the same table.
func (c Column) same(o Column) bool { return c.Table == o.Table && c.Spec.Name == o.Spec.Name }

func (c Column) Eq(v any) BinaryExpr                  { return Eq(c, v) }
func (c Column) Ne(v any) BinaryExpr                  { return Ne(c, v) }
func (c Column) Lt(v any) BinaryExpr                  { return Lt(c, v) }
func (c Column) Le(v any) BinaryExpr                  { return Le(c, v) }
func (c Column) Gt(v any) BinaryExpr                  { return Gt(c, v) }
func (c Column) Ge(v any) BinaryExpr                  { return Ge(c, v) }
func (c Column) IsDistinctFrom(v any) BinaryExpr      { return IsDistinctFrom(c, v) }
func (c Column) IsNotDistinctFrom(v any) BinaryExpr   { return IsNotDistinctFrom(c, v) }
func (c Column) Like(pattern any) BinaryExpr          { return Like(c, pattern) }
func (c Column) NotLike(pattern any) BinaryExpr       { return NotLike(c, pattern) }
func (c Column) IsNull() UnaryExpr                    { return IsNull(c) }
func (c Column) IsNotNull() UnaryExpr                 { return IsNotNull(c) }
func (c Column) In(values ...any) InExpr              { return In(c, values...) }
func (c Column) NotIn(values ...any) InExpr           { return NotIn(c, values...) }
func (c Column) Between(low, high any) BetweenExpr    { return Between(c, low, high) }
func (c Column) NotBetween(low, high any) BetweenExpr { return NotBetween(c, low, high) }
func (c Column) Asc() SortExpr                        { return Asc(c) }
func (c Column) Desc() SortExpr                       { return Desc(c) }

// ColumnList expands into its columns when used in a select list.
type ColumnList struct {
	Columns []Expr
}

func (l ColumnList) ValueType() ValueType { return NoValue }
func (l ColumnList) CanBeNull() bool      { return false }
func (l ColumnList) Scope() Scope         { return scopeOf(l.Columns...) }

// AllOf selects every column of a table, a CTE or an aliased sub-select.
func AllOf(src interface{ All() ColumnList }) ColumnList { return src.All() }

var (
	_ Aliasable = Column{}
	_ Expr      = ColumnList{}
)
