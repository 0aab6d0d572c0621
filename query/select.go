package query

// SelectStatement is a SELECT under construction. It is an immutable value:
// every method returns a new statement.
type SelectStatement struct {
	statement
}

// Select starts a SELECT with the given columns. ColumnList values are
// expanded into their columns.
func Select(columns ...Expr) SelectStatement {
	s := SelectStatement{}
	s.ast.Kind = SelectQuery
	if len(columns) > 0 {
		return s.Columns(columns...)
	}
	return s
}

// Columns sets the select list.
func (s SelectStatement) Columns(columns ...Expr) SelectStatement {
	if s.fill(clauseColumns) {
		s.ast.Columns = expandColumns(columns)
	}
	return s
}

func expandColumns(columns []Expr) []Expr {
	out := make([]Expr, 0, len(columns))
	for _, c := range columns {
		switch v := c.(type) {
		case ColumnList:
			out = append(out, v.Columns...)
		case DynamicExpr:
			if list, ok := v.Expr.(ColumnList); ok {
				for _, col := range list.Columns {
					out = append(out, DynamicExpr{Active: v.Active, Expr: col})
				}
				continue
			}
			out = append(out, v)
		default:
			out = append(out, c)
		}
	}
	return out
}

// Flags sets SELECT flags such as DISTINCT.
func (s SelectStatement) Flags(flags ...SelectFlag) SelectStatement {
	if s.fill(clauseFlags) {
		s.ast.Flags = append([]SelectFlag(nil), flags...)
	}
	return s
}

// Distinct is a shorthand for Flags(FlagDistinct).
func (s SelectStatement) Distinct() SelectStatement { return s.Flags(FlagDistinct) }

// From sets the FROM item: a table, a join, a CTE or an aliased sub-select.
func (s SelectStatement) From(item FromItem) SelectStatement {
	if s.fill(clauseFrom) {
		s.ast.From = item
	}
	return s
}

// Where sets the WHERE condition.
func (s SelectStatement) Where(cond any) SelectStatement {
	if s.fill(clauseWhere) {
		s.ast.Where = toExpr(cond)
	}
	return s
}

// Unconditionally states that the statement deliberately has no WHERE.
func (s SelectStatement) Unconditionally() SelectStatement {
	if s.fill(clauseWhere) {
		s.ast.Unconditional = true
	}
	return s
}

// GroupBy sets the GROUP BY expressions.
func (s SelectStatement) GroupBy(exprs ...Expr) SelectStatement {
	if s.fill(clauseGroupBy) {
		s.ast.GroupBy = cloneExprs(exprs)
	}
	return s
}

// Having sets the HAVING condition.
func (s SelectStatement) Having(cond any) SelectStatement {
	if s.fill(clauseHaving) {
		s.ast.Having = toExpr(cond)
	}
	return s
}

// OrderBy sets the ORDER BY items, see Asc and Desc.
func (s SelectStatement) OrderBy(items ...Expr) SelectStatement {
	if s.fill(clauseOrderBy) {
		s.ast.OrderBy = cloneExprs(items)
	}
	return s
}

// Limit sets LIMIT.
func (s SelectStatement) Limit(v any) SelectStatement {
	if s.fill(clauseLimit) {
		s.ast.Limit = toExpr(v)
	}
	return s
}

// Offset sets OFFSET.
func (s SelectStatement) Offset(v any) SelectStatement {
	if s.fill(clauseOffset) {
		s.ast.Offset = toExpr(v)
	}
	return s
}

// ForUpdate appends FOR UPDATE.
func (s SelectStatement) ForUpdate() SelectStatement {
	if s.fill(clauseForUpdate) {
		s.ast.ForUpdate = true
	}
	return s
}

// UnionAll combines s and q with UNION ALL.
func (s SelectStatement) UnionAll(q Query) UnionStatement { return UnionAll(s, q) }

// UnionDistinct combines s and q with UNION DISTINCT.
func (s SelectStatement) UnionDistinct(q Query) UnionStatement { return UnionDistinct(s, q) }

// As makes the statement usable as a table named alias.
func (s SelectStatement) As(alias string) SelectTable { return newSelectTable(s, alias) }

// Build returns the AST snapshot of the statement.
func (s SelectStatement) Build() *AST { return s.snapshot() }

// Err returns the first violation of the statement.
func (s SelectStatement) Err() error { return checkAST(s.snapshot(), false, TableSet{}).Err }

// Fields returns the result row of the statement.
func (s SelectStatement) Fields() []Field { return fieldsOf(&s.ast) }

func (s SelectStatement) unresolved() Scope { return checkAST(s.snapshot(), true, TableSet{}) }

// =============================================================================
// Sub-selects as tables
// =============================================================================

// SelectTable is a sub-select in FROM: (SELECT ...) AS alias.
type SelectTable struct {
	Query  *AST
	alias  string
	fields []Field
	scope  Scope
}

func newSelectTable(q Query, alias string) SelectTable {
	return SelectTable{Query: q.Build(), alias: alias, fields: q.Fields(), scope: q.unresolved()}
}

// Name returns the alias.
func (t SelectTable) Name() string { return t.alias }

// C returns the result column called name.
func (t SelectTable) C(name string) Column {
	for _, f := range t.fields {
		if f.Name == name {
			return Column{Table: t.alias, Spec: fieldSpec(f)}
		}
	}
	return Table{name: t.alias}.C(name)
}

// All returns every result column.
func (t SelectTable) All() ColumnList {
	cols := make([]Expr, len(t.fields))
	for i, f := range t.fields {
		cols[i] = Column{Table: t.alias, Spec: fieldSpec(f)}
	}
	return ColumnList{Columns: cols}
}

func fieldSpec(f Field) ColumnSpec {
	return ColumnSpec{Name: f.Name, Type: f.Type, Nullable: f.CanBeNull, NullIsTrivial: f.NullIsTrivial}
}

func (t SelectTable) Provides() Provided {
	n := NewTableSet(t.alias)
	return Provided{All: n, Static: n}
}

func (t SelectTable) Scope() Scope { return t.scope }
func (t SelectTable) fromItem()    {}

func (t SelectTable) Join(rhs FromItem) PreJoin           { return newPreJoin(InnerJoin, t, rhs) }
func (t SelectTable) LeftOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(LeftJoin, t, rhs) }
func (t SelectTable) RightOuterJoin(rhs FromItem) PreJoin { return newPreJoin(RightJoin, t, rhs) }
func (t SelectTable) CrossJoin(rhs FromItem) Join         { return newPreJoin(CrossJoin, t, rhs).Unconditionally() }

var (
	_ Query    = SelectStatement{}
	_ FromItem = SelectTable{}
)
