package query

// =============================================================================
// Common Table Expressions (CTEs)
// =============================================================================

// CTE is a common table expression. It is defined once with NewCTE and
// referenced in FROM like a table; the statement has to list it in With.
type CTE struct {
	name      string
	alias     string
	query     *AST
	fields    []Field
	deps      TableSet // other CTEs the definition reads
	recursive bool
	err       error
}

// NewCTE defines the CTE name as q. The definition must not read tables
// other than CTEs.
func NewCTE(name string, q Query) CTE {
	c := CTE{name: name, query: q.Build(), fields: q.Fields()}
	s := q.unresolved()
	c.err = s.Err
	if c.err == nil && !s.Tables.IsEmpty() {
		c.err = ErrCTESelfContained
	}
	c.deps = s.CTEs
	return c
}

// UnionAll extends the definition with UNION ALL q. If q reads the CTE
// itself, the CTE becomes recursive. q may be a DynamicQueryRef; an
// inactive one is validated but not compiled and never makes the CTE
// recursive.
func (c CTE) UnionAll(q Query) CTE { return c.union(q, true) }

// UnionDistinct extends the definition with UNION DISTINCT q.
func (c CTE) UnionDistinct(q Query) CTE { return c.union(q, false) }

func (c CTE) union(q Query, all bool) CTE {
	clause := &UnionClause{Left: c.query, All: all, RightActive: true}
	if d, ok := q.(DynamicQueryRef); ok {
		clause.RightActive = d.Active
		q = d.Query
	}
	clause.Right = q.Build()

	s := q.unresolved()
	if c.err == nil {
		switch {
		case s.Err != nil:
			c.err = s.Err
		case !s.Tables.IsEmpty():
			c.err = ErrCTEUnionRequiresNoTables
		case !fieldsMatch(c.fields, q.Fields()):
			c.err = ErrUnionResultRowsMatch
		}
	}
	self := NewTableSet(c.name)
	if clause.RightActive && s.CTEs.Contains(c.name) {
		c.recursive = true
	}
	c.deps = c.deps.Union(s.CTEs.Minus(self))
	c.query = &AST{Kind: UnionQuery, Union: clause}
	c.fields = unionFields(c.fields, q.Fields())
	return c
}

// CTEName returns the name the CTE is defined with.
func (c CTE) CTEName() string { return c.name }

// Alias returns the alias, or an empty string.
func (c CTE) Alias() string { return c.alias }

// Name returns the name the CTE is known by in FROM.
func (c CTE) Name() string {
	if c.alias != "" {
		return c.alias
	}
	return c.name
}

// As returns a reference to the CTE known by alias.
func (c CTE) As(alias string) CTE {
	if c.alias != "" && c.err == nil {
		c.err = ErrNoAliasOfAlias
	}
	c.alias = alias
	return c
}

// Query returns the definition.
func (c CTE) Query() *AST { return c.query }

// Recursive reports whether the definition reads the CTE itself.
func (c CTE) Recursive() bool { return c.recursive }

// Fields returns the result row of the definition.
func (c CTE) Fields() []Field { return c.fields }

// Err returns the first violation of the definition.
func (c CTE) Err() error { return c.err }

// C returns the result column called name.
func (c CTE) C(name string) Column {
	for _, f := range c.fields {
		if f.Name == name {
			return Column{Table: c.Name(), Spec: fieldSpec(f)}
		}
	}
	return Table{name: c.Name()}.C(name)
}

// All returns every result column.
func (c CTE) All() ColumnList {
	cols := make([]Expr, len(c.fields))
	for i, f := range c.fields {
		cols[i] = Column{Table: c.Name(), Spec: fieldSpec(f)}
	}
	return ColumnList{Columns: cols}
}

func (c CTE) Provides() Provided {
	n := NewTableSet(c.Name())
	return Provided{All: n, Static: n}
}

func (c CTE) Scope() Scope { return Scope{CTEs: NewTableSet(c.name), Err: c.err} }
func (c CTE) fromItem()    {}

func (c CTE) Join(rhs FromItem) PreJoin           { return newPreJoin(InnerJoin, c, rhs) }
func (c CTE) InnerJoin(rhs FromItem) PreJoin      { return newPreJoin(InnerJoin, c, rhs) }
func (c CTE) LeftOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(LeftJoin, c, rhs) }
func (c CTE) RightOuterJoin(rhs FromItem) PreJoin { return newPreJoin(RightJoin, c, rhs) }
func (c CTE) FullOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(FullJoin, c, rhs) }
func (c CTE) CrossJoin(rhs FromItem) Join         { return newPreJoin(CrossJoin, c, rhs).Unconditionally() }

// =============================================================================
// WITH
// =============================================================================

// WithClause is a list of CTEs waiting for its statement.
type WithClause struct {
	ctes []CTE
}

// With starts a statement that reads from the given CTEs. A CTE may read
// the CTEs listed before it.
func With(ctes ...CTE) WithClause {
	return WithClause{ctes: append([]CTE(nil), ctes...)}
}

// Select starts a SELECT reading from the CTEs.
func (w WithClause) Select(columns ...Expr) SelectStatement {
	s := Select(columns...)
	s.ast.With = w.ctes
	return s
}

// InsertInto starts an INSERT reading from the CTEs.
func (w WithClause) InsertInto(t Table) InsertStatement {
	s := InsertInto(t)
	s.ast.With = w.ctes
	return s
}

// Update starts an UPDATE reading from the CTEs.
func (w WithClause) Update(t Table) UpdateStatement {
	s := Update(t)
	s.ast.With = w.ctes
	return s
}

// DeleteFrom starts a DELETE reading from the CTEs.
func (w WithClause) DeleteFrom(t Table) DeleteStatement {
	s := DeleteFrom(t)
	s.ast.With = w.ctes
	return s
}

var _ FromItem = CTE{}
