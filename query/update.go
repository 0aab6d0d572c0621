package query

// UpdateStatement is an UPDATE under construction.
type UpdateStatement struct {
	statement
}

// Update starts an UPDATE of t.
func Update(t Table) UpdateStatement {
	s := UpdateStatement{}
	s.ast.Kind = UpdateQuery
	s.ast.Table = t
	return s
}

// Set sets the assignments.
func (s UpdateStatement) Set(assignments ...Expr) UpdateStatement {
	if s.fill(clauseSet) {
		s.ast.Set = nonNilExprs(assignments)
	}
	return s
}

// Where restricts the update to rows matching cond.
func (s UpdateStatement) Where(cond any) UpdateStatement {
	if s.fill(clauseWhere) {
		s.ast.Where = toExpr(cond)
	}
	return s
}

// Unconditionally updates every row.
func (s UpdateStatement) Unconditionally() UpdateStatement {
	if s.fill(clauseWhere) {
		s.ast.Unconditional = true
	}
	return s
}

// Returning adds a RETURNING clause.
func (s UpdateStatement) Returning(columns ...Expr) UpdateStatement {
	if s.fill(clauseReturning) {
		s.ast.Returning = expandColumns(columns)
	}
	return s
}

// Build returns the AST snapshot of the statement.
func (s UpdateStatement) Build() *AST { return s.snapshot() }

// Err returns the first violation of the statement.
func (s UpdateStatement) Err() error { return checkAST(s.snapshot(), false, TableSet{}).Err }

// Fields returns the result row of RETURNING, if any.
func (s UpdateStatement) Fields() []Field { return fieldsOf(&s.ast) }

var _ Statement = UpdateStatement{}
