package query

// DeleteStatement is a DELETE under construction.
type DeleteStatement struct {
	statement
}

// DeleteFrom starts a DELETE from t.
func DeleteFrom(t Table) DeleteStatement {
	s := DeleteStatement{}
	s.ast.Kind = DeleteQuery
	s.ast.Table = t
	return s
}

// Using adds tables the WHERE condition can read.
func (s DeleteStatement) Using(item FromItem) DeleteStatement {
	if s.fill(clauseUsing) {
		s.ast.Using = item
	}
	return s
}

// Where restricts the delete to rows matching cond.
func (s DeleteStatement) Where(cond any) DeleteStatement {
	if s.fill(clauseWhere) {
		s.ast.Where = toExpr(cond)
	}
	return s
}

// Unconditionally deletes every row.
func (s DeleteStatement) Unconditionally() DeleteStatement {
	if s.fill(clauseWhere) {
		s.ast.Unconditional = true
	}
	return s
}

// Returning adds a RETURNING clause.
func (s DeleteStatement) Returning(columns ...Expr) DeleteStatement {
	if s.fill(clauseReturning) {
		s.ast.Returning = expandColumns(columns)
	}
	return s
}

// Build returns the AST snapshot of the statement.
func (s DeleteStatement) Build() *AST { return s.snapshot() }

// Err returns the first violation of the statement.
func (s DeleteStatement) Err() error { return checkAST(s.snapshot(), false, TableSet{}).Err }

// Fields returns the result row of RETURNING, if any.
func (s DeleteStatement) Fields() []Field { return fieldsOf(&s.ast) }

var _ Statement = DeleteStatement{}
