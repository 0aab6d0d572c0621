package query

// InsertStatement is an INSERT under construction.
type InsertStatement struct {
	statement
}

// InsertInto starts an INSERT into t.
func InsertInto(t Table) InsertStatement {
	s := InsertStatement{}
	s.ast.Kind = InsertQuery
	s.ast.Table = t
	return s
}

// Set inserts a single row. Every required column of the table has to be
// assigned statically.
func (s InsertStatement) Set(assignments ...Expr) InsertStatement {
	if s.fill(clauseSet) {
		s.ast.Set = nonNilExprs(assignments)
	}
	return s
}

// DefaultValues inserts a row of default values.
func (s InsertStatement) DefaultValues() InsertStatement {
	if s.fill(clauseSet) {
		s.ast.DefaultValues = true
	}
	return s
}

// Columns starts a multi-row insert. Rows are added with AddValues.
func (s InsertStatement) Columns(columns ...Expr) InsertStatement {
	if s.fill(clauseSet) {
		s.ast.InsertColumns = cloneExprs(columns)
	}
	return s
}

// AddValues adds a row. The assignments have to match Columns one by one.
func (s InsertStatement) AddValues(assignments ...Expr) InsertStatement {
	rows := make([][]Expr, len(s.ast.Rows), len(s.ast.Rows)+1)
	copy(rows, s.ast.Rows)
	s.ast.Rows = append(rows, cloneExprs(assignments))
	return s
}

// OnConflict starts an ON CONFLICT clause. Finish it with DoNothing or
// DoUpdate on the returned value.
func (s InsertStatement) OnConflict(columns ...Expr) OnConflictClause {
	return OnConflictClause{stmt: s, columns: cloneExprs(columns)}
}

// Returning adds a RETURNING clause.
func (s InsertStatement) Returning(columns ...Expr) InsertStatement {
	if s.fill(clauseReturning) {
		s.ast.Returning = expandColumns(columns)
	}
	return s
}

// Build returns the AST snapshot of the statement.
func (s InsertStatement) Build() *AST { return s.snapshot() }

// Err returns the first violation of the statement.
func (s InsertStatement) Err() error { return checkAST(s.snapshot(), false, TableSet{}).Err }

// Fields returns the result row of RETURNING, if any.
func (s InsertStatement) Fields() []Field { return fieldsOf(&s.ast) }

// OnConflictClause is an ON CONFLICT clause waiting for its action.
type OnConflictClause struct {
	stmt    InsertStatement
	columns []Expr
}

// DoNothing completes the clause with DO NOTHING.
func (c OnConflictClause) DoNothing() InsertStatement {
	return c.finish(&OnConflict{Columns: c.columns, DoNothing: true})
}

// DoUpdate completes the clause with DO UPDATE SET assignments. A WHERE
// condition can follow.
func (c OnConflictClause) DoUpdate(assignments ...Expr) OnConflictUpdate {
	return OnConflictUpdate{stmt: c.finish(&OnConflict{Columns: c.columns, Update: nonNilExprs(assignments)})}
}

func (c OnConflictClause) finish(oc *OnConflict) InsertStatement {
	s := c.stmt
	if s.fill(clauseOnConflict) {
		s.ast.OnConflict = oc
	}
	return s
}

// Statement returns the insert with an action-less ON CONFLICT clause,
// which is a violation.
func (c OnConflictClause) Statement() InsertStatement {
	return c.finish(&OnConflict{Columns: c.columns})
}

// OnConflictUpdate is an insert with ON CONFLICT ... DO UPDATE.
type OnConflictUpdate struct {
	stmt InsertStatement
}

// Where restricts the update to rows matching cond.
func (u OnConflictUpdate) Where(cond any) InsertStatement {
	s := u.stmt
	if oc := s.ast.OnConflict; oc != nil {
		cp := *oc
		cp.Where = toExpr(cond)
		s.ast.OnConflict = &cp
	}
	return s
}

// Returning adds a RETURNING clause.
func (u OnConflictUpdate) Returning(columns ...Expr) InsertStatement {
	return u.stmt.Returning(columns...)
}

func (u OnConflictUpdate) Build() *AST     { return u.stmt.Build() }
func (u OnConflictUpdate) Err() error      { return u.stmt.Err() }
func (u OnConflictUpdate) Fields() []Field { return u.stmt.Fields() }

func nonNilExprs(in []Expr) []Expr {
	out := make([]Expr, 0, len(in))
	for _, e := range in {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

var (
	_ Statement = InsertStatement{}
	_ Statement = OnConflictUpdate{}
)
