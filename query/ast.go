package query

// QueryKind identifies the type of query.
type QueryKind string

const (
	SelectQuery QueryKind = "select"
	InsertQuery QueryKind = "insert"
	UpdateQuery QueryKind = "update"
	DeleteQuery QueryKind = "delete"
	UnionQuery  QueryKind = "union"
)

// SelectFlag is a flag written right after SELECT.
type SelectFlag string

const (
	FlagAll      SelectFlag = "ALL"
	FlagDistinct SelectFlag = "DISTINCT"
)

// AST is the snapshot of a statement handed to the serializer. Slots are
// kept in grammatical order; nil and empty slots are not written.
type AST struct {
	Kind QueryKind
	With []CTE

	// SELECT
	Flags         []SelectFlag
	Columns       []Expr
	From          FromItem
	Where         Expr
	Unconditional bool
	GroupBy       []Expr
	Having        Expr
	OrderBy       []Expr
	Limit         Expr
	Offset        Expr
	ForUpdate     bool

	// INSERT, UPDATE and DELETE
	Table         Table
	Using         FromItem
	DefaultValues bool
	Set           []Expr
	InsertColumns []Expr
	Rows          [][]Expr
	OnConflict    *OnConflict
	Returning     []Expr

	// UNION
	Union *UnionClause

	buildErr error
}

// UnionClause combines two queries. Right is dropped when inactive.
type UnionClause struct {
	Left        *AST
	Right       *AST
	All         bool
	RightActive bool
}

// OnConflict is the ON CONFLICT clause of an insert.
type OnConflict struct {
	Columns   []Expr
	DoNothing bool
	Update    []Expr
	Where     Expr
}

// Field is one column of a statement's result row.
type Field struct {
	Name string
	Type ValueType
	// CanBeNull is set if the column may be NULL, including columns of
	// outer-joined tables.
	CanBeNull bool
	// NullIsTrivial is set if NULL can be read as the zero value.
	NullIsTrivial bool
}

// Query is a statement usable inside another one: as a sub-select, a union
// operand or the definition of a CTE.
type Query interface {
	// Build returns the AST snapshot of the statement.
	Build() *AST
	// Err returns the first violation of the statement, checked on its own.
	Err() error
	// Fields returns the result row of the statement.
	Fields() []Field

	// unresolved is the scope of the statement when embedded: the tables
	// and CTEs it reads without providing them, and its first violation.
	unresolved() Scope
}

// Statement is any statement that can be compiled.
type Statement interface {
	Build() *AST
	Err() error
}

// clauses tracks which slots of a statement have been filled.
type clauses uint32

const (
	clauseColumns clauses = 1 << iota
	clauseFlags
	clauseFrom
	clauseWhere
	clauseGroupBy
	clauseHaving
	clauseOrderBy
	clauseLimit
	clauseOffset
	clauseForUpdate
	clauseSet
	clauseOnConflict
	clauseReturning
	clauseUsing
)

// fill marks c as set, or reports that it already was.
func (s *clauses) fill(c clauses) error {
	if *s&c != 0 {
		return ErrClauseSetOnce
	}
	*s |= c
	return nil
}

// statement holds what every statement value shares.
type statement struct {
	ast AST
	set clauses
	err error // builder violations, e.g. a slot filled twice
}

func (s *statement) fill(c clauses) bool {
	if err := s.set.fill(c); err != nil {
		if s.err == nil {
			s.err = err
		}
		return false
	}
	return true
}

func (s statement) snapshot() *AST {
	a := s.ast
	a.buildErr = s.err
	return &a
}

func cloneExprs(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	copy(out, in)
	return out
}

func toExprs(in []any) []Expr {
	out := make([]Expr, len(in))
	for i, v := range in {
		out[i] = toExpr(v)
	}
	return out
}
