package query

// =============================================================================
// Set Operations (UNION)
// =============================================================================

// UnionStatement is left UNION [ALL|DISTINCT] right. Both sides must have
// the same result columns by name and value type.
type UnionStatement struct {
	left  Query
	right Query
	all   bool
}

// UnionAll creates left UNION ALL right.
func UnionAll(left, right Query) UnionStatement {
	return UnionStatement{left: left, right: right, all: true}
}

// UnionDistinct creates left UNION DISTINCT right.
func UnionDistinct(left, right Query) UnionStatement {
	return UnionStatement{left: left, right: right}
}

// UnionAll chains another UNION ALL.
func (u UnionStatement) UnionAll(q Query) UnionStatement { return UnionAll(u, q) }

// UnionDistinct chains another UNION DISTINCT.
func (u UnionStatement) UnionDistinct(q Query) UnionStatement { return UnionDistinct(u, q) }

// As makes the union usable as a table named alias.
func (u UnionStatement) As(alias string) SelectTable { return newSelectTable(u, alias) }

// Build returns the AST snapshot of the statement.
func (u UnionStatement) Build() *AST {
	clause := &UnionClause{Left: u.left.Build(), All: u.all, RightActive: true}
	right := u.right
	if d, ok := right.(DynamicQueryRef); ok {
		clause.RightActive = d.Active
		right = d.Query
	}
	clause.Right = right.Build()
	return &AST{Kind: UnionQuery, Union: clause}
}

// Err returns the first violation of the statement.
func (u UnionStatement) Err() error { return checkAST(u.Build(), false, TableSet{}).Err }

// Fields returns the result row: the left side's, nullable where either
// side is.
func (u UnionStatement) Fields() []Field { return fieldsOf(u.Build()) }

func (u UnionStatement) unresolved() Scope { return checkAST(u.Build(), true, TableSet{}) }

// DynamicQueryRef is the right side of a union that is only part of the
// statement if Active is set.
type DynamicQueryRef struct {
	Active bool
	Query  Query
}

// DynamicQuery wraps q so a union can drop it at runtime.
func DynamicQuery(active bool, q Query) DynamicQueryRef {
	return DynamicQueryRef{Active: active, Query: q}
}

func (d DynamicQueryRef) Build() *AST       { return d.Query.Build() }
func (d DynamicQueryRef) Err() error        { return d.Query.Err() }
func (d DynamicQueryRef) Fields() []Field   { return d.Query.Fields() }
func (d DynamicQueryRef) unresolved() Scope { return d.Query.unresolved() }

func fieldsMatch(a, b []Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].Type != b[i].Type {
			return false
		}
	}
	return true
}

func unionFields(left, right []Field) []Field {
	out := make([]Field, len(left))
	copy(out, left)
	for i := range out {
		if i < len(right) && right[i].CanBeNull {
			out[i].CanBeNull = true
			out[i].NullIsTrivial = out[i].NullIsTrivial && right[i].NullIsTrivial
		}
	}
	return out
}

var (
	_ Query = UnionStatement{}
	_ Query = DynamicQueryRef{}
)
