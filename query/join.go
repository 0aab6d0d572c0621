package query

// FromItem is anything that can appear in FROM: tables, joins, CTE
// references, aliased sub-selects and verbatim tables.
type FromItem interface {
	// Provides lists the tables the item makes available.
	Provides() Provided
	// Scope lists what the item itself requires from elsewhere.
	Scope() Scope
	fromItem()
}

// JoinType represents the type of join.
type JoinType string

const (
	InnerJoin JoinType = "INNER"
	LeftJoin  JoinType = "LEFT OUTER"
	RightJoin JoinType = "RIGHT OUTER"
	FullJoin  JoinType = "FULL OUTER"
	CrossJoin JoinType = "CROSS"
)

// PreJoin is a join still waiting for its condition. It cannot be used in
// FROM until On or Unconditionally is called.
type PreJoin struct {
	Type JoinType
	Lhs  FromItem
	Rhs  FromItem
	err  error
}

func (p PreJoin) Provides() Provided { return joinProvides(p.Type, p.Lhs, p.Rhs) }
func (p PreJoin) Scope() Scope       { return mergeScopes(p.Lhs.Scope(), p.Rhs.Scope()).withErr(p.err) }
func (p PreJoin) fromItem()          {}

// On completes the join with a condition. The condition has to be boolean
// and may only use tables of the join itself.
func (p PreJoin) On(cond Expr) Join {
	j := Join{Type: p.Type, Lhs: p.Lhs, Rhs: p.Rhs, On: cond, err: p.err}
	if j.err == nil {
		s := cond.Scope()
		switch {
		case s.Err != nil:
			j.err = s.Err
		case cond.ValueType() != Boolean:
			j.err = ErrJoinOnBooleanExpression
		case !s.Tables.SubsetOf(p.Provides().All):
			j.err = ErrJoinOnNoForeignTableDependencies
		}
	}
	return j
}

// Unconditionally completes the join without a condition.
func (p PreJoin) Unconditionally() Join {
	return Join{Type: p.Type, Lhs: p.Lhs, Rhs: p.Rhs, err: p.err}
}

// Join is a complete join of two FROM items.
type Join struct {
	Type JoinType
	Lhs  FromItem
	Rhs  FromItem
	On   Expr // nil for cross joins and unconditional joins
	err  error
}

func (j Join) Provides() Provided { return joinProvides(j.Type, j.Lhs, j.Rhs) }
func (j Join) Scope() Scope       { return mergeScopes(j.Lhs.Scope(), j.Rhs.Scope()).withErr(j.err) }
func (j Join) fromItem()          {}

func (j Join) Join(rhs FromItem) PreJoin           { return newPreJoin(InnerJoin, j, rhs) }
func (j Join) InnerJoin(rhs FromItem) PreJoin      { return newPreJoin(InnerJoin, j, rhs) }
func (j Join) LeftOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(LeftJoin, j, rhs) }
func (j Join) RightOuterJoin(rhs FromItem) PreJoin { return newPreJoin(RightJoin, j, rhs) }
func (j Join) FullOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(FullJoin, j, rhs) }
func (j Join) CrossJoin(rhs FromItem) Join         { return newPreJoin(CrossJoin, j, rhs).Unconditionally() }

func (t Table) Join(rhs FromItem) PreJoin           { return newPreJoin(InnerJoin, t, rhs) }
func (t Table) InnerJoin(rhs FromItem) PreJoin      { return newPreJoin(InnerJoin, t, rhs) }
func (t Table) LeftOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(LeftJoin, t, rhs) }
func (t Table) RightOuterJoin(rhs FromItem) PreJoin { return newPreJoin(RightJoin, t, rhs) }
func (t Table) FullOuterJoin(rhs FromItem) PreJoin  { return newPreJoin(FullJoin, t, rhs) }
func (t Table) CrossJoin(rhs FromItem) Join         { return newPreJoin(CrossJoin, t, rhs).Unconditionally() }

// JoinItems joins any two FROM items. The methods on tables, joins, CTEs
// and sub-selects are shorthands for it.
func JoinItems(typ JoinType, lhs, rhs FromItem) PreJoin { return newPreJoin(typ, lhs, rhs) }

func newPreJoin(typ JoinType, lhs, rhs FromItem) PreJoin {
	p := PreJoin{Type: typ, Lhs: lhs, Rhs: rhs}
	rhsItem := rhs
	if d, ok := rhs.(DynamicFromItem); ok {
		rhsItem = d.Item
	}
	switch rhsItem.(type) {
	case Join, PreJoin:
		p.err = ErrPreJoinRhsNoJoin
		return p
	case DynamicFromItem:
		p.err = ErrPreJoinRhsTable
		return p
	}
	switch lhs.(type) {
	case PreJoin, DynamicFromItem:
		p.err = ErrPreJoinLhsTable
		return p
	}
	if s := mergeScopes(lhs.Scope(), rhs.Scope()); s.Err != nil {
		p.err = s.Err
		return p
	} else if !rhs.Scope().Tables.IsEmpty() {
		p.err = ErrJoinNoTableDependencies
		return p
	}
	if lhs.Provides().All.Intersects(rhs.Provides().All) {
		p.err = ErrPreJoinUniqueNames
	}
	return p
}

func joinProvides(typ JoinType, lhs, rhs FromItem) Provided {
	l, r := lhs.Provides(), rhs.Provides()
	switch typ {
	case LeftJoin:
		r = r.optional()
	case RightJoin:
		l = l.optional()
	case FullJoin:
		l, r = l.optional(), r.optional()
	}
	return l.union(r)
}

// DynamicFromItem is the right side of a join that is only part of the
// statement if Active is set. Its tables are not statically provided.
type DynamicFromItem struct {
	Active bool
	Item   FromItem
}

func (d DynamicFromItem) Provides() Provided {
	p := d.Item.Provides()
	p.Static = TableSet{}
	return p
}

func (d DynamicFromItem) Scope() Scope { return d.Item.Scope() }
func (d DynamicFromItem) fromItem()    {}

// DynamicTable wraps the right side of a join so the join can be switched
// off at runtime.
func DynamicTable(active bool, item FromItem) DynamicFromItem {
	return DynamicFromItem{Active: active, Item: item}
}

// VerbatimTable is table SQL copied into the statement as is. It provides
// no tables to scope checks.
type VerbatimTable struct {
	SQL   string
	alias string
}

// NewVerbatimTable creates a verbatim table.
func NewVerbatimTable(sql string) VerbatimTable { return VerbatimTable{SQL: sql} }

// As returns the verbatim table with an alias.
func (v VerbatimTable) As(alias string) VerbatimTable {
	v.alias = alias
	return v
}

// Alias returns the alias, or an empty string.
func (v VerbatimTable) Alias() string { return v.alias }

func (v VerbatimTable) Provides() Provided { return Provided{} }
func (v VerbatimTable) Scope() Scope       { return Scope{} }
func (v VerbatimTable) fromItem()          {}

func (v VerbatimTable) Join(rhs FromItem) PreJoin          { return newPreJoin(InnerJoin, v, rhs) }
func (v VerbatimTable) LeftOuterJoin(rhs FromItem) PreJoin { return newPreJoin(LeftJoin, v, rhs) }
func (v VerbatimTable) CrossJoin(rhs FromItem) Join {
	return newPreJoin(CrossJoin, v, rhs).Unconditionally()
}

// isTableLike reports whether item can be used on its own in FROM or USING.
func isTableLike(item FromItem) bool {
	switch item.(type) {
	case Table, Join, CTE, SelectTable, VerbatimTable:
		return true
	}
	return false
}

var (
	_ FromItem = Table{}
	_ FromItem = PreJoin{}
	_ FromItem = Join{}
	_ FromItem = DynamicFromItem{}
	_ FromItem = VerbatimTable{}
)
