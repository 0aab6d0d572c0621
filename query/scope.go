package query

// Scope is the scope contract of a node, computed bottom-up when the node
// is constructed.
type Scope struct {
	// Tables are the tables the node references.
	Tables TableSet
	// StaticTables are the tables referenced outside of dynamic fragments.
	StaticTables TableSet
	// CTEs are the common table expressions the node reads from.
	CTEs TableSet
	// Aggregate is set if the node contains an aggregate or window function.
	Aggregate bool
	// Err is the first violation detected while building the node.
	Err error
}

func mergeScopes(parts ...Scope) Scope {
	var s Scope
	for _, p := range parts {
		s.Tables = s.Tables.Union(p.Tables)
		s.StaticTables = s.StaticTables.Union(p.StaticTables)
		s.CTEs = s.CTEs.Union(p.CTEs)
		s.Aggregate = s.Aggregate || p.Aggregate
		if s.Err == nil {
			s.Err = p.Err
		}
	}
	return s
}

func scopeOf(exprs ...Expr) Scope {
	parts := make([]Scope, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			parts = append(parts, e.Scope())
		}
	}
	return mergeScopes(parts...)
}

// withErr records err unless the scope already carries an earlier violation.
func (s Scope) withErr(err error) Scope {
	if s.Err == nil {
		s.Err = err
	}
	return s
}

// requireTable returns the scope of a node that reads from table name.
func requireTable(name string) Scope {
	t := NewTableSet(name)
	return Scope{Tables: t, StaticTables: t}
}

// Provided is what a FROM item makes available to the other clauses.
type Provided struct {
	// All tables, including dynamically joined ones.
	All TableSet
	// Static tables are provided regardless of runtime flags.
	Static TableSet
	// Optional tables are on the outer side of a join; their columns may be NULL.
	Optional TableSet
}

func (p Provided) union(o Provided) Provided {
	return Provided{
		All:      p.All.Union(o.All),
		Static:   p.Static.Union(o.Static),
		Optional: p.Optional.Union(o.Optional),
	}
}

// optional marks every table in p as optionally provided.
func (p Provided) optional() Provided {
	p.Optional = p.Optional.Union(p.All)
	return p
}
