package query

// Aggregate classification relative to a set of known aggregates, usually
// the GROUP BY expressions. Both predicates can hold for the same expression:
// literals, parameters and sub-selects fit everywhere.

// knownAggregates holds the GROUP BY columns of a statement.
type knownAggregates []Column

func knownFrom(groupBy []Expr, staticOnly bool) knownAggregates {
	var known knownAggregates
	for _, e := range groupBy {
		if d, ok := e.(DynamicExpr); ok {
			if staticOnly {
				continue
			}
			e = d.Expr
		}
		if c, ok := e.(Column); ok {
			known = append(known, c)
		}
	}
	return known
}

func (k knownAggregates) contains(c Column) bool {
	for _, known := range k {
		if known.same(c) {
			return true
		}
	}
	return false
}

// isAggregate reports whether e can be evaluated per group.
func isAggregate(e Expr, known knownAggregates) bool { return aggregateIn(e, known, false) }

// isStaticAggregate is isAggregate for the static part of e. Dynamic
// subexpressions are left to the check against every GROUP BY column.
func isStaticAggregate(e Expr, static knownAggregates) bool { return aggregateIn(e, static, true) }

func aggregateIn(e Expr, known knownAggregates, skipDynamic bool) bool {
	if _, ok := e.(DynamicExpr); ok && skipDynamic {
		return true
	}
	switch v := e.(type) {
	case AggregateExpr, WindowExpr, GroupByColumnExpr:
		return true
	case LiteralExpr, ParamExpr, VerbatimExpr, SubqueryExpr, ExistsExpr, QuantifiedExpr, DefaultValue:
		return true
	case Column:
		return known.contains(v)
	}
	children := Children(e)
	if len(children) == 0 {
		return false
	}
	for _, c := range children {
		if !aggregateIn(c, known, skipDynamic) {
			return false
		}
	}
	return true
}

// isNonAggregate reports whether e can be evaluated per row.
func isNonAggregate(e Expr, known knownAggregates) bool {
	switch v := e.(type) {
	case AggregateExpr, GroupByColumnExpr:
		return false
	case WindowExpr:
		return true
	case LiteralExpr, ParamExpr, VerbatimExpr, SubqueryExpr, ExistsExpr, QuantifiedExpr, DefaultValue:
		return true
	case Column:
		return !known.contains(v)
	}
	for _, c := range Children(e) {
		if !isNonAggregate(c, known) {
			return false
		}
	}
	return true
}

func allAggregate(exprs []Expr, known knownAggregates) bool {
	for _, e := range exprs {
		if !isAggregate(e, known) {
			return false
		}
	}
	return true
}

func allStaticAggregate(exprs []Expr, static knownAggregates) bool {
	for _, e := range exprs {
		if !isStaticAggregate(e, static) {
			return false
		}
	}
	return true
}

func allNonAggregate(exprs []Expr, known knownAggregates) bool {
	for _, e := range exprs {
		if !isNonAggregate(e, known) {
			return false
		}
	}
	return true
}
