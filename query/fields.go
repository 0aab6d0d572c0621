package query

// fieldsOf returns the result row of a statement: the select list, the
// RETURNING list, or the left side of a union.
func fieldsOf(a *AST) []Field {
	switch a.Kind {
	case UnionQuery:
		return unionFields(fieldsOf(a.Union.Left), fieldsOf(a.Union.Right))
	case SelectQuery:
		var optional TableSet
		if a.From != nil {
			optional = a.From.Provides().Optional
		}
		return fieldsFor(a.Columns, optional)
	}
	return fieldsFor(a.Returning, TableSet{})
}

func fieldsFor(columns []Expr, optional TableSet) []Field {
	if len(columns) == 0 {
		return nil
	}
	fields := make([]Field, len(columns))
	for i, col := range columns {
		f := Field{Name: NameOf(col), Type: col.ValueType(), CanBeNull: col.CanBeNull()}
		if c, ok := unwrapColumn(col); ok {
			f.NullIsTrivial = c.Spec.NullIsTrivial
		}
		if !f.CanBeNull && !neverNull(col) && col.Scope().Tables.Intersects(optional) {
			f.CanBeNull = true
		}
		fields[i] = f
	}
	return fields
}

func unwrapColumn(e Expr) (Column, bool) {
	for {
		switch v := e.(type) {
		case Column:
			return v, true
		case AliasExpr:
			e = v.Expr
		case DynamicExpr:
			e = v.Expr
		case GroupByColumnExpr:
			e = v.Expr
		default:
			return Column{}, false
		}
	}
}

// neverNull reports whether e stays non-null even if every table it reads
// is outer-joined.
func neverNull(e Expr) bool {
	switch v := e.(type) {
	case AliasExpr:
		return neverNull(v.Expr)
	case AggregateExpr:
		return v.Func == AggCount
	case WindowExpr:
		return v.Aggregate.Func == AggCount
	case UnaryExpr:
		return v.Op.IsPostfix()
	case BinaryExpr:
		return opClasses[v.Op] == distinction
	case ExistsExpr:
		return true
	}
	return false
}
