package query

// ExprVisitor is called for each expression during a walk.
// Return false to stop walking the current branch.
type ExprVisitor func(expr Expr) bool

// Children returns the direct operands of an expression. Sub-selects are
// not entered; see WalkExpr.
func Children(expr Expr) []Expr {
	switch e := expr.(type) {
	case UnaryExpr:
		return []Expr{e.Expr}
	case BinaryExpr:
		return []Expr{e.Left, e.Right}
	case LogicalExpr:
		return e.Terms
	case FuncExpr:
		return e.Args
	case AggregateExpr:
		if e.Arg != nil {
			return []Expr{e.Arg}
		}
	case WindowExpr:
		return Children(e.Aggregate)
	case CaseExpr:
		out := make([]Expr, 0, 2*len(e.Branches)+1)
		for _, b := range e.Branches {
			out = append(out, b.When, b.Then)
		}
		if e.ElseExpr != nil {
			out = append(out, e.ElseExpr)
		}
		return out
	case InExpr:
		return append([]Expr{e.Operand}, e.Values...)
	case BetweenExpr:
		return []Expr{e.Operand, e.Low, e.High}
	case AliasExpr:
		return []Expr{e.Expr}
	case DynamicExpr:
		return []Expr{e.Expr}
	case GroupByColumnExpr:
		return []Expr{e.Expr}
	case SortExpr:
		return []Expr{e.Expr}
	case Assignment:
		return []Expr{e.Column, e.Value}
	case ColumnList:
		return e.Columns
	}

	// These expression types have no child expressions:
	// - Column
	// - ParamExpr
	// - LiteralExpr
	// - VerbatimExpr
	// - DefaultValue
	// - SubqueryExpr, ExistsExpr, QuantifiedExpr (see subqueryOf)
	return nil
}

func subqueryOf(expr Expr) Query {
	switch e := expr.(type) {
	case SubqueryExpr:
		return e.Query
	case ExistsExpr:
		return e.Query
	case QuantifiedExpr:
		return e.Query
	case InExpr:
		return e.Query
	}
	return nil
}

// WalkExpr traverses an expression tree in depth-first order, calling the visitor
// for each expression. If the visitor returns false, children of that expression
// are not visited. Sub-selects are walked as well.
func WalkExpr(expr Expr, visit ExprVisitor) {
	if expr == nil {
		return
	}

	if !visit(expr) {
		return
	}

	for _, child := range Children(expr) {
		WalkExpr(child, visit)
	}
	if q := subqueryOf(expr); q != nil {
		WalkAST(q.Build(), visit)
	}
}

// WalkAST traverses all expressions in an AST in depth-first order.
// The visitor is called for each expression found.
func WalkAST(ast *AST, visit ExprVisitor) {
	if ast == nil {
		return
	}

	for _, cte := range ast.With {
		WalkAST(cte.query, visit)
	}

	walkAll(ast.Columns, visit)
	walkFrom(ast.From, visit)
	WalkExpr(ast.Where, visit)
	walkAll(ast.GroupBy, visit)
	WalkExpr(ast.Having, visit)
	walkAll(ast.OrderBy, visit)
	WalkExpr(ast.Limit, visit)
	WalkExpr(ast.Offset, visit)

	walkFrom(ast.Using, visit)
	walkAll(ast.Set, visit)
	walkAll(ast.InsertColumns, visit)
	for _, row := range ast.Rows {
		walkAll(row, visit)
	}
	if oc := ast.OnConflict; oc != nil {
		walkAll(oc.Columns, visit)
		walkAll(oc.Update, visit)
		WalkExpr(oc.Where, visit)
	}
	walkAll(ast.Returning, visit)

	if ast.Union != nil {
		WalkAST(ast.Union.Left, visit)
		WalkAST(ast.Union.Right, visit)
	}
}

func walkAll(exprs []Expr, visit ExprVisitor) {
	for _, e := range exprs {
		WalkExpr(e, visit)
	}
}

func walkFrom(item FromItem, visit ExprVisitor) {
	switch f := item.(type) {
	case Join:
		walkFrom(f.Lhs, visit)
		walkFrom(f.Rhs, visit)
		WalkExpr(f.On, visit)
	case DynamicFromItem:
		walkFrom(f.Item, visit)
	case SelectTable:
		WalkAST(f.Query, visit)
	}
}

// CollectParams extracts all unique parameters from an AST, in order of
// first occurrence.
func CollectParams(ast *AST) []ParamExpr {
	var params []ParamExpr
	seen := make(map[string]bool)

	WalkAST(ast, func(expr Expr) bool {
		if p, ok := expr.(ParamExpr); ok && !seen[p.Name] {
			params = append(params, p)
			seen[p.Name] = true
		}
		return true
	})

	return params
}

// HasSubqueries returns true if the AST contains any subquery expressions.
func HasSubqueries(ast *AST) bool {
	found := false
	WalkAST(ast, func(expr Expr) bool {
		if subqueryOf(expr) != nil {
			found = true
			return false
		}
		return !found
	})
	return found
}
