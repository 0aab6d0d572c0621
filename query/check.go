package query

// checker folds the per-clause checks of one statement. Each check only
// looks at its clause and at what the FROM side provides.
type checker struct {
	// embedded statements may read tables and CTEs of the enclosing
	// statement; those are collected in unresolved instead of reported.
	embedded   bool
	provided   Provided
	ctes       TableSet
	unresolved Scope
}

// checkAST checks a statement. The result carries the first violation and,
// for embedded statements, the tables and CTEs it needs from outside.
func checkAST(a *AST, embedded bool, ctes TableSet) Scope {
	c := &checker{embedded: embedded, ctes: ctes}
	err := c.check(a)
	s := c.unresolved
	s.StaticTables = s.Tables
	s.Err = err
	return s
}

func (c *checker) check(a *AST) error {
	if a.buildErr != nil {
		return a.buildErr
	}
	if a.Kind == UnionQuery {
		return c.checkUnion(a)
	}
	if err := c.checkWith(a.With); err != nil {
		return err
	}
	switch a.Kind {
	case SelectQuery:
		return c.checkSelect(a)
	case InsertQuery:
		return c.checkInsert(a)
	case UpdateQuery:
		return c.checkUpdate(a)
	case DeleteQuery:
		return c.checkDelete(a)
	}
	return nil
}

// tables checks that the tables and CTEs required by s are provided.
func (c *checker) tables(s Scope, unknown, unknownStatic error) error {
	if s.Err != nil {
		return s.Err
	}
	if missing := s.Tables.Minus(c.provided.All); !missing.IsEmpty() {
		if !c.embedded {
			return unknown
		}
		c.unresolved.Tables = c.unresolved.Tables.Union(missing)
	}
	if missing := s.CTEs.Minus(c.ctes); !missing.IsEmpty() {
		if !c.embedded {
			return ErrNoUnknownCTEs
		}
		c.unresolved.CTEs = c.unresolved.CTEs.Union(missing)
	}
	if unknownStatic != nil {
		dynamicOnly := s.StaticTables.Minus(c.provided.Static)
		if dynamicOnly.Intersects(c.provided.All) {
			return unknownStatic
		}
	}
	return nil
}

// =============================================================================
// WITH
// =============================================================================

func (c *checker) checkWith(ctes []CTE) error {
	if len(ctes) == 0 {
		return nil
	}
	var names []string
	for _, cte := range ctes {
		if cte.err != nil {
			return cte.err
		}
		known := c.ctes.Union(NewTableSet(names...))
		if known.Contains(cte.name) {
			return ErrWithNoDuplicates
		}
		if missing := cte.deps.Minus(known); !missing.IsEmpty() {
			if !c.embedded {
				return ErrNoUnknownCTEs
			}
			c.unresolved.CTEs = c.unresolved.CTEs.Union(missing)
		}
		names = append(names, cte.name)
	}
	c.ctes = c.ctes.Union(NewTableSet(names...))
	return nil
}

// =============================================================================
// SELECT
// =============================================================================

func (c *checker) checkSelect(a *AST) error {
	if a.From != nil {
		c.provided = a.From.Provides()
	}
	known := knownFrom(a.GroupBy, false)
	static := knownFrom(a.GroupBy, true)

	if err := c.checkColumns(a, known, static); err != nil {
		return err
	}
	if err := c.checkFrom(a.From); err != nil {
		return err
	}
	if a.Where != nil {
		if err := c.checkWhere(a.Where); err != nil {
			return err
		}
	}
	for _, g := range a.GroupBy {
		s := g.Scope()
		if s.Err != nil {
			return s.Err
		}
		if !g.ValueType().HasValue() {
			return ErrGroupByArgsHaveValues
		}
		if err := c.tables(s, ErrNoUnknownTablesInGroupBy, ErrNoUnknownStaticTablesInGroupBy); err != nil {
			return err
		}
	}
	if a.Having != nil {
		if err := c.checkHaving(a.Having, known, static); err != nil {
			return err
		}
	}
	if err := c.checkOrderBy(a.OrderBy, known, static, len(a.GroupBy) > 0); err != nil {
		return err
	}
	if a.Limit != nil {
		if err := c.checkLimit(a.Limit, ErrLimitIsUnsignedIntegral, ErrNoUnknownTablesInLimit); err != nil {
			return err
		}
	}
	if a.Offset != nil {
		if err := c.checkLimit(a.Offset, ErrOffsetIsUnsignedIntegral, ErrNoUnknownTablesInOffset); err != nil {
			return err
		}
	}
	return nil
}

func isSelectable(e Expr) bool {
	return e.ValueType().HasValue() && NameOf(e) != ""
}

func (c *checker) checkColumns(a *AST, known, static knownAggregates) error {
	if len(a.Columns) == 0 {
		return ErrColumnsSelected
	}
	for _, col := range a.Columns {
		s := col.Scope()
		if s.Err != nil {
			return s.Err
		}
		if !isSelectable(col) {
			return ErrSelectedColumnsAreSelectable
		}
		if err := c.tables(s, ErrNoUnknownTablesInSelectedColumns, ErrNoUnknownStaticTablesInSelectedColumns); err != nil {
			return err
		}
	}
	if len(a.GroupBy) == 0 {
		if !allNonAggregate(a.Columns, nil) && !allAggregate(a.Columns, nil) {
			return ErrSelectColumnsAllAggregates
		}
		return nil
	}
	if !allAggregate(a.Columns, known) {
		return ErrSelectColumnsWithGroupByAreAggregates
	}
	if !allStaticAggregate(a.Columns, static) {
		return ErrSelectColumnsMatchStaticAggregates
	}
	return nil
}

func (c *checker) checkFrom(from FromItem) error {
	if from == nil {
		return nil
	}
	if _, ok := from.(PreJoin); ok {
		return ErrFromNotPreJoin
	}
	s := from.Scope()
	if s.Err != nil {
		return s.Err
	}
	if !isTableLike(from) {
		return ErrFromTable
	}
	if !s.Tables.IsEmpty() {
		return ErrFromDependencyFree
	}
	return c.tables(s, ErrNoUnknownTables, nil)
}

func (c *checker) checkWhere(where Expr) error {
	s := where.Scope()
	if s.Err != nil {
		return s.Err
	}
	if where.ValueType() != Boolean {
		return ErrWhereArgIsBooleanExpression
	}
	if s.Aggregate {
		return ErrWhereArgContainsNoAggregateFunctions
	}
	return c.tables(s, ErrNoUnknownTablesInWhere, ErrNoUnknownStaticTablesInWhere)
}

func (c *checker) checkHaving(having Expr, known, static knownAggregates) error {
	s := having.Scope()
	if s.Err != nil {
		return s.Err
	}
	if having.ValueType() != Boolean {
		return ErrHavingBooleanExpression
	}
	if err := c.tables(s, ErrNoUnknownTablesInHaving, ErrNoUnknownStaticTablesInHaving); err != nil {
		return err
	}
	if !isAggregate(having, known) {
		return ErrHavingAllAggregates
	}
	if !isStaticAggregate(having, static) {
		return ErrHavingAllStaticAggregates
	}
	return nil
}

func (c *checker) checkOrderBy(items []Expr, known, static knownAggregates, grouped bool) error {
	for _, item := range items {
		inner := item
		if d, ok := inner.(DynamicExpr); ok {
			inner = d.Expr
		}
		if _, ok := inner.(SortExpr); !ok {
			return ErrOrderByArgsAreSortOrderExpressions
		}
		s := item.Scope()
		if s.Err != nil {
			return s.Err
		}
		if err := c.tables(s, ErrNoUnknownTablesInOrderBy, ErrNoUnknownStaticTablesInOrderBy); err != nil {
			return err
		}
		if grouped {
			if !isAggregate(item, known) {
				return ErrCorrectOrderByAggregatesWithGroupBy
			}
			if !isStaticAggregate(item, static) {
				return ErrCorrectStaticOrderByAggregatesWithGroupBy
			}
		} else if !isNonAggregate(item, nil) {
			return ErrCorrectOrderByAggregates
		}
	}
	return nil
}

func (c *checker) checkLimit(e Expr, notIntegral, unknown error) error {
	s := e.Scope()
	if s.Err != nil {
		return s.Err
	}
	if !e.ValueType().IsIntegral() {
		return notIntegral
	}
	if l, ok := e.(LiteralExpr); ok {
		if n, ok := l.Value.(int64); ok && n < 0 {
			return notIntegral
		}
	}
	return c.tables(s, unknown, nil)
}

// =============================================================================
// UNION
// =============================================================================

func (c *checker) checkUnion(a *AST) error {
	u := a.Union
	if err := c.check(u.Left); err != nil {
		return err
	}
	right := &checker{embedded: c.embedded, ctes: c.ctes}
	for _, cte := range u.Left.With {
		right.ctes = right.ctes.Union(NewTableSet(cte.name))
	}
	err := right.check(u.Right)
	c.unresolved = mergeScopes(c.unresolved, right.unresolved)
	if err != nil {
		return err
	}
	if !fieldsMatch(fieldsOf(u.Left), fieldsOf(u.Right)) {
		return ErrUnionResultRowsMatch
	}
	return nil
}

// =============================================================================
// INSERT, UPDATE and DELETE
// =============================================================================

func (c *checker) checkTarget(a *AST) error {
	if a.Table.name == "" {
		return ErrSingleTableProvided
	}
	if err := a.Table.Scope().Err; err != nil {
		return err
	}
	c.provided = a.Table.Provides()
	return nil
}

// assignments holds the checks that differ between SET lists.
type assignments struct {
	notAssignment, empty, duplicate, singleTable, unknown error
}

var (
	insertSet = assignments{
		ErrInsertSetAssignments, ErrInsertStaticSetCountArgs, ErrInsertSetNoDuplicates,
		ErrInsertSetSingleTable, ErrNoUnknownTablesInInsertAssignments,
	}
	updateSet = assignments{
		ErrUpdateSetAssignments, ErrUpdateSetCountArgs, ErrUpdateSetNoDuplicates,
		ErrUpdateSetSingleTable, ErrNoUnknownTablesInUpdateAssignments,
	}
	conflictSet = assignments{
		ErrOnConflictDoUpdateSetAssignments, ErrOnConflictDoUpdateSetCountArgs, ErrOnConflictDoUpdateSetNoDuplicates,
		ErrOnConflictDoUpdateSetSingleTable, ErrNoUnknownTablesInUpdateAssignments,
	}
)

// assignmentOf unwraps a possibly dynamic assignment.
func assignmentOf(e Expr) (Assignment, bool, bool) {
	dynamic := false
	if d, ok := e.(DynamicExpr); ok {
		e, dynamic = d.Expr, true
	}
	a, ok := e.(Assignment)
	return a, dynamic, ok
}

// checkAssignments checks a SET list and returns the statically assigned
// columns.
func (c *checker) checkAssignments(set []Expr, target Table, rules assignments) ([]Column, error) {
	if len(set) == 0 {
		return nil, rules.empty
	}
	var static, seen []Column
	for _, e := range set {
		a, dynamic, ok := assignmentOf(e)
		if !ok {
			return nil, rules.notAssignment
		}
		s := e.Scope()
		if s.Err != nil {
			return nil, s.Err
		}
		if a.Column.Table != target.Name() {
			return nil, rules.singleTable
		}
		for _, col := range seen {
			if col.same(a.Column) {
				return nil, rules.duplicate
			}
		}
		seen = append(seen, a.Column)
		if !dynamic {
			static = append(static, a.Column)
		}
		var unknownStatic error
		if rules.unknown == ErrNoUnknownTablesInUpdateAssignments {
			unknownStatic = ErrNoUnknownStaticTablesInUpdateAssignment
		}
		if err := c.tables(s, rules.unknown, unknownStatic); err != nil {
			return nil, err
		}
	}
	return static, nil
}

func missingRequired(t Table, assigned []Column) bool {
	for _, req := range t.Required() {
		found := false
		for _, col := range assigned {
			if col.same(req) {
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}
	return false
}

func (c *checker) checkInsert(a *AST) error {
	if err := c.checkTarget(a); err != nil {
		return err
	}
	switch {
	case a.DefaultValues:
		if len(a.Table.Required()) > 0 {
			return ErrAllColumnsHaveDefaultValue
		}
	case a.Set != nil:
		static, err := c.checkAssignments(a.Set, a.Table, insertSet)
		if err != nil {
			return err
		}
		if missingRequired(a.Table, static) {
			return ErrAllRequiredAssignments
		}
	case a.InsertColumns != nil:
		if err := c.checkInsertColumns(a); err != nil {
			return err
		}
	default:
		return ErrInsertValues
	}
	if a.OnConflict != nil {
		if err := c.checkOnConflict(a.OnConflict, a.Table); err != nil {
			return err
		}
	}
	return c.checkReturning(a.Returning)
}

func (c *checker) checkInsertColumns(a *AST) error {
	if len(a.InsertColumns) == 0 || len(a.Rows) == 0 {
		return ErrInsertValues
	}
	columns := make([]Column, len(a.InsertColumns))
	var static []Column
	for i, e := range a.InsertColumns {
		inner := e
		d, dynamic := e.(DynamicExpr)
		if dynamic {
			inner = d.Expr
		}
		col, ok := inner.(Column)
		if !ok {
			return ErrInsertColumnsAreColumns
		}
		if err := col.Scope().Err; err != nil {
			return err
		}
		if col.Table != a.Table.Name() {
			return ErrInsertColumnsSingleTable
		}
		for _, prev := range columns[:i] {
			if prev.same(col) {
				return ErrInsertColumnsNoDuplicates
			}
		}
		columns[i] = col
		if !dynamic {
			static = append(static, col)
		}
	}
	if missingRequired(a.Table, static) {
		return ErrAllRequiredColumns
	}
	for _, row := range a.Rows {
		if len(row) != len(columns) {
			return ErrInsertValuesMatchColumns
		}
		for i, e := range row {
			as, _, ok := assignmentOf(e)
			if !ok || !as.Column.same(columns[i]) {
				return ErrInsertValuesMatchColumns
			}
			if err := c.tables(e.Scope(), ErrNoUnknownTablesInInsertAssignments, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) checkOnConflict(oc *OnConflict, target Table) error {
	for _, e := range oc.Columns {
		col, ok := e.(Column)
		if !ok || col.Table != target.Name() || col.err != nil {
			return ErrOnConflictColumnsAreColumns
		}
	}
	if oc.DoNothing {
		return nil
	}
	if oc.Update == nil {
		return ErrOnConflictAction
	}
	if _, err := c.checkAssignments(oc.Update, target, conflictSet); err != nil {
		return err
	}
	if oc.Where != nil {
		s := oc.Where.Scope()
		if s.Err != nil {
			return s.Err
		}
		if oc.Where.ValueType() != Boolean {
			return ErrOnConflictWhereIsBooleanExpression
		}
		if err := c.tables(s, ErrNoUnknownTablesInWhere, nil); err != nil {
			return err
		}
	}
	return nil
}

func (c *checker) checkReturning(columns []Expr) error {
	for _, col := range columns {
		s := col.Scope()
		if s.Err != nil {
			return s.Err
		}
		if !isSelectable(col) {
			return ErrReturningColumnsAreSelectable
		}
		if err := c.tables(s, ErrNoUnknownTablesInReturning, nil); err != nil {
			return err
		}
		if s.Aggregate {
			return ErrReturningNoAggregates
		}
	}
	return nil
}

func (c *checker) checkUpdate(a *AST) error {
	if err := c.checkTarget(a); err != nil {
		return err
	}
	if a.Set == nil {
		return ErrUpdateAssignments
	}
	if _, err := c.checkAssignments(a.Set, a.Table, updateSet); err != nil {
		return err
	}
	if err := c.checkWhereRequired(a); err != nil {
		return err
	}
	return c.checkReturning(a.Returning)
}

func (c *checker) checkDelete(a *AST) error {
	if err := c.checkTarget(a); err != nil {
		return err
	}
	if a.Using != nil {
		if !isTableLike(a.Using) {
			return ErrUsingArgsAreTables
		}
		s := a.Using.Scope()
		if s.Err != nil {
			return s.Err
		}
		using := a.Using.Provides()
		if using.All.Intersects(c.provided.All) {
			return ErrFromNoDuplicates
		}
		if err := c.tables(s, ErrNoUnknownTables, nil); err != nil {
			return err
		}
		c.provided = c.provided.union(using)
	}
	if err := c.checkWhereRequired(a); err != nil {
		return err
	}
	return c.checkReturning(a.Returning)
}

func (c *checker) checkWhereRequired(a *AST) error {
	if a.Where == nil {
		if !a.Unconditional {
			return ErrWhereOrUnconditionallyCalled
		}
		return nil
	}
	return c.checkWhere(a.Where)
}
