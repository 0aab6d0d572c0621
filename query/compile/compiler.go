package compile

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shipq/typedsql/query"
)

// ErrNoAssignments is returned for an update whose SET items are all
// inactive.
var ErrNoAssignments = errors.New("update has no active assignment")

// Override replaces the serialization of one node type. Calling next
// writes the node the default way.
type Override func(w *Writer, node any, next func() error) error

// Context is a dialect plus the per-node overrides registered on it.
// Register all overrides before the context is shared between goroutines.
type Context struct {
	Dialect   Dialect
	overrides map[reflect.Type]Override
}

// registrar is implemented by dialects with special cases.
type registrar interface {
	register(ctx *Context)
}

// NewContext creates a context for d with the dialect's own overrides.
// A nil dialect means Standard.
func NewContext(d Dialect) *Context {
	if d == nil {
		d = Standard
	}
	ctx := &Context{Dialect: d, overrides: make(map[reflect.Type]Override)}
	if r, ok := d.(registrar); ok {
		r.register(ctx)
	}
	return ctx
}

// Register installs fn for every node with the dynamic type of node. An
// override registered on top of an existing one receives it as next.
func (c *Context) Register(node any, fn Override) {
	t := reflect.TypeOf(node)
	prev, ok := c.overrides[t]
	if !ok {
		c.overrides[t] = fn
		return
	}
	c.overrides[t] = func(w *Writer, n any, next func() error) error {
		return fn(w, n, func() error { return prev(w, n, next) })
	}
}

// Clause nodes handed to overrides next to the query node types.
type (
	// ReturningClause is the RETURNING list of an insert, update or delete.
	ReturningClause struct{ Columns []query.Expr }
	// UsingClause is the USING item of a delete.
	UsingClause struct{ Item query.FromItem }
	// LockClause is FOR UPDATE.
	LockClause struct{}
)

// Compiler compiles statements to SQL for the dialect of its context.
type Compiler struct {
	ctx *Context
}

// NewCompiler creates a new compiler. A nil context means Standard
// without overrides.
func NewCompiler(ctx *Context) *Compiler {
	if ctx == nil {
		ctx = NewContext(Standard)
	}
	return &Compiler{ctx: ctx}
}

// Compile checks stmt and compiles it. A statement with a violation is
// never serialized; its violation is returned as is.
func (c *Compiler) Compile(stmt query.Statement) (Result, error) {
	if err := stmt.Err(); err != nil {
		return Result{}, err
	}

	w := newWriter(c.ctx)
	if err := w.WriteStatement(stmt.Build()); err != nil {
		return Result{}, err
	}

	res := Result{SQL: w.String(), ParamOrder: w.order, Params: w.params}
	if f, ok := stmt.(interface{ Fields() []query.Field }); ok {
		res.Fields = f.Fields()
	}
	return res, nil
}

// ToSQL serializes a statement, an expression, a FROM item or a CTE
// definition. Placeholders are numbered from 1.
func ToSQL(ctx *Context, node any) (string, error) {
	if ctx == nil {
		ctx = NewContext(Standard)
	}
	w := newWriter(ctx)

	var err error
	switch n := node.(type) {
	case query.CTE:
		if err = n.Err(); err == nil {
			err = w.cteDefinition(n)
		}
	case query.Statement:
		if err = n.Err(); err == nil {
			err = w.WriteStatement(n.Build())
		}
	case *query.AST:
		err = w.WriteStatement(n)
	case query.Expr:
		if err = n.Scope().Err; err == nil {
			err = w.expr(n)
		}
	case query.FromItem:
		if err = n.Scope().Err; err == nil {
			err = w.fromItem(n)
		}
	default:
		err = fmt.Errorf("cannot serialize %T", node)
	}
	if err != nil {
		return "", err
	}
	return w.String(), nil
}

// =============================================================================
// Writer
// =============================================================================

// Writer accumulates the SQL text and the parameter slots of one
// compilation. Sub-selects, CTEs and unions share the writer, so
// placeholders are numbered across the whole statement.
type Writer struct {
	ctx    *Context
	b      strings.Builder
	params []ParamSlot
	order  []string
}

func newWriter(ctx *Context) *Writer { return &Writer{ctx: ctx} }

func (w *Writer) Dialect() Dialect            { return w.ctx.Dialect }
func (w *Writer) String() string              { return w.b.String() }
func (w *Writer) WriteString(s string)        { w.b.WriteString(s) }
func (w *Writer) WriteIdentifier(name string) { w.b.WriteString(w.ctx.Dialect.QuoteIdentifier(name)) }

// WriteExpr writes e without surrounding parentheses. Overrides must not
// call it for the node they override; use next instead.
func (w *Writer) WriteExpr(e query.Expr) error { return w.expr(e) }

// WriteOperand writes e as an operand, embraced if it is an operator.
func (w *Writer) WriteOperand(e query.Expr) error { return w.operand(e) }

// WriteStatement writes a statement or a nested query.
func (w *Writer) WriteStatement(a *query.AST) error {
	if len(a.With) > 0 {
		if err := w.with(a.With); err != nil {
			return err
		}
	}

	switch a.Kind {
	case query.SelectQuery:
		return w.selectStatement(a)
	case query.InsertQuery:
		return w.insert(a)
	case query.UpdateQuery:
		return w.update(a)
	case query.DeleteQuery:
		return w.delete(a)
	case query.UnionQuery:
		return w.union(a.Union)
	}
	return fmt.Errorf("unknown query kind: %s", a.Kind)
}

func (w *Writer) visit(node any, write func() error) error {
	if fn, ok := w.ctx.overrides[reflect.TypeOf(node)]; ok {
		return fn(w, node, write)
	}
	return write()
}

func (w *Writer) alias(name string) error {
	if err := ValidateIdentifier(name); err != nil {
		return fmt.Errorf("invalid alias: %w", err)
	}
	w.WriteIdentifier(name)
	return nil
}

func (w *Writer) tableAlias(name string) error {
	if name == "" {
		return nil
	}
	w.WriteString(" AS ")
	return w.alias(name)
}

// activeItems drops inactive dynamic items and unwraps active ones.
func activeItems(items []query.Expr) []query.Expr {
	out := make([]query.Expr, 0, len(items))
	for _, e := range items {
		if d, ok := e.(query.DynamicExpr); ok {
			if !d.Active {
				continue
			}
			e = d.Expr
		}
		out = append(out, e)
	}
	return out
}

// list writes keyword and the active items. Nothing is written if no item
// is active.
func (w *Writer) list(keyword string, items []query.Expr, write func(query.Expr) error) error {
	active := activeItems(items)
	if len(active) == 0 {
		return nil
	}
	w.WriteString(keyword)
	return w.join(active, write)
}

func (w *Writer) join(items []query.Expr, write func(query.Expr) error) error {
	for i, e := range items {
		if i > 0 {
			w.WriteString(", ")
		}
		if err := write(e); err != nil {
			return err
		}
	}
	return nil
}

// condition writes keyword and cond unless cond is missing or inactive.
func (w *Writer) condition(keyword string, cond query.Expr) error {
	if cond == nil {
		return nil
	}
	if d, ok := cond.(query.DynamicExpr); ok {
		if !d.Active {
			return nil
		}
		cond = d.Expr
	}
	w.WriteString(keyword)
	return w.expr(cond)
}

// =============================================================================
// WITH and UNION
// =============================================================================

func (w *Writer) with(ctes []query.CTE) error {
	w.WriteString("WITH ")
	for _, c := range ctes {
		if c.Recursive() {
			w.WriteString("RECURSIVE ")
			break
		}
	}
	for i, c := range ctes {
		if i > 0 {
			w.WriteString(", ")
		}
		if err := w.cteDefinition(c); err != nil {
			return err
		}
	}
	w.WriteString(" ")
	return nil
}

func (w *Writer) cteDefinition(c query.CTE) error {
	if err := ValidateIdentifier(c.CTEName()); err != nil {
		return fmt.Errorf("invalid CTE name: %w", err)
	}
	w.WriteIdentifier(c.CTEName())
	w.WriteString(" AS (")
	if err := w.WriteStatement(c.Query()); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

func (w *Writer) union(u *query.UnionClause) error {
	return w.visit(u, func() error {
		if err := w.WriteStatement(u.Left); err != nil {
			return err
		}
		if !u.RightActive {
			return nil
		}
		if u.All {
			w.WriteString(" UNION ALL ")
		} else {
			w.WriteString(" UNION DISTINCT ")
		}
		return w.WriteStatement(u.Right)
	})
}

// =============================================================================
// SELECT Compilation
// =============================================================================

func (w *Writer) selectStatement(a *query.AST) error {
	w.WriteString("SELECT ")
	for _, f := range a.Flags {
		w.WriteString(string(f))
		w.WriteString(" ")
	}
	if err := w.join(a.Columns, w.selectColumn); err != nil {
		return err
	}

	if a.From != nil {
		w.WriteString(" FROM ")
		if err := w.fromItem(a.From); err != nil {
			return err
		}
	}
	if err := w.condition(" WHERE ", a.Where); err != nil {
		return err
	}
	if err := w.list(" GROUP BY ", a.GroupBy, w.expr); err != nil {
		return err
	}
	if err := w.condition(" HAVING ", a.Having); err != nil {
		return err
	}
	if err := w.list(" ORDER BY ", a.OrderBy, w.expr); err != nil {
		return err
	}
	if a.Limit != nil {
		w.WriteString(" LIMIT ")
		if err := w.expr(a.Limit); err != nil {
			return err
		}
	}
	if a.Offset != nil {
		w.WriteString(" OFFSET ")
		if err := w.expr(a.Offset); err != nil {
			return err
		}
	}
	if a.ForUpdate {
		return w.visit(LockClause{}, func() error {
			w.WriteString(" FOR UPDATE")
			return nil
		})
	}
	return nil
}

// selectColumn writes a select list or RETURNING item. Inactive columns
// become NULL under their name; expressions with a default name are
// written with it.
func (w *Writer) selectColumn(e query.Expr) error {
	if d, ok := e.(query.DynamicExpr); ok {
		if !d.Active {
			w.WriteString("NULL AS ")
			return w.alias(query.NameOf(d.Expr))
		}
		e = d.Expr
	}
	if _, ok := e.(query.Column); !ok && query.HasDefaultName(e) {
		if err := w.operand(e); err != nil {
			return err
		}
		w.WriteString(" AS ")
		return w.alias(query.NameOf(e))
	}
	return w.expr(e)
}

func (w *Writer) fromItem(item query.FromItem) error {
	return w.visit(item, func() error {
		switch f := item.(type) {
		case query.Table:
			w.WriteIdentifier(f.TableName())
			return w.tableAlias(f.Alias())
		case query.CTE:
			w.WriteIdentifier(f.CTEName())
			return w.tableAlias(f.Alias())
		case query.SelectTable:
			w.WriteString("(")
			if err := w.WriteStatement(f.Query); err != nil {
				return err
			}
			w.WriteString(") AS ")
			return w.alias(f.Name())
		case query.VerbatimTable:
			w.WriteString(f.SQL)
			return w.tableAlias(f.Alias())
		case query.Join:
			return w.joinItem(f)
		case query.DynamicFromItem:
			if !f.Active {
				return errors.New("inactive dynamic table outside of a join")
			}
			return w.fromItem(f.Item)
		case query.PreJoin:
			return fmt.Errorf("%s JOIN without condition", f.Type)
		}
		return fmt.Errorf("unknown FROM item %T", item)
	})
}

// joinItem writes lhs JOIN rhs ON cond. An inactive right side leaves
// only the left side.
func (w *Writer) joinItem(j query.Join) error {
	if err := w.fromItem(j.Lhs); err != nil {
		return err
	}
	rhs := j.Rhs
	if d, ok := rhs.(query.DynamicFromItem); ok {
		if !d.Active {
			return nil
		}
		rhs = d.Item
	}
	w.WriteString(" ")
	w.WriteString(string(j.Type))
	w.WriteString(" JOIN ")
	if err := w.fromItem(rhs); err != nil {
		return err
	}
	if j.On != nil {
		w.WriteString(" ON ")
		return w.expr(j.On)
	}
	return nil
}

// joinActive reports whether the right side of j is written.
func joinActive(j query.Join) bool {
	d, ok := j.Rhs.(query.DynamicFromItem)
	return !ok || d.Active
}

// =============================================================================
// INSERT Compilation
// =============================================================================

func (w *Writer) insert(a *query.AST) error {
	w.WriteString("INSERT INTO ")
	if err := w.fromItem(a.Table); err != nil {
		return err
	}

	var err error
	switch {
	case a.DefaultValues:
		w.WriteString(" DEFAULT VALUES")
	case a.InsertColumns != nil:
		err = w.insertRows(a.InsertColumns, a.Rows)
	default:
		err = w.insertSet(activeItems(a.Set))
	}
	if err != nil {
		return err
	}

	if err := w.onConflict(a.OnConflict); err != nil {
		return err
	}
	return w.returning(a.Returning)
}

func (w *Writer) insertSet(set []query.Expr) error {
	if len(set) == 0 {
		w.WriteString(" DEFAULT VALUES")
		return nil
	}
	w.WriteString(" (")
	if err := w.join(set, w.columnName); err != nil {
		return err
	}
	w.WriteString(") VALUES(")
	if err := w.join(set, w.rowValue); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

// insertRows writes the column list and the rows. An inactive column is
// dropped together with its value in every row.
func (w *Writer) insertRows(columns []query.Expr, rows [][]query.Expr) error {
	keep := make([]bool, len(columns))
	var names []query.Expr
	for i, c := range columns {
		if d, ok := c.(query.DynamicExpr); ok {
			if !d.Active {
				continue
			}
			c = d.Expr
		}
		keep[i] = true
		names = append(names, c)
	}
	if len(names) == 0 {
		w.WriteString(" DEFAULT VALUES")
		return nil
	}

	w.WriteString(" (")
	if err := w.join(names, w.columnName); err != nil {
		return err
	}
	w.WriteString(") VALUES ")
	for r, row := range rows {
		if r > 0 {
			w.WriteString(", ")
		}
		values := make([]query.Expr, 0, len(names))
		for i, v := range row {
			if i < len(keep) && keep[i] {
				values = append(values, v)
			}
		}
		w.WriteString("(")
		if err := w.join(values, w.rowValue); err != nil {
			return err
		}
		w.WriteString(")")
	}
	return nil
}

// columnName writes the unqualified column of a column or an assignment.
func (w *Writer) columnName(e query.Expr) error {
	switch v := e.(type) {
	case query.Column:
		w.WriteIdentifier(v.Name())
		return nil
	case query.Assignment:
		w.WriteIdentifier(v.Column.Name())
		return nil
	}
	return fmt.Errorf("expected a column, got %T", e)
}

// rowValue writes the value of an insert assignment. An inactive value is
// DEFAULT.
func (w *Writer) rowValue(e query.Expr) error {
	if d, ok := e.(query.DynamicExpr); ok {
		if !d.Active {
			w.WriteString("DEFAULT")
			return nil
		}
		e = d.Expr
	}
	if a, ok := e.(query.Assignment); ok {
		return w.operand(a.Value)
	}
	return w.operand(e)
}

func (w *Writer) onConflict(oc *query.OnConflict) error {
	if oc == nil {
		return nil
	}
	return w.visit(oc, func() error {
		w.WriteString(" ON CONFLICT")
		if cols := activeItems(oc.Columns); len(cols) > 0 {
			w.WriteString(" (")
			if err := w.join(cols, w.columnName); err != nil {
				return err
			}
			w.WriteString(")")
		}
		update := activeItems(oc.Update)
		if oc.DoNothing || len(update) == 0 {
			w.WriteString(" DO NOTHING")
			return nil
		}
		w.WriteString(" DO UPDATE SET ")
		if err := w.join(update, w.assignment); err != nil {
			return err
		}
		return w.condition(" WHERE ", oc.Where)
	})
}

func (w *Writer) returning(columns []query.Expr) error {
	if len(columns) == 0 {
		return nil
	}
	return w.visit(ReturningClause{Columns: columns}, func() error {
		return w.list(" RETURNING ", columns, w.selectColumn)
	})
}

// =============================================================================
// UPDATE and DELETE Compilation
// =============================================================================

func (w *Writer) update(a *query.AST) error {
	w.WriteString("UPDATE ")
	if err := w.fromItem(a.Table); err != nil {
		return err
	}
	set := activeItems(a.Set)
	if len(set) == 0 {
		return fmt.Errorf("%w: %s", ErrNoAssignments, a.Table.Name())
	}
	w.WriteString(" SET ")
	if err := w.join(set, w.assignment); err != nil {
		return err
	}
	if err := w.condition(" WHERE ", a.Where); err != nil {
		return err
	}
	return w.returning(a.Returning)
}

func (w *Writer) delete(a *query.AST) error {
	w.WriteString("DELETE FROM ")
	if err := w.fromItem(a.Table); err != nil {
		return err
	}
	if a.Using != nil {
		err := w.visit(UsingClause{Item: a.Using}, func() error {
			w.WriteString(" USING ")
			return w.fromItem(a.Using)
		})
		if err != nil {
			return err
		}
	}
	if err := w.condition(" WHERE ", a.Where); err != nil {
		return err
	}
	return w.returning(a.Returning)
}

func (w *Writer) assignment(e query.Expr) error {
	a, ok := e.(query.Assignment)
	if !ok {
		return fmt.Errorf("expected an assignment, got %T", e)
	}
	return w.visit(a, func() error {
		w.WriteIdentifier(a.Column.Name())
		w.WriteString(" = ")
		return w.operand(a.Value)
	})
}

// =============================================================================
// Expression Compilation
// =============================================================================

// expr writes e without surrounding parentheses.
func (w *Writer) expr(e query.Expr) error {
	if e == nil {
		return errors.New("missing expression")
	}
	return w.visit(e, func() error { return w.node(e) })
}

// operand writes e embraced if it is an operator.
func (w *Writer) operand(e query.Expr) error {
	if !needsParens(e) {
		return w.expr(e)
	}
	w.WriteString("(")
	if err := w.expr(e); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

func needsParens(e query.Expr) bool {
	switch v := e.(type) {
	case query.UnaryExpr, query.InExpr, query.BetweenExpr:
		return true
	case query.BinaryExpr:
		return !v.IsConcat()
	case query.LogicalExpr:
		terms := activeItems(v.Terms)
		if len(terms) == 1 {
			return needsParens(terms[0])
		}
		return len(terms) > 1
	case query.DynamicExpr:
		return v.Active && needsParens(v.Expr)
	case query.GroupByColumnExpr:
		return needsParens(v.Expr)
	}
	return false
}

func (w *Writer) node(e query.Expr) error {
	switch v := e.(type) {
	case query.Column:
		if v.Table != "" {
			w.WriteIdentifier(v.Table)
			w.WriteString(".")
		}
		w.WriteIdentifier(v.Name())
	case query.LiteralExpr:
		return w.literal(v)
	case query.ParamExpr:
		w.param(v)
	case query.VerbatimExpr:
		w.WriteString(v.SQL)
	case query.DefaultValue:
		w.WriteString("DEFAULT")
	case query.AliasExpr:
		if err := w.operand(v.Expr); err != nil {
			return err
		}
		w.WriteString(" AS ")
		return w.alias(v.Alias)
	case query.DynamicExpr:
		if !v.Active {
			w.WriteString("NULL")
			return nil
		}
		return w.expr(v.Expr)
	case query.GroupByColumnExpr:
		return w.expr(v.Expr)
	case query.UnaryExpr:
		return w.unary(v)
	case query.BinaryExpr:
		return w.binary(v)
	case query.LogicalExpr:
		return w.logical(v)
	case query.FuncExpr:
		w.WriteString(v.Name)
		w.WriteString("(")
		if err := w.join(v.Args, w.expr); err != nil {
			return err
		}
		w.WriteString(")")
	case query.AggregateExpr:
		return w.aggregate(v)
	case query.WindowExpr:
		if err := w.aggregate(v.Aggregate); err != nil {
			return err
		}
		w.WriteString(" OVER()")
	case query.CaseExpr:
		return w.caseExpr(v)
	case query.SubqueryExpr:
		return w.subquery("(", v.Query)
	case query.ExistsExpr:
		return w.subquery("EXISTS (", v.Query)
	case query.QuantifiedExpr:
		return w.subquery(string(v.Quantifier)+"(", v.Query)
	case query.InExpr:
		return w.in(v)
	case query.BetweenExpr:
		return w.between(v)
	case query.SortExpr:
		if err := w.expr(v.Expr); err != nil {
			return err
		}
		w.WriteString(" ")
		w.WriteString(string(v.Order))
		if v.Nulls != query.NullsDefault {
			w.WriteString(" ")
			w.WriteString(string(v.Nulls))
		}
	case query.Assignment:
		w.WriteIdentifier(v.Column.Name())
		w.WriteString(" = ")
		return w.operand(v.Value)
	case query.ColumnList:
		return w.join(v.Columns, w.expr)
	default:
		return fmt.Errorf("unknown expression %T", e)
	}
	return nil
}

func (w *Writer) param(p query.ParamExpr) {
	index := len(w.params) + 1
	w.params = append(w.params, ParamSlot{Index: index, Name: p.Name, Type: p.Type, Nullable: p.Nullable})
	w.order = append(w.order, p.Name)
	w.WriteString(w.ctx.Dialect.Placeholder(index))
}

func (w *Writer) literal(l query.LiteralExpr) error {
	if l.Null {
		w.WriteString("NULL")
		return nil
	}
	d := w.ctx.Dialect
	switch v := l.Value.(type) {
	case bool:
		w.WriteString(d.BoolLiteral(v))
	case int64:
		w.WriteString(strconv.FormatInt(v, 10))
	case uint64:
		w.WriteString(strconv.FormatUint(v, 10))
	case float64:
		s, err := d.FloatLiteral(v)
		if err != nil {
			return err
		}
		w.WriteString(s)
	case string:
		w.WriteString(d.StringLiteral(v))
	case []byte:
		w.WriteString(d.BlobLiteral(v))
	case time.Time:
		if l.Type == query.Date {
			w.WriteString(d.DateLiteral(v))
		} else {
			w.WriteString(d.TimestampLiteral(v))
		}
	case time.Duration:
		w.WriteString(d.TimeOfDayLiteral(v))
	default:
		return fmt.Errorf("%w: %T", query.ErrLiteralTypeSupported, l.Value)
	}
	return nil
}

// isNegativeLiteral reports whether e is written with a leading minus.
func isNegativeLiteral(e query.Expr) bool {
	l, ok := e.(query.LiteralExpr)
	if !ok || l.Null {
		return false
	}
	switch v := l.Value.(type) {
	case int64:
		return v < 0
	case float64:
		return v < 0
	}
	return false
}

func (w *Writer) unary(u query.UnaryExpr) error {
	if u.Op.IsPostfix() {
		if err := w.operand(u.Expr); err != nil {
			return err
		}
		w.WriteString(" ")
		w.WriteString(string(u.Op))
		return nil
	}

	w.WriteString(string(u.Op))
	if u.Op == query.OpNot {
		w.WriteString(" ")
	}
	// -(-1), never --1 which starts a comment.
	if u.Op == query.OpNeg && isNegativeLiteral(u.Expr) {
		w.WriteString("(")
		if err := w.expr(u.Expr); err != nil {
			return err
		}
		w.WriteString(")")
		return nil
	}
	return w.operand(u.Expr)
}

func (w *Writer) binary(b query.BinaryExpr) error {
	if b.IsConcat() {
		w.WriteString("CONCAT(")
		if err := w.expr(b.Left); err != nil {
			return err
		}
		w.WriteString(", ")
		if err := w.expr(b.Right); err != nil {
			return err
		}
		w.WriteString(")")
		return nil
	}
	return w.infix(b.Left, string(b.Op), b.Right)
}

// infix writes l op r with embraced operands.
func (w *Writer) infix(l query.Expr, op string, r query.Expr) error {
	if err := w.operand(l); err != nil {
		return err
	}
	w.WriteString(" ")
	w.WriteString(op)
	w.WriteString(" ")
	return w.operand(r)
}

// logical writes an AND/OR chain of its active terms. A single active term
// is written on its own, no active term as the neutral element.
func (w *Writer) logical(l query.LogicalExpr) error {
	terms := activeItems(l.Terms)
	switch len(terms) {
	case 0:
		w.WriteString(w.ctx.Dialect.BoolLiteral(l.Op == query.OpAnd))
		return nil
	case 1:
		return w.expr(terms[0])
	}
	for i, t := range terms {
		if i > 0 {
			w.WriteString(" ")
			w.WriteString(string(l.Op))
			w.WriteString(" ")
		}
		if err := w.operand(t); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) aggregate(a query.AggregateExpr) error {
	w.WriteString(string(a.Func))
	w.WriteString("(")
	if a.Distinct {
		w.WriteString("DISTINCT ")
	}
	if a.Arg == nil {
		w.WriteString("*")
	} else if err := w.expr(a.Arg); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

func (w *Writer) caseExpr(c query.CaseExpr) error {
	w.WriteString("CASE")
	for _, b := range c.Branches {
		w.WriteString(" WHEN ")
		if err := w.expr(b.When); err != nil {
			return err
		}
		w.WriteString(" THEN ")
		if err := w.expr(b.Then); err != nil {
			return err
		}
	}
	if c.ElseExpr != nil {
		w.WriteString(" ELSE ")
		if err := w.expr(c.ElseExpr); err != nil {
			return err
		}
	}
	w.WriteString(" END")
	return nil
}

func (w *Writer) subquery(open string, q query.Query) error {
	w.WriteString(open)
	if err := w.WriteStatement(q.Build()); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

func (w *Writer) in(in query.InExpr) error {
	if in.Query == nil && len(in.Values) == 0 {
		// x IN () is false for every x, x NOT IN () true.
		w.WriteString(w.ctx.Dialect.BoolLiteral(in.Negated))
		return nil
	}
	if err := w.operand(in.Operand); err != nil {
		return err
	}
	if in.Negated {
		w.WriteString(" NOT")
	}
	if in.Query != nil {
		return w.subquery(" IN (", in.Query)
	}
	w.WriteString(" IN (")
	if err := w.join(in.Values, w.expr); err != nil {
		return err
	}
	w.WriteString(")")
	return nil
}

func (w *Writer) between(b query.BetweenExpr) error {
	if err := w.operand(b.Operand); err != nil {
		return err
	}
	if b.Negated {
		w.WriteString(" NOT")
	}
	w.WriteString(" BETWEEN ")
	if err := w.operand(b.Low); err != nil {
		return err
	}
	w.WriteString(" AND ")
	return w.operand(b.High)
}
