package query

// =============================================================================
// Unary operators
// =============================================================================

// UnaryOp represents unary operators.
type UnaryOp string

const (
	OpNot       UnaryOp = "NOT"
	OpNeg       UnaryOp = "-"
	OpBitNot    UnaryOp = "~"
	OpIsNull    UnaryOp = "IS NULL"
	OpIsNotNull UnaryOp = "IS NOT NULL"
)

// IsPostfix reports whether the operator is written after its operand.
func (op UnaryOp) IsPostfix() bool { return op == OpIsNull || op == OpIsNotNull }

// UnaryExpr represents a unary operation (op expr, or expr op for the
// postfix null tests).
type UnaryExpr struct {
	Op   UnaryOp
	Expr Expr
	err  error
}

func (u UnaryExpr) ValueType() ValueType {
	switch u.Op {
	case OpNot, OpIsNull, OpIsNotNull:
		return Boolean
	case OpNeg:
		if u.Expr.ValueType() == UnsignedIntegral {
			return Integral
		}
	}
	return u.Expr.ValueType()
}

func (u UnaryExpr) CanBeNull() bool {
	if u.Op.IsPostfix() {
		return false
	}
	return u.Expr.CanBeNull()
}

func (u UnaryExpr) Scope() Scope { return u.Expr.Scope().withErr(u.err) }

// As names the expression in a select list.
func (u UnaryExpr) As(alias string) AliasExpr { return As(u, alias) }

func unary(op UnaryOp, v any) UnaryExpr {
	e := toExpr(v)
	u := UnaryExpr{Op: op, Expr: e}
	vt := e.ValueType()
	switch op {
	case OpNot:
		if vt != Boolean {
			u.err = ErrLogicalOperandsAreBoolean
		}
	case OpNeg:
		if !vt.IsNumeric() {
			u.err = ErrArithmeticOperandsAreNumeric
		}
	case OpBitNot:
		if !vt.IsIntegral() {
			u.err = ErrBitOperandsAreIntegral
		}
	}
	return u
}

// Not negates a boolean expression.
func Not(v any) UnaryExpr { return unary(OpNot, v) }

// Neg is the arithmetic negation -v.
func Neg(v any) UnaryExpr { return unary(OpNeg, v) }

// BitNot is the bitwise complement ~v.
func BitNot(v any) UnaryExpr { return unary(OpBitNot, v) }

// IsNull tests v IS NULL. The result is never NULL.
func IsNull(v any) UnaryExpr { return unary(OpIsNull, v) }

// IsNotNull tests v IS NOT NULL. The result is never NULL.
func IsNotNull(v any) UnaryExpr { return unary(OpIsNotNull, v) }

// =============================================================================
// Binary operators
// =============================================================================

// BinaryOp represents binary operators.
type BinaryOp string

const (
	OpEq                BinaryOp = "="
	OpNe                BinaryOp = "<>"
	OpLt                BinaryOp = "<"
	OpLe                BinaryOp = "<="
	OpGt                BinaryOp = ">"
	OpGe                BinaryOp = ">="
	OpIsDistinctFrom    BinaryOp = "IS DISTINCT FROM"
	OpIsNotDistinctFrom BinaryOp = "IS NOT DISTINCT FROM"
	OpLike              BinaryOp = "LIKE"
	OpNotLike           BinaryOp = "NOT LIKE"
	OpAdd               BinaryOp = "+"
	OpSub               BinaryOp = "-"
	OpMul               BinaryOp = "*"
	OpDiv               BinaryOp = "/"
	OpMod               BinaryOp = "%"
	OpBitAnd            BinaryOp = "&"
	OpBitOr             BinaryOp = "|"
	OpBitXor            BinaryOp = "^"
	OpShiftLeft         BinaryOp = "<<"
	OpShiftRight        BinaryOp = ">>"
)

type opClass uint8

const (
	comparison opClass = iota
	distinction
	pattern
	arithmetic
	bitwise
)

var opClasses = map[BinaryOp]opClass{
	OpEq: comparison, OpNe: comparison, OpLt: comparison,
	OpLe: comparison, OpGt: comparison, OpGe: comparison,
	OpIsDistinctFrom: distinction, OpIsNotDistinctFrom: distinction,
	OpLike: pattern, OpNotLike: pattern,
	OpAdd: arithmetic, OpSub: arithmetic, OpMul: arithmetic,
	OpDiv: arithmetic, OpMod: arithmetic,
	OpBitAnd: bitwise, OpBitOr: bitwise, OpBitXor: bitwise,
	OpShiftLeft: bitwise, OpShiftRight: bitwise,
}

// BinaryExpr represents a binary operation (left op right).
type BinaryExpr struct {
	Left  Expr
	Op    BinaryOp
	Right Expr
	err   error
}

func (b BinaryExpr) ValueType() ValueType {
	switch opClasses[b.Op] {
	case comparison, distinction, pattern:
		return Boolean
	case arithmetic:
		if b.IsConcat() {
			return Text
		}
		return promote(b.Left.ValueType(), b.Right.ValueType())
	}
	return b.Left.ValueType()
}

func (b BinaryExpr) CanBeNull() bool {
	if opClasses[b.Op] == distinction {
		return false
	}
	return b.Left.CanBeNull() || b.Right.CanBeNull()
}

func (b BinaryExpr) Scope() Scope { return scopeOf(b.Left, b.Right).withErr(b.err) }

// As names the expression in a select list.
func (b BinaryExpr) As(alias string) AliasExpr { return As(b, alias) }

// IsConcat reports whether the expression adds two text operands, which is
// written as CONCAT(l, r).
func (b BinaryExpr) IsConcat() bool {
	return b.Op == OpAdd && b.Left.ValueType() == Text && b.Right.ValueType() == Text
}

// promote returns the result kind of arithmetic on l and r.
func promote(l, r ValueType) ValueType {
	switch {
	case l == FloatingPoint || r == FloatingPoint:
		return FloatingPoint
	case l == UnsignedIntegral && r == UnsignedIntegral:
		return UnsignedIntegral
	}
	return Integral
}

func binary(l any, op BinaryOp, r any) BinaryExpr {
	left := toExpr(l)
	right := toExprFor(left.ValueType(), r)
	if l == nil {
		left = Null(right.ValueType())
	}
	b := BinaryExpr{Left: left, Op: op, Right: right}
	lt, rt := left.ValueType(), right.ValueType()
	switch opClasses[op] {
	case comparison, distinction:
		if !IsCompatible(lt, rt) {
			b.err = ErrComparisonOperandsAreCompatible
		}
	case pattern:
		if lt != Text || rt != Text {
			b.err = ErrLikeOperandsAreText
		}
	case arithmetic:
		if op == OpAdd && lt == Text && rt == Text {
			break
		}
		if !lt.IsNumeric() || !rt.IsNumeric() {
			b.err = ErrArithmeticOperandsAreNumeric
		}
	case bitwise:
		if !lt.IsIntegral() || !rt.IsIntegral() {
			b.err = ErrBitOperandsAreIntegral
		}
	}
	return b
}

// Eq creates l = r.
func Eq(l, r any) BinaryExpr { return binary(l, OpEq, r) }

// Ne creates l <> r.
func Ne(l, r any) BinaryExpr { return binary(l, OpNe, r) }

// Lt creates l < r.
func Lt(l, r any) BinaryExpr { return binary(l, OpLt, r) }

// Le creates l <= r.
func Le(l, r any) BinaryExpr { return binary(l, OpLe, r) }

// Gt creates l > r.
func Gt(l, r any) BinaryExpr { return binary(l, OpGt, r) }

// Ge creates l >= r.
func Ge(l, r any) BinaryExpr { return binary(l, OpGe, r) }

// IsDistinctFrom creates l IS DISTINCT FROM r. The result is never NULL.
func IsDistinctFrom(l, r any) BinaryExpr { return binary(l, OpIsDistinctFrom, r) }

// IsNotDistinctFrom creates l IS NOT DISTINCT FROM r. The result is never NULL.
func IsNotDistinctFrom(l, r any) BinaryExpr { return binary(l, OpIsNotDistinctFrom, r) }

// Like creates l LIKE pattern.
func Like(l, pattern any) BinaryExpr { return binary(l, OpLike, pattern) }

// NotLike creates l NOT LIKE pattern.
func NotLike(l, pattern any) BinaryExpr { return binary(l, OpNotLike, pattern) }

// Add creates l + r. Adding text operands concatenates them.
func Add(l, r any) BinaryExpr { return binary(l, OpAdd, r) }

// Sub creates l - r.
func Sub(l, r any) BinaryExpr { return binary(l, OpSub, r) }

// Mul creates l * r.
func Mul(l, r any) BinaryExpr { return binary(l, OpMul, r) }

// Div creates l / r.
func Div(l, r any) BinaryExpr { return binary(l, OpDiv, r) }

// Mod creates l % r.
func Mod(l, r any) BinaryExpr { return binary(l, OpMod, r) }

// BitAnd creates l & r.
func BitAnd(l, r any) BinaryExpr { return binary(l, OpBitAnd, r) }

// BitOr creates l | r.
func BitOr(l, r any) BinaryExpr { return binary(l, OpBitOr, r) }

// BitXor creates l ^ r.
func BitXor(l, r any) BinaryExpr { return binary(l, OpBitXor, r) }

// ShiftLeft creates l << r.
func ShiftLeft(l, r any) BinaryExpr { return binary(l, OpShiftLeft, r) }

// ShiftRight creates l >> r.
func ShiftRight(l, r any) BinaryExpr { return binary(l, OpShiftRight, r) }

// =============================================================================
// Logical operators
// =============================================================================

// LogicalOp is AND or OR.
type LogicalOp string

const (
	OpAnd LogicalOp = "AND"
	OpOr  LogicalOp = "OR"
)

// LogicalExpr is a flat chain of terms joined by the same operator. Terms
// may be dynamic; inactive ones are left out when the chain is written.
type LogicalExpr struct {
	Op    LogicalOp
	Terms []Expr
	err   error
}

func (l LogicalExpr) ValueType() ValueType { return Boolean }

func (l LogicalExpr) CanBeNull() bool {
	for _, t := range l.Terms {
		if t.CanBeNull() {
			return true
		}
	}
	return false
}

func (l LogicalExpr) Scope() Scope { return scopeOf(l.Terms...).withErr(l.err) }

// As names the expression in a select list.
func (l LogicalExpr) As(alias string) AliasExpr { return As(l, alias) }

func logical(op LogicalOp, terms []any) LogicalExpr {
	l := LogicalExpr{Op: op, Terms: make([]Expr, 0, len(terms))}
	for _, v := range terms {
		e := toExpr(v)
		if e.ValueType() != Boolean && l.err == nil {
			l.err = ErrLogicalOperandsAreBoolean
		}
		if nested, ok := e.(LogicalExpr); ok && nested.Op == op && nested.err == nil {
			l.Terms = append(l.Terms, nested.Terms...)
			continue
		}
		l.Terms = append(l.Terms, e)
	}
	return l
}

// And joins the terms with AND. Nested AND chains are flattened. A chain
// without active terms is true.
func And(terms ...any) LogicalExpr { return logical(OpAnd, terms) }

// Or joins the terms with OR. Nested OR chains are flattened. A chain
// without active terms is false.
func Or(terms ...any) LogicalExpr { return logical(OpOr, terms) }

// Compile-time verification that operator types implement Aliasable
var (
	_ Aliasable = UnaryExpr{}
	_ Aliasable = BinaryExpr{}
	_ Aliasable = LogicalExpr{}
)
