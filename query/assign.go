package query

// Assignment is column = value in SET lists and insert rows. Value is a
// DefaultValue for DEFAULT and a NULL literal for NULL.
type Assignment struct {
	Column Column
	Value  Expr
	err    error
}

func (a Assignment) ValueType() ValueType { return NoValue }
func (a Assignment) CanBeNull() bool      { return false }

func (a Assignment) Scope() Scope {
	return mergeScopes(a.Column.Scope(), a.Value.Scope()).withErr(a.err)
}

// IsDefault reports whether the column is assigned its default.
func (a Assignment) IsDefault() bool {
	_, ok := a.Value.(DefaultValue)
	return ok
}

// Set assigns v to col. An untyped nil assigns NULL and Default assigns the
// column default. A non-nullable column only accepts values that cannot be
// NULL.
func (c Column) Set(v any) Assignment {
	a := Assignment{Column: c, Value: toExprFor(c.Spec.Type, v)}
	switch val := a.Value.(type) {
	case DefaultValue:
		if !c.Spec.HasDefault && !c.Spec.Nullable {
			a.err = ErrAssignmentHasDefault
		}
	case LiteralExpr:
		if val.Null && val.err == nil {
			if !c.Spec.Nullable {
				a.err = ErrAssignmentNotNull
			}
			break
		}
		if !IsValidOperand(c.Spec.Type, val.Type) {
			a.err = ErrAssignmentOperandIsValid
		}
	default:
		switch {
		case !IsValidOperand(c.Spec.Type, val.ValueType()):
			a.err = ErrAssignmentOperandIsValid
		case !c.Spec.Nullable && val.CanBeNull():
			a.err = ErrAssignmentNotNull
		}
	}
	return a
}

// SetDefault assigns the column default.
func (c Column) SetDefault() Assignment { return c.Set(Default) }

var _ Expr = Assignment{}
