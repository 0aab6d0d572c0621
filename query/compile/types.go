package compile

import "github.com/shipq/typedsql/query"

// Result is a compiled statement.
type Result struct {
	SQL string

	// ParamOrder names the parameter behind each placeholder. A parameter
	// bound twice is listed twice.
	ParamOrder []string

	// Params has one slot per placeholder, in placeholder order.
	Params []ParamSlot

	// Fields describes the result row, if the statement has one.
	Fields []query.Field
}

// ParamSlot is one placeholder of a compiled statement.
type ParamSlot struct {
	// Index is the 1-based placeholder position.
	Index    int
	Name     string
	Type     query.ValueType
	Nullable bool
}

// HasParams reports whether the statement has placeholders.
func (r Result) HasParams() bool { return len(r.Params) > 0 }
