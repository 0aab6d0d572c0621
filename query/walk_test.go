package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shipq/typedsql/query"
)

func TestCollectParams(t *testing.T) {
	intN := foo.C("int_n")
	name := query.NewParam("name", query.Text, false)
	sub := query.Select(bar.C("id")).From(bar).Where(bar.C("text_n").Eq(name))
	stmt := query.Select(foo.C("id")).From(foo).Where(query.And(
		intN.Eq(query.Parameter(intN)),
		foo.C("text_nn_d").Eq(name),
		foo.C("id").In(sub),
	))

	params := query.CollectParams(stmt.Build())
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"int_n", "name"}, names)
	assert.True(t, params[0].Nullable)
	assert.Equal(t, query.Text, params[1].Type)
}

func TestHasSubqueries(t *testing.T) {
	plain := query.Select(foo.C("id")).From(foo).Where(foo.C("id").In(1, 2))
	assert.False(t, query.HasSubqueries(plain.Build()))

	nested := query.Select(foo.C("id")).From(foo).Where(query.Exists(query.Select(bar.C("id")).From(bar)))
	assert.True(t, query.HasSubqueries(nested.Build()))
}

func TestWalkExpr_StopsBranch(t *testing.T) {
	e := query.And(query.Not(foo.C("bool_n")), foo.C("id").Gt(query.Add(1, 2)))

	var visited []string
	query.WalkExpr(e, func(x query.Expr) bool {
		switch v := x.(type) {
		case query.Column:
			visited = append(visited, v.Name())
		case query.UnaryExpr:
			return false
		}
		return true
	})
	assert.Equal(t, []string{"id"}, visited)
}

func TestChildren(t *testing.T) {
	c := query.Case(foo.C("bool_n"), 1).When(foo.C("id").Gt(3), 2).Else(3)
	assert.Len(t, query.Children(c), 5)
	assert.Len(t, query.Children(foo.C("int_n").Between(1, 2)), 3)
	assert.Empty(t, query.Children(foo.C("id")))
	assert.Empty(t, query.Children(query.CountAll()))
}
