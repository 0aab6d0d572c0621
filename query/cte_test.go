package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/query"
)

func TestCTE_Columns(t *testing.T) {
	x := query.NewCTE("x", query.Select(foo.C("id"), foo.C("int_n")).From(foo))
	require.NoError(t, x.Err())

	assert.Equal(t, "x", x.Name())
	assert.Equal(t, "x", x.C("id").Table)
	assert.Equal(t, query.Integral, x.C("int_n").ValueType())
	assert.Len(t, x.All().Columns, 2)
	assert.ErrorIs(t, x.C("nope").Scope().Err, query.ErrUnknownColumn)

	y := x.As("y")
	assert.Equal(t, "y", y.Name())
	assert.Equal(t, "x", y.CTEName())
	assert.Equal(t, "y", y.C("id").Table)
}

func TestCTE_Recursive(t *testing.T) {
	base := query.NewCTE("x", query.Select(query.As(query.Literal(0), "a")))
	assert.False(t, base.Recursive())

	x := base.UnionAll(query.Select(query.Add(base.C("a"), 1).As("a")).From(base).Where(base.C("a").Lt(10)))
	require.NoError(t, x.Err())
	assert.True(t, x.Recursive())

	stmt := query.With(x).Select(x.C("a")).From(x)
	assert.NoError(t, stmt.Err())
}

func TestCTE_DynamicStep(t *testing.T) {
	base := query.NewCTE("x", query.Select(query.As(query.Literal(0), "a")))
	step := query.Select(query.Add(base.C("a"), 1).As("a")).From(base).Where(base.C("a").Lt(10))

	on := base.UnionAll(query.DynamicQuery(true, step))
	require.NoError(t, on.Err())
	assert.True(t, on.Recursive())
	assert.True(t, on.Query().Union.RightActive)

	off := base.UnionAll(query.DynamicQuery(false, step))
	require.NoError(t, off.Err())
	assert.False(t, off.Recursive())
	assert.False(t, off.Query().Union.RightActive)
	assert.Equal(t, query.SelectQuery, off.Query().Union.Right.Kind)
}

func TestCTE_Violations(t *testing.T) {
	x := query.NewCTE("x", query.Select(foo.C("id")).From(foo))

	t.Run("unknown cte", func(t *testing.T) {
		stmt := query.Select(x.C("id")).From(x)
		assert.ErrorIs(t, stmt.Err(), query.ErrNoUnknownCTEs)
	})

	t.Run("duplicate", func(t *testing.T) {
		stmt := query.With(x, x).Select(x.C("id")).From(x)
		assert.ErrorIs(t, stmt.Err(), query.ErrWithNoDuplicates)
	})

	t.Run("union mismatch", func(t *testing.T) {
		bad := x.UnionAll(query.Select(bar.C("text_n")).From(bar))
		assert.ErrorIs(t, bad.Err(), query.ErrUnionResultRowsMatch)
	})

	t.Run("not self contained", func(t *testing.T) {
		dep := query.NewCTE("d", query.Select(bar.C("id")).From(bar).Where(bar.C("id").Eq(foo.C("id"))))
		assert.ErrorIs(t, dep.Err(), query.ErrCTESelfContained)
	})
}
