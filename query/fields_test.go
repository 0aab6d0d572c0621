package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/query"
)

func fieldNames(fields []query.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestFields_Nullability(t *testing.T) {
	on := foo.C("id").Eq(bar.C("id"))

	tests := []struct {
		name    string
		from    query.FromItem
		fooNull bool
		barNull bool
	}{
		{"inner", foo.Join(bar).On(on), false, false},
		{"left", foo.LeftOuterJoin(bar).On(on), false, true},
		{"right", foo.RightOuterJoin(bar).On(on), true, false},
		{"full", foo.FullOuterJoin(bar).On(on), true, true},
		{"cross", foo.CrossJoin(bar), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := query.Select(foo.C("id"), bar.C("bool_nn")).From(tt.from)
			require.NoError(t, stmt.Err())

			fields := stmt.Fields()
			require.Len(t, fields, 2)
			assert.Equal(t, tt.fooNull, fields[0].CanBeNull, "foo.id")
			assert.Equal(t, tt.barNull, fields[1].CanBeNull, "bar.bool_nn")
		})
	}
}

func TestFields_Expressions(t *testing.T) {
	stmt := query.Select(
		foo.C("int_n"),
		query.Dynamic(true, foo.C("text_nn_d")),
		query.CountAll(),
		query.Max(foo.C("id")).As("max_id"),
		foo.C("int_n").IsNull(),
		query.Add(foo.C("int_n"), 1.5).As("f"),
	).From(foo).GroupBy(foo.C("int_n"), foo.C("text_nn_d"))
	require.NoError(t, stmt.Err())

	fields := stmt.Fields()
	assert.Equal(t, []string{"int_n", "text_nn_d", "count", "max_id", "is_null", "f"}, fieldNames(fields))

	assert.True(t, fields[0].CanBeNull)
	assert.True(t, fields[1].CanBeNull, "dynamic columns can be NULL")
	assert.Equal(t, query.Text, fields[1].Type)
	assert.False(t, fields[2].CanBeNull, "COUNT is never NULL")
	assert.True(t, fields[3].CanBeNull, "MAX of an empty group is NULL")
	assert.Equal(t, query.Boolean, fields[4].Type)
	assert.False(t, fields[4].CanBeNull)
	assert.Equal(t, query.FloatingPoint, fields[5].Type)
}

func TestFields_InsertReturning(t *testing.T) {
	stmt := query.InsertInto(bar).Set(bar.C("bool_nn").Set(true)).Returning(bar.C("id"), bar.C("text_n"))
	require.NoError(t, stmt.Err())

	fields := stmt.Fields()
	assert.Equal(t, []string{"id", "text_n"}, fieldNames(fields))
	assert.False(t, fields[0].CanBeNull)
	assert.True(t, fields[1].CanBeNull)
}

func TestFields_SelectTable(t *testing.T) {
	sub := query.Select(foo.C("id"), foo.C("int_n")).From(foo).As("s")
	outer := query.Select(sub.C("id"), sub.C("int_n")).From(sub)
	require.NoError(t, outer.Err())

	fields := outer.Fields()
	assert.Equal(t, []string{"id", "int_n"}, fieldNames(fields))
	assert.Equal(t, query.Integral, fields[1].Type)
	assert.True(t, fields[1].CanBeNull)
}
