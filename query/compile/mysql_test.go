package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/query"
)

func TestMySQL_SimpleSelect(t *testing.T) {
	res, err := CompileMySQL(query.Select(foo.C("id")).From(foo).Where(foo.C("id").Eq(query.Parameter(foo.C("id")))))
	require.NoError(t, err)

	assert.Equal(t, "SELECT `tab_foo`.`id` FROM `tab_foo` WHERE `tab_foo`.`id` = ?", res.SQL)
	assert.Equal(t, []string{"id"}, res.ParamOrder)
}

func TestMySQL_NullSafeEquality(t *testing.T) {
	tests := []struct {
		name string
		cond query.BinaryExpr
		want string
	}{
		{"not distinct", foo.C("int_n").IsNotDistinctFrom(7), "`tab_foo`.`int_n` <=> 7"},
		{"distinct", foo.C("int_n").IsDistinctFrom(7), "NOT (`tab_foo`.`int_n` <=> 7)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSQL(mysqlContext, tt.cond)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMySQL_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		stmt query.Statement
	}{
		{"returning", query.InsertInto(foo).DefaultValues().Returning(foo.C("id"))},
		{"on conflict", query.InsertInto(foo).Set(foo.C("id").Set(1)).OnConflict(foo.C("id")).DoNothing()},
		{"full join", query.Select(foo.C("id")).From(foo.FullOuterJoin(bar).On(foo.C("id").Eq(bar.C("id"))))},
		{"nulls last", query.Select(foo.C("id")).From(foo).OrderBy(foo.C("int_n").Asc().NullsLast())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileMySQL(tt.stmt)
			assert.ErrorIs(t, err, ErrUnsupported)
		})
	}
}

func TestMySQL_InactiveReturningIsDropped(t *testing.T) {
	stmt := query.DeleteFrom(foo).Unconditionally().Returning(query.Dynamic(false, foo.C("id")))
	res, err := CompileMySQL(stmt)
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `tab_foo`", res.SQL)
}
