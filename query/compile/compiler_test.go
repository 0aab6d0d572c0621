package compile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/querytest"
)

var (
	foo = querytest.TabFoo
	bar = querytest.TabBar
)

func compileStandard(t *testing.T, stmt query.Statement) Result {
	t.Helper()
	res, err := NewCompiler(nil).Compile(stmt)
	require.NoError(t, err)
	return res
}

func TestCompile_Select(t *testing.T) {
	fooID := foo.C("id")

	tests := []struct {
		name string
		stmt query.Statement
		want string
	}{
		{
			name: "single column",
			stmt: query.Select(foo.C("double_n")).From(foo),
			want: "SELECT tab_foo.double_n FROM tab_foo",
		},
		{
			name: "all columns",
			stmt: query.Select(foo.All()).From(foo),
			want: "SELECT tab_foo.id, tab_foo.text_nn_d, tab_foo.int_n, tab_foo.double_n, " +
				"tab_foo.u_int_n, tab_foo.blob_n, tab_foo.bool_n FROM tab_foo",
		},
		{
			name: "aliased aggregate",
			stmt: query.Select(query.Count(bar.C("id")).As("id_count")).From(bar),
			want: "SELECT COUNT(tab_bar.id) AS id_count FROM tab_bar",
		},
		{
			name: "default name",
			stmt: query.Select(query.CountAll()).From(foo),
			want: "SELECT COUNT(*) AS count FROM tab_foo",
		},
		{
			name: "inactive column",
			stmt: query.Select(fooID, query.Dynamic(false, foo.C("text_nn_d"))).From(foo),
			want: "SELECT tab_foo.id, NULL AS text_nn_d FROM tab_foo",
		},
		{
			name: "active column",
			stmt: query.Select(fooID, query.Dynamic(true, foo.C("text_nn_d"))).From(foo),
			want: "SELECT tab_foo.id, tab_foo.text_nn_d FROM tab_foo",
		},
		{
			name: "aliased operator",
			stmt: query.Select(query.Add(fooID, 17).As("cake")).From(foo),
			want: "SELECT (tab_foo.id + 17) AS cake FROM tab_foo",
		},
		{
			name: "null test default name",
			stmt: query.Select(foo.C("int_n").IsNull()).From(foo),
			want: "SELECT (tab_foo.int_n IS NULL) AS is_null FROM tab_foo",
		},
		{
			name: "text concatenation",
			stmt: query.Select(query.Add(foo.C("text_nn_d"), "!").As("t")).From(foo),
			want: "SELECT CONCAT(tab_foo.text_nn_d, '!') AS t FROM tab_foo",
		},
		{
			name: "no from",
			stmt: query.Select(query.As(query.Literal(17), "a")),
			want: "SELECT 17 AS a",
		},
		{
			name: "distinct",
			stmt: query.Select(fooID).Distinct().From(foo),
			want: "SELECT DISTINCT tab_foo.id FROM tab_foo",
		},
		{
			name: "where",
			stmt: query.Select(fooID).From(foo).Where(foo.C("int_n").Gt(17)),
			want: "SELECT tab_foo.id FROM tab_foo WHERE tab_foo.int_n > 17",
		},
		{
			name: "where true",
			stmt: query.Select(fooID).From(foo).Where(true),
			want: "SELECT tab_foo.id FROM tab_foo WHERE 1",
		},
		{
			name: "inactive where",
			stmt: query.Select(fooID).From(foo).Where(query.Dynamic(false, foo.C("int_n").Gt(17))),
			want: "SELECT tab_foo.id FROM tab_foo",
		},
		{
			name: "group by having order by limit offset",
			stmt: query.Select(query.Count(fooID).As("something")).
				From(foo).
				Where(true).
				GroupBy(foo.C("int_n")).
				Having(query.Lt(query.Max(fooID), 100)).
				OrderBy(foo.C("int_n").Asc()).
				Limit(10).
				Offset(3),
			want: "SELECT COUNT(tab_foo.id) AS something FROM tab_foo WHERE 1 GROUP BY tab_foo.int_n " +
				"HAVING MAX(tab_foo.id) < 100 ORDER BY tab_foo.int_n ASC LIMIT 10 OFFSET 3",
		},
		{
			name: "inactive group by item",
			stmt: query.Select(query.CountAll().As("n")).
				From(foo).
				GroupBy(foo.C("int_n"), query.Dynamic(false, foo.C("bool_n"))),
			want: "SELECT COUNT(*) AS n FROM tab_foo GROUP BY tab_foo.int_n",
		},
		{
			name: "order by nulls first",
			stmt: query.Select(fooID).From(foo).OrderBy(foo.C("int_n").Desc().NullsFirst()),
			want: "SELECT tab_foo.id FROM tab_foo ORDER BY tab_foo.int_n DESC NULLS FIRST",
		},
		{
			name: "window function",
			stmt: query.Select(fooID, query.CountAll().Over()).From(foo),
			want: "SELECT tab_foo.id, COUNT(*) OVER() AS count FROM tab_foo",
		},
		{
			name: "table alias",
			stmt: query.Select(foo.As("a").C("id")).From(foo.As("a")),
			want: "SELECT a.id FROM tab_foo AS a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileStandard(t, tt.stmt)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestCompile_Conditions(t *testing.T) {
	fooID := foo.C("id")
	sub := query.Select(bar.C("id")).From(bar)

	tests := []struct {
		name string
		cond any
		want string
	}{
		{"and", query.And(foo.C("bool_n"), foo.C("int_n").Gt(17)), "tab_foo.bool_n AND (tab_foo.int_n > 17)"},
		{"and inactive term", query.And(foo.C("bool_n"), query.Dynamic(false, foo.C("int_n").Gt(17))), "tab_foo.bool_n"},
		{"and no active term", query.And(query.Dynamic(false, foo.C("bool_n"))), "1"},
		{"or no active term", query.Or(query.Dynamic(false, foo.C("bool_n"))), "0"},
		{"or of not", query.Or(query.Not(foo.C("bool_n")), fooID.Eq(1)), "(NOT tab_foo.bool_n) OR (tab_foo.id = 1)"},
		{
			"nested dynamic chain",
			query.And(foo.C("bool_n"), query.Dynamic(true, query.And(foo.C("bool_n"), fooID.Gt(17)))),
			"tab_foo.bool_n AND (tab_foo.bool_n AND (tab_foo.id > 17))",
		},
		{"in", fooID.In(1, 2, 3), "tab_foo.id IN (1, 2, 3)"},
		{"empty in", fooID.In(), "0"},
		{"empty not in", fooID.NotIn(), "1"},
		{"in sub-select", fooID.In(sub), "tab_foo.id IN (SELECT tab_bar.id FROM tab_bar)"},
		{"between", foo.C("int_n").Between(1, 10), "tab_foo.int_n BETWEEN 1 AND 10"},
		{"not between", foo.C("int_n").NotBetween(1, query.Add(2, 3)), "tab_foo.int_n NOT BETWEEN 1 AND (2 + 3)"},
		{"like", foo.C("text_nn_d").Like("%cheese%"), "tab_foo.text_nn_d LIKE '%cheese%'"},
		{"is not null", foo.C("int_n").IsNotNull(), "tab_foo.int_n IS NOT NULL"},
		{"is distinct from", foo.C("int_n").IsDistinctFrom(7), "tab_foo.int_n IS DISTINCT FROM 7"},
		{"any", fooID.Eq(query.Any(sub)), "tab_foo.id = ANY(SELECT tab_bar.id FROM tab_bar)"},
		{
			"correlated exists",
			query.Exists(query.Select(bar.C("id")).From(bar).Where(bar.C("id").Eq(fooID))),
			"EXISTS (SELECT tab_bar.id FROM tab_bar WHERE tab_bar.id = tab_foo.id)",
		},
		{"nested arithmetic", query.Lt(1, query.Add(17, 4)), "1 < (17 + 4)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileStandard(t, query.Select(fooID).From(foo).Where(tt.cond))
			want := "SELECT tab_foo.id FROM tab_foo WHERE " + tt.want
			assert.Equal(t, want, res.SQL)
		})
	}
}

func TestCompile_Joins(t *testing.T) {
	on := foo.C("id").Eq(bar.C("id"))

	tests := []struct {
		name string
		from query.FromItem
		want string
	}{
		{"inner", foo.Join(bar).On(on), "tab_foo INNER JOIN tab_bar ON tab_foo.id = tab_bar.id"},
		{"left outer", foo.LeftOuterJoin(bar).On(on), "tab_foo LEFT OUTER JOIN tab_bar ON tab_foo.id = tab_bar.id"},
		{"full outer", foo.FullOuterJoin(bar).On(on), "tab_foo FULL OUTER JOIN tab_bar ON tab_foo.id = tab_bar.id"},
		{"cross", foo.CrossJoin(bar), "tab_foo CROSS JOIN tab_bar"},
		{"unconditional", foo.Join(bar).Unconditionally(), "tab_foo INNER JOIN tab_bar"},
		{"active dynamic", foo.Join(query.DynamicTable(true, bar)).On(on), "tab_foo INNER JOIN tab_bar ON tab_foo.id = tab_bar.id"},
		{"inactive dynamic", foo.Join(query.DynamicTable(false, bar)).On(on), "tab_foo"},
		{
			"three tables",
			foo.Join(bar).On(on).Join(foo.As("a")).On(bar.C("id").Eq(foo.As("a").C("id"))),
			"tab_foo INNER JOIN tab_bar ON tab_foo.id = tab_bar.id INNER JOIN tab_foo AS a ON tab_bar.id = a.id",
		},
		{
			"verbatim table",
			foo.As("a").Join(query.NewVerbatimTable("unknown_table")).On(query.Verbatim("a.id = unknown_table.x", query.Boolean)),
			"tab_foo AS a INNER JOIN unknown_table ON a.id = unknown_table.x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToSQL(nil, tt.from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_SubSelects(t *testing.T) {
	maxBar := query.Select(query.Max(bar.C("id")).As("m")).From(bar)
	res := compileStandard(t, query.Select(foo.C("id"), query.Value(maxBar).As("max_bar")).From(foo))
	want := "SELECT tab_foo.id, (SELECT MAX(tab_bar.id) AS m FROM tab_bar) AS max_bar FROM tab_foo"
	assert.Equal(t, want, res.SQL)

	s := query.Select(foo.All()).From(foo).Where(true).As("s")
	res = compileStandard(t, query.Select(s.C("id")).From(s))
	want = "SELECT s.id FROM (SELECT tab_foo.id, tab_foo.text_nn_d, tab_foo.int_n, tab_foo.double_n, " +
		"tab_foo.u_int_n, tab_foo.blob_n, tab_foo.bool_n FROM tab_foo WHERE 1) AS s"
	assert.Equal(t, want, res.SQL)
}

func TestCompile_Union(t *testing.T) {
	left := query.Select(bar.C("id")).From(bar).Where(true)
	right := query.Select(foo.C("id")).From(foo).Where(true)

	tests := []struct {
		name string
		stmt query.Statement
		want string
	}{
		{"all", left.UnionAll(right), "SELECT tab_bar.id FROM tab_bar WHERE 1 UNION ALL SELECT tab_foo.id FROM tab_foo WHERE 1"},
		{"distinct", left.UnionDistinct(right), "SELECT tab_bar.id FROM tab_bar WHERE 1 UNION DISTINCT SELECT tab_foo.id FROM tab_foo WHERE 1"},
		{"inactive right", left.UnionDistinct(query.DynamicQuery(false, right)), "SELECT tab_bar.id FROM tab_bar WHERE 1"},
		{
			"chained",
			left.UnionAll(right).UnionAll(left),
			"SELECT tab_bar.id FROM tab_bar WHERE 1 UNION ALL SELECT tab_foo.id FROM tab_foo WHERE 1 UNION ALL SELECT tab_bar.id FROM tab_bar WHERE 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileStandard(t, tt.stmt)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestCompile_CTE(t *testing.T) {
	x := query.NewCTE("x", query.Select(foo.C("id")).From(foo).Where(true))

	def, err := ToSQL(nil, x)
	require.NoError(t, err)
	assert.Equal(t, "x AS (SELECT tab_foo.id FROM tab_foo WHERE 1)", def)

	ref, err := ToSQL(nil, x.As("a").CrossJoin(foo))
	require.NoError(t, err)
	assert.Equal(t, "x AS a CROSS JOIN tab_foo", ref)

	res := compileStandard(t, query.With(x).Select(x.C("id")).From(x))
	want := "WITH x AS (SELECT tab_foo.id FROM tab_foo WHERE 1) SELECT x.id FROM x"
	assert.Equal(t, want, res.SQL)
}

func TestCompile_RecursiveCTE(t *testing.T) {
	base := query.NewCTE("x", query.Select(query.As(query.Literal(0), "a")))
	step := query.Select(query.Add(base.C("a"), 1).As("a")).From(base).Where(base.C("a").Lt(10))
	x := base.UnionAll(step)

	require.True(t, x.Recursive())

	res := compileStandard(t, query.With(x).Select(x.C("a")).From(x))
	want := "WITH RECURSIVE x AS (SELECT 0 AS a UNION ALL SELECT (x.a + 1) AS a FROM x WHERE x.a < 10) SELECT x.a FROM x"
	assert.Equal(t, want, res.SQL)

	stopped := base.UnionAll(query.DynamicQuery(false, step))
	assert.False(t, stopped.Recursive(), "an inactive step does not make the CTE recursive")
	def, err := ToSQL(nil, stopped)
	require.NoError(t, err)
	assert.Equal(t, "x AS (SELECT 0 AS a)", def)
}

func TestCompile_Insert(t *testing.T) {
	tests := []struct {
		name string
		stmt query.Statement
		want string
	}{
		{
			name: "set",
			stmt: query.InsertInto(bar).Set(bar.C("text_n").Set("cheesecake"), bar.C("bool_nn").Set(true)),
			want: "INSERT INTO tab_bar (text_n, bool_nn) VALUES('cheesecake', 1)",
		},
		{
			name: "set with inactive assignment",
			stmt: query.InsertInto(bar).Set(bar.C("bool_nn").Set(false), query.Dynamic(false, bar.C("text_n").Set("x"))),
			want: "INSERT INTO tab_bar (bool_nn) VALUES(0)",
		},
		{
			name: "default values",
			stmt: query.InsertInto(foo).DefaultValues(),
			want: "INSERT INTO tab_foo DEFAULT VALUES",
		},
		{
			name: "multiple rows",
			stmt: query.InsertInto(foo).
				Columns(foo.C("id"), foo.C("bool_n")).
				AddValues(foo.C("id").Set(17), foo.C("bool_n").Set(true)).
				AddValues(foo.C("id").Set(query.Default), foo.C("bool_n").Set(nil)),
			want: "INSERT INTO tab_foo (id, bool_n) VALUES (17, 1), (DEFAULT, NULL)",
		},
		{
			name: "inactive column",
			stmt: query.InsertInto(foo).
				Columns(foo.C("id"), query.Dynamic(false, foo.C("bool_n"))).
				AddValues(foo.C("id").Set(17), query.Dynamic(false, foo.C("bool_n").Set(true))),
			want: "INSERT INTO tab_foo (id) VALUES (17)",
		},
		{
			name: "on conflict do nothing",
			stmt: query.InsertInto(foo).Set(foo.C("id").Set(7)).OnConflict(foo.C("id")).DoNothing(),
			want: "INSERT INTO tab_foo (id) VALUES(7) ON CONFLICT (id) DO NOTHING",
		},
		{
			name: "on conflict do update",
			stmt: query.InsertInto(foo).
				Set(foo.C("id").Set(7)).
				OnConflict(foo.C("id")).
				DoUpdate(foo.C("text_nn_d").Set("cake")).
				Where(foo.C("id").Eq(17)),
			want: "INSERT INTO tab_foo (id) VALUES(7) ON CONFLICT (id) DO UPDATE SET text_nn_d = 'cake' WHERE tab_foo.id = 17",
		},
		{
			name: "returning",
			stmt: query.InsertInto(foo).DefaultValues().Returning(foo.C("id")),
			want: "INSERT INTO tab_foo DEFAULT VALUES RETURNING tab_foo.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileStandard(t, tt.stmt)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestCompile_UpdateDelete(t *testing.T) {
	doubleN := foo.C("double_n")

	tests := []struct {
		name string
		stmt query.Statement
		want string
	}{
		{
			name: "update unconditionally",
			stmt: query.Update(foo).Set(doubleN.Set(42)).Unconditionally(),
			want: "UPDATE tab_foo SET double_n = 42",
		},
		{
			name: "update embraces value",
			stmt: query.Update(foo).Set(doubleN.Set(query.Sub(doubleN, -1))).Unconditionally(),
			want: "UPDATE tab_foo SET double_n = (tab_foo.double_n - -1)",
		},
		{
			name: "update inactive assignment",
			stmt: query.Update(foo).
				Set(foo.C("int_n").Set(1), query.Dynamic(false, foo.C("bool_n").Set(true))).
				Where(foo.C("id").Eq(3)),
			want: "UPDATE tab_foo SET int_n = 1 WHERE tab_foo.id = 3",
		},
		{
			name: "delete",
			stmt: query.DeleteFrom(foo).Where(foo.C("id").Eq(1)),
			want: "DELETE FROM tab_foo WHERE tab_foo.id = 1",
		},
		{
			name: "delete unconditionally",
			stmt: query.DeleteFrom(foo).Unconditionally(),
			want: "DELETE FROM tab_foo",
		},
		{
			name: "delete using",
			stmt: query.DeleteFrom(foo).Using(bar).Where(foo.C("id").Eq(bar.C("id"))),
			want: "DELETE FROM tab_foo USING tab_bar WHERE tab_foo.id = tab_bar.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compileStandard(t, tt.stmt)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestCompile_UpdateWithoutActiveAssignment(t *testing.T) {
	stmt := query.Update(foo).Set(query.Dynamic(false, foo.C("int_n").Set(1))).Unconditionally()
	_, err := NewCompiler(nil).Compile(stmt)
	assert.ErrorIs(t, err, ErrNoAssignments)
}

func TestCompile_ViolationIsReturned(t *testing.T) {
	_, err := NewCompiler(nil).Compile(query.DeleteFrom(bar))
	assert.ErrorIs(t, err, query.ErrWhereOrUnconditionallyCalled)

	_, err = NewCompiler(nil).Compile(query.Select(foo.C("int_n"), query.Count(foo.C("id")).As("n")).From(foo))
	assert.ErrorIs(t, err, query.ErrSelectColumnsAllAggregates)
}

func TestCompile_Params(t *testing.T) {
	intN := foo.C("int_n")
	name := query.NewParam("name", query.Text, false)
	stmt := query.Select(foo.C("id")).From(foo).Where(query.And(
		intN.Eq(query.Parameter(intN)),
		foo.C("text_nn_d").Eq(name),
		query.Exists(query.Select(bar.C("id")).From(bar).Where(bar.C("text_n").Eq(name))),
	))

	res, err := CompilePostgres(stmt)
	require.NoError(t, err)

	want := `SELECT "tab_foo"."id" FROM "tab_foo" WHERE ("tab_foo"."int_n" = $1) AND ("tab_foo"."text_nn_d" = $2) ` +
		`AND EXISTS (SELECT "tab_bar"."id" FROM "tab_bar" WHERE "tab_bar"."text_n" = $3)`
	assert.Equal(t, want, res.SQL)

	assert.Equal(t, []string{"int_n", "name", "name"}, res.ParamOrder)
	require.Len(t, res.Params, 3)

	first := res.Params[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, query.Integral, first.Type)
	assert.True(t, first.Nullable)

	last := res.Params[2]
	assert.Equal(t, 3, last.Index)
	assert.False(t, last.Nullable)
	assert.True(t, res.HasParams())
}

func TestCompile_Fields(t *testing.T) {
	stmt := query.Select(foo.C("id"), bar.C("text_n")).
		From(foo.LeftOuterJoin(bar).On(foo.C("id").Eq(bar.C("id"))))
	res := compileStandard(t, stmt)

	require.Len(t, res.Fields, 2)
	assert.Equal(t, "id", res.Fields[0].Name)
	assert.False(t, res.Fields[0].CanBeNull)
	assert.Equal(t, "text_n", res.Fields[1].Name)
	assert.True(t, res.Fields[1].CanBeNull)
	assert.Equal(t, query.Text, res.Fields[1].Type)
}

func TestCompile_Deterministic(t *testing.T) {
	stmt := query.Select(foo.C("id"), query.CountAll().Over()).
		From(foo.Join(bar).On(foo.C("id").Eq(bar.C("id")))).
		Where(query.Or(foo.C("int_n").In(1, 2), bar.C("text_n").Like("a%")))

	first := compileStandard(t, stmt)
	for i := 0; i < 10; i++ {
		require.Equal(t, first.SQL, compileStandard(t, stmt).SQL, "run %d", i)
	}
}

func TestContext_Register(t *testing.T) {
	ctx := NewContext(Standard)
	ctx.Register(query.LiteralExpr{}, func(w *Writer, node any, next func() error) error {
		if v, ok := node.(query.LiteralExpr).Value.(bool); ok {
			if v {
				w.WriteString("TRUE")
			} else {
				w.WriteString("FALSE")
			}
			return nil
		}
		return next()
	})

	got, err := ToSQL(ctx, query.Select(foo.C("id")).From(foo).Where(query.And(true, foo.C("id").Eq(1))))
	require.NoError(t, err)
	assert.Equal(t, "SELECT tab_foo.id FROM tab_foo WHERE TRUE AND (tab_foo.id = 1)", got)
}

func TestContext_RegisterChains(t *testing.T) {
	ctx := NewContext(Standard)
	ctx.Register(query.Column{}, func(w *Writer, node any, next func() error) error {
		w.WriteString("[")
		if err := next(); err != nil {
			return err
		}
		w.WriteString("]")
		return nil
	})
	ctx.Register(query.Column{}, func(w *Writer, node any, next func() error) error {
		w.WriteString("<")
		if err := next(); err != nil {
			return err
		}
		w.WriteString(">")
		return nil
	})

	got, err := ToSQL(ctx, foo.C("id"))
	require.NoError(t, err)
	assert.Equal(t, "<[tab_foo.id]>", got)
}

func TestToSQL_Errors(t *testing.T) {
	_, err := ToSQL(nil, 42)
	assert.Error(t, err, "non-node value")

	_, err = ToSQL(nil, query.Add(foo.C("text_nn_d"), 1))
	assert.ErrorIs(t, err, query.ErrArithmeticOperandsAreNumeric)

	_, err = ToSQL(nil, query.As(foo.C("id"), "no alias"))
	assert.Error(t, err, "invalid alias")
}
