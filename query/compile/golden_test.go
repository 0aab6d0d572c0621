package compile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/query"
)

// goldenStatements are compiled for every dialect and compared against
// testdata/golden/{name}.golden. To regenerate the files, run:
//
//	go test ./query/compile -run TestGolden -update
func goldenStatements() map[string]query.Statement {
	cte := query.NewCTE("x", query.Select(query.As(query.Literal(0), "a")))
	cte = cte.UnionAll(query.Select(query.Add(cte.C("a"), 1).As("a")).From(cte).Where(cte.C("a").Lt(10)))

	return map[string]query.Statement{
		"select_join": query.Select(foo.C("id"), bar.C("text_n")).
			From(foo.LeftOuterJoin(bar).On(foo.C("id").Eq(bar.C("id")))).
			Where(foo.C("bool_n").Eq(true)).
			OrderBy(foo.C("id").Desc()).
			Limit(10),
		"insert_params": query.InsertInto(bar).
			Set(bar.C("text_n").Set(query.Parameter(bar.C("text_n"))), bar.C("bool_nn").Set(true)),
		"update_dynamic": query.Update(foo).
			Set(foo.C("int_n").Set(query.Add(foo.C("int_n"), 1)), query.Dynamic(false, foo.C("bool_n").Set(false))).
			Where(foo.C("id").In(1, 2)),
		"recursive_cte": query.With(cte).Select(cte.C("a")).From(cte),
	}
}

func TestGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for name, stmt := range goldenStatements() {
		t.Run(name, func(t *testing.T) {
			var b strings.Builder
			for _, d := range []Dialect{Standard, Postgres, MySQL, SQLite} {
				res, err := NewCompiler(NewContext(d)).Compile(stmt)
				require.NoError(t, err, d.Name())
				fmt.Fprintf(&b, "-- %s\n%s\n", d.Name(), res.SQL)
			}
			g.Assert(t, name, []byte(b.String()))
		})
	}
}
