//go:build integration

package sqlite

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
)

// connectSQLite opens an in-memory database with the test schema.
func connectSQLite(t *testing.T, opts ...connector.Option) *connector.Conn {
	t.Helper()
	conn, err := Open(context.Background(), Memory, connector.Pool{}, opts...)
	if err != nil {
		t.Skipf("SQLite unavailable: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	_, err = conn.DB().Exec(`
		CREATE TABLE tab_foo (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text_nn_d TEXT NOT NULL DEFAULT '',
			int_n INTEGER,
			double_n REAL,
			u_int_n INTEGER,
			blob_n BLOB,
			bool_n BOOLEAN
		);
		CREATE TABLE tab_date_time (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date_n DATE,
			timestamp_n DATETIME,
			time_of_day_n TEXT
		);
		CREATE UNIQUE INDEX tab_foo_text ON tab_foo (text_nn_d);
	`)
	require.NoError(t, err)
	return conn
}

var (
	foo = query.NewTable("tab_foo",
		query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
		query.ColumnSpec{Name: "text_nn_d", Type: query.Text, HasDefault: true},
		query.ColumnSpec{Name: "int_n", Type: query.Integral, Nullable: true},
		query.ColumnSpec{Name: "double_n", Type: query.FloatingPoint, Nullable: true},
		query.ColumnSpec{Name: "u_int_n", Type: query.UnsignedIntegral, Nullable: true},
		query.ColumnSpec{Name: "blob_n", Type: query.Blob, Nullable: true},
		query.ColumnSpec{Name: "bool_n", Type: query.Boolean, Nullable: true},
	)
	dt = query.NewTable("tab_date_time",
		query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
		query.ColumnSpec{Name: "date_n", Type: query.Date, Nullable: true},
		query.ColumnSpec{Name: "timestamp_n", Type: query.Timestamp, Nullable: true},
		query.ColumnSpec{Name: "time_of_day_n", Type: query.TimeOfDay, Nullable: true},
	)
)

func TestSQLiteIntegration_InsertSelect(t *testing.T) {
	conn := connectSQLite(t, connector.WithStatementCache())
	ctx := context.Background()

	textN, intN, uintN, blobN, boolN := foo.C("text_nn_d"), foo.C("int_n"), foo.C("u_int_n"), foo.C("blob_n"), foo.C("bool_n")
	insert, err := conn.Prepare(ctx, query.InsertInto(foo).Set(
		textN.Set(query.Parameter(textN)),
		intN.Set(query.Parameter(intN)),
		uintN.Set(query.Parameter(uintN)),
		blobN.Set(query.Parameter(blobN)),
		boolN.Set(query.Parameter(boolN)),
	))
	require.NoError(t, err)

	for i, name := range []string{"a", "b", "c"} {
		var intVal any
		if i != 1 {
			intVal = i * 10
		}
		_, err := insert.Exec(ctx, map[string]any{
			"text_nn_d": name,
			"int_n":     intVal,
			"u_int_n":   uint64(i),
			"blob_n":    []byte(name),
			"bool_n":    i%2 == 0,
		})
		require.NoError(t, err)
	}

	rows, err := conn.Query(ctx, query.Select(textN, intN, uintN, blobN, boolN).From(foo).OrderBy(textN.Asc()))
	require.NoError(t, err)
	defer rows.Close()

	var got []string
	for rows.Next() {
		r := rows.Row()
		got = append(got, r.Value(0).String())
		assert.Equal(t, []byte(r.Value(0).String()), r.Value(3).Bytes())
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"a", "b", "c"}, got)

	n, err := conn.Run(ctx, query.Select(intN).From(foo).Where(intN.IsNull()), func(r connector.Row) error {
		assert.True(t, r.Value(0).Null)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteIntegration_Aggregates(t *testing.T) {
	conn := connectSQLite(t)
	ctx := context.Background()

	_, err := conn.Exec(ctx, query.InsertInto(foo).Set(foo.C("text_nn_d").Set("x"), foo.C("double_n").Set(1.5)))
	require.NoError(t, err)
	_, err = conn.Exec(ctx, query.InsertInto(foo).Set(foo.C("text_nn_d").Set("y"), foo.C("double_n").Set(2.5)))
	require.NoError(t, err)

	rows, err := conn.Query(ctx, query.Select(query.CountAll(), query.Sum(foo.C("double_n")).As("total")).From(foo))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	assert.Equal(t, int64(2), rows.Row().Value(0).Int64())
	total, ok := rows.Row().ValueOf("total")
	require.True(t, ok)
	assert.Equal(t, 4.0, total.Float64())
}

func TestSQLiteIntegration_Temporal(t *testing.T) {
	conn := connectSQLite(t)
	ctx := context.Background()

	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tod := 8*time.Hour + 45*time.Minute

	dateN, tsN, todN := dt.C("date_n"), dt.C("timestamp_n"), dt.C("time_of_day_n")
	insert, err := conn.Prepare(ctx, query.InsertInto(dt).Set(
		dateN.Set(query.Parameter(dateN)),
		tsN.Set(query.Parameter(tsN)),
		todN.Set(query.Parameter(todN)),
	))
	require.NoError(t, err)
	defer insert.Close()

	_, err = insert.Exec(ctx, map[string]any{"date_n": day, "timestamp_n": ts, "time_of_day_n": tod})
	require.NoError(t, err)

	rows, err := conn.Query(ctx, query.Select(dateN, tsN, todN).From(dt))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	r := rows.Row()
	assert.True(t, day.Equal(r.Value(0).Time()), "got %v", r.Value(0).Time())
	assert.True(t, ts.Equal(r.Value(1).Time()), "got %v", r.Value(1).Time())
	assert.Equal(t, tod, r.Value(2).TimeOfDay())
}

func TestSQLiteIntegration_Errors(t *testing.T) {
	conn := connectSQLite(t)
	ctx := context.Background()

	stmt := query.InsertInto(foo).Set(foo.C("text_nn_d").Set("dup"))
	_, err := conn.Exec(ctx, stmt)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, stmt)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsConstraint(err))

	var cerr *connector.Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "2067", cerr.Code)

	_, err = conn.Query(ctx, query.Select(foo.C("id")).From(foo).ForUpdate())
	assert.ErrorIs(t, err, compile.ErrUnsupported)

	p, err := conn.Prepare(ctx, query.InsertInto(foo).Set(foo.C("u_int_n").Set(query.Parameter(foo.C("u_int_n")))))
	require.NoError(t, err)
	defer p.Close()
	_, err = p.Exec(ctx, map[string]any{"u_int_n": uint64(math.MaxUint64)})
	assert.ErrorIs(t, err, compile.ErrParamType)
}

func TestSQLiteIntegration_Transaction(t *testing.T) {
	conn := connectSQLite(t)
	ctx := context.Background()

	tx, err := conn.BeginTx(ctx, nil)
	require.NoError(t, err)
	_, err = tx.Exec(ctx, query.InsertInto(foo).Set(foo.C("text_nn_d").Set("rolled back")))
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	n, err := conn.Run(ctx, query.Select(foo.C("id")).From(foo), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
