//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query"
)

// connectPostgres opens TYPEDSQL_TEST_POSTGRES_URL or skips the test.
func connectPostgres(t *testing.T) *connector.Conn {
	t.Helper()
	dsn := os.Getenv("TYPEDSQL_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("PostgreSQL unavailable: TYPEDSQL_TEST_POSTGRES_URL is not set")
	}
	conn, err := Open(context.Background(), dsn, connector.Pool{MaxOpenConns: 2}, connector.WithStatementCache())
	if err != nil {
		t.Skipf("PostgreSQL unavailable: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestPostgresIntegration_RoundTrip(t *testing.T) {
	conn := connectPostgres(t)
	ctx := context.Background()

	_, err := conn.DB().ExecContext(ctx, `DROP TABLE IF EXISTS typedsql_items`)
	require.NoError(t, err)
	_, err = conn.DB().ExecContext(ctx, `
		CREATE TABLE typedsql_items (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			price DOUBLE PRECISION
		)`)
	require.NoError(t, err)
	t.Cleanup(func() { conn.DB().Exec(`DROP TABLE IF EXISTS typedsql_items`) })

	items := query.NewTable("typedsql_items",
		query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
		query.ColumnSpec{Name: "name", Type: query.Text},
		query.ColumnSpec{Name: "price", Type: query.FloatingPoint, Nullable: true},
	)
	name, price := items.C("name"), items.C("price")

	insert, err := conn.Prepare(ctx, query.InsertInto(items).
		Set(name.Set(query.Parameter(name)), price.Set(query.Parameter(price))).
		Returning(items.C("id")))
	require.NoError(t, err)
	defer insert.Close()

	rows, err := insert.Query(ctx, map[string]any{"name": "tea", "price": 2.5})
	require.NoError(t, err)
	require.True(t, rows.Next())
	assert.Positive(t, rows.Row().Value(0).Int64())
	require.NoError(t, rows.Close())

	_, err = insert.Exec(ctx, map[string]any{"name": "tea", "price": nil})
	assert.True(t, IsUniqueViolation(err))

	sel, err := conn.Query(ctx, query.Select(name, price).From(items).Where(name.Eq("tea")))
	require.NoError(t, err)
	defer sel.Close()
	require.True(t, sel.Next())
	assert.Equal(t, "tea", sel.Row().Value(0).String())
	assert.Equal(t, 2.5, sel.Row().Value(1).Float64())
}
