package drivers

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/config"
	"github.com/shipq/typedsql/dburl"
	"github.com/shipq/typedsql/logging"
	"github.com/shipq/typedsql/query"
)

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name string
		db   config.DatabaseConfig
		want error
	}{
		{"no url", config.DatabaseConfig{}, ErrNoURL},
		{"unknown scheme", config.DatabaseConfig{URL: "oracle://db/x"}, dburl.ErrUnknownDialect},
		{"mismatch", config.DatabaseConfig{URL: "sqlite:x.db", Dialect: "postgres"}, ErrDialectMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(context.Background(), &config.Config{Database: tt.db}, logging.Discard())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDriver(t *testing.T) {
	for _, d := range config.ValidDialects {
		drv, err := Driver(d)
		require.NoError(t, err)
		assert.Equal(t, d, drv.Name)
		assert.Equal(t, d, drv.Context.Dialect.Name())
	}

	_, err := Driver("standard")
	assert.ErrorIs(t, err, dburl.ErrUnknownDialect)
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")
	cfg := &config.Config{
		Database:   config.DatabaseConfig{URL: dburl.BuildSQLiteURL(path), MaxOpenConns: 1},
		Statements: config.StatementsConfig{Cache: true},
	}

	conn, err := Open(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, "sqlite", conn.Driver().Name)

	rows, err := conn.Query(context.Background(), query.Select(query.As(query.Literal(1), "one")))
	require.NoError(t, err)
	defer rows.Close()
	require.True(t, rows.Next())
	assert.Equal(t, int64(1), rows.Row().Value(0).Int64())
}
