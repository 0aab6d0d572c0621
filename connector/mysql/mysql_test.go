package mysql

import (
	"errors"
	"fmt"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
	"github.com/shipq/typedsql/query/querytest"
)

func TestErrorCode(t *testing.T) {
	myErr := &gomysql.MySQLError{Number: ErDupEntry, Message: "Duplicate entry 'tea' for key 'name'"}
	wrapped := fmt.Errorf("insert: %w", myErr)

	code, msg, ok := ErrorCode(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "1062", code)
	assert.Equal(t, myErr.Message, msg)
	assert.True(t, IsDuplicateEntry(wrapped))

	_, _, ok = ErrorCode(errors.New("bad connection"))
	assert.False(t, ok)
	assert.False(t, IsDuplicateEntry(&gomysql.MySQLError{Number: ErLockDeadlock}))
}

func TestDriver(t *testing.T) {
	d := Driver()
	assert.Equal(t, "mysql", d.Name)

	bar := querytest.TabBar
	res, err := compile.NewCompiler(d.Context).Compile(query.Select(bar.C("id")).From(bar).Where(bar.C("text_n").IsNotDistinctFrom(query.Parameter(bar.C("text_n")))))
	require.NoError(t, err)
	assert.Equal(t, "SELECT `tab_bar`.`id` FROM `tab_bar` WHERE `tab_bar`.`text_n` <=> ?", res.SQL)
}

func TestOpen_BadDSN(t *testing.T) {
	_, err := Open(t.Context(), "not a dsn", connector.Pool{})
	assert.Error(t, err)
}
