package connector

import (
	"database/sql"

	"github.com/shipq/typedsql/query"
)

// Rows iterates over the result rows of a query.
//
//	rows, err := conn.Query(ctx, stmt)
//	if err != nil { ... }
//	defer rows.Close()
//	for rows.Next() {
//		row := rows.Row()
//		...
//	}
//	if err := rows.Err(); err != nil { ... }
type Rows struct {
	conn    *Conn
	rows    *sql.Rows
	sql     string
	fields  []query.Field
	index   map[string]int
	scratch []any
	row     Row
	err     error
}

func newRows(c *Conn, rows *sql.Rows, sql string, fields []query.Field) *Rows {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if _, ok := index[f.Name]; !ok {
			index[f.Name] = i
		}
	}
	return &Rows{
		conn:    c,
		rows:    rows,
		sql:     sql,
		fields:  fields,
		index:   index,
		scratch: make([]any, len(fields)),
	}
}

// Fields describes the columns of every row.
func (r *Rows) Fields() []query.Field { return r.fields }

// Next advances to the next row. It returns false at the end of the result
// or on error; check Err afterwards.
func (r *Rows) Next() bool {
	if r.err != nil || !r.rows.Next() {
		return false
	}

	dest := make([]any, len(r.scratch))
	for i := range r.scratch {
		r.scratch[i] = nil
		dest[i] = &r.scratch[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		r.err = r.conn.wrap("scan", r.sql, err)
		return false
	}

	values := make([]Value, len(r.fields))
	for i, f := range r.fields {
		v, err := convertValue(f, r.scratch[i])
		if err != nil {
			r.err = &Error{Op: "scan", SQL: r.sql, Err: err}
			return false
		}
		values[i] = v
	}
	r.row = Row{index: r.index, values: values}
	return true
}

// Row returns the current row.
func (r *Rows) Row() Row { return r.row }

// Err returns the error that stopped the iteration.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.conn.wrap("query", r.sql, r.rows.Err())
}

func (r *Rows) Close() error { return r.rows.Close() }

// Row is one result row.
type Row struct {
	index  map[string]int
	values []Value
}

// Len returns the number of values.
func (r Row) Len() int { return len(r.values) }

// Value returns the i-th value.
func (r Row) Value(i int) Value { return r.values[i] }

// ValueOf returns the value of the field called name.
func (r Row) ValueOf(name string) (Value, bool) {
	i, ok := r.index[name]
	if !ok {
		return Value{}, false
	}
	return r.values[i], true
}

// Values returns every value of the row in field order.
func (r Row) Values() []Value { return r.values }
