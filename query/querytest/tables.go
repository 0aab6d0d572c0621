// Package querytest declares the tables shared by the statement tests.
package querytest

import "github.com/shipq/typedsql/query"

// TabFoo mixes nullable columns of every numeric kind with a text column
// that has a default.
var TabFoo = query.NewTable("tab_foo",
	query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
	query.ColumnSpec{Name: "text_nn_d", Type: query.Text, HasDefault: true},
	query.ColumnSpec{Name: "int_n", Type: query.Integral, Nullable: true},
	query.ColumnSpec{Name: "double_n", Type: query.FloatingPoint, Nullable: true},
	query.ColumnSpec{Name: "u_int_n", Type: query.UnsignedIntegral, Nullable: true},
	query.ColumnSpec{Name: "blob_n", Type: query.Blob, Nullable: true},
	query.ColumnSpec{Name: "bool_n", Type: query.Boolean, Nullable: true},
)

// TabBar has one required column, bool_nn.
var TabBar = query.NewTable("tab_bar",
	query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
	query.ColumnSpec{Name: "text_n", Type: query.Text, Nullable: true},
	query.ColumnSpec{Name: "bool_nn", Type: query.Boolean},
	query.ColumnSpec{Name: "int_n", Type: query.Integral, Nullable: true},
)

// TabDateTime holds one nullable column per temporal kind.
var TabDateTime = query.NewTable("tab_date_time",
	query.ColumnSpec{Name: "id", Type: query.Integral, HasDefault: true},
	query.ColumnSpec{Name: "date_n", Type: query.Date, Nullable: true},
	query.ColumnSpec{Name: "timestamp_n", Type: query.Timestamp, Nullable: true},
	query.ColumnSpec{Name: "time_of_day_n", Type: query.TimeOfDay, Nullable: true},
)
