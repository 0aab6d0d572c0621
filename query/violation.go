package query

// Violation is a named consistency rule that a statement or expression
// breaks. Violations are returned as the sentinels below, so callers can
// match them with errors.Is.
type Violation struct {
	Rule    string
	Message string
}

func (v *Violation) Error() string { return v.Message }

func violation(rule, message string) *Violation {
	return &Violation{Rule: rule, Message: message}
}

// Expression rules.
var (
	ErrComparisonOperandsAreCompatible = violation("comparison_operands_are_compatible", "comparison operands must have compatible value types")
	ErrArithmeticOperandsAreNumeric    = violation("arithmetic_operands_are_numeric", "arithmetic operands must be numeric")
	ErrBitOperandsAreIntegral          = violation("bit_operands_are_integral", "bit operands must be integral")
	ErrLikeOperandsAreText             = violation("like_operands_are_text", "like() operands must be text")
	ErrLogicalOperandsAreBoolean       = violation("logical_operands_are_boolean", "logical operands must be boolean expressions")
	ErrTextFunctionOperandIsText       = violation("text_function_operand_is_text", "text functions require text operands")
	ErrAggregateOperandHasValue        = violation("aggregate_operand_has_value", "aggregate functions require a value expression")
	ErrNoNestedAggregates              = violation("no_nested_aggregates", "aggregate functions must not be nested")
	ErrNoAliasOfAlias                  = violation("no_alias_of_alias", "an alias cannot be aliased again")
	ErrUnknownColumn                   = violation("unknown_column", "table does not have a column of this name")
	ErrSubSelectSingleColumn           = violation("sub_select_single_column", "a sub-select used as a value must have exactly one result column")
	ErrCaseWhenBooleanExpression       = violation("case_when_boolean_expression", "argument is not a boolean expression in case_when()")
	ErrCaseThenExpression              = violation("case_then_expression", "argument is not a value expression in then()")
	ErrCaseElseExpression              = violation("case_else_expression", "argument is not a value expression in else()")
	ErrCaseThenElseSameType            = violation("case_then_else_same_type", "argument of then() and else() are not of the same type")
	ErrAssignmentOperandIsValid        = violation("assignment_operand_is_valid", "assigned value does not match the value type of the column")
	ErrAssignmentNotNull               = violation("assignment_not_null", "a value that can be NULL cannot be assigned to a non-nullable column")
	ErrAssignmentHasDefault            = violation("assignment_has_default", "DEFAULT cannot be assigned to a column without default value")
	ErrClauseSetOnce                   = violation("clause_set_once", "each clause of a statement can be set only once")
	ErrLiteralTypeSupported            = violation("literal_type_supported", "the Go type of the value has no SQL literal")
)

// Join and FROM rules.
var (
	ErrPreJoinLhsTable                  = violation("pre_join_lhs_table", "lhs argument of join() has to be a table or a join")
	ErrPreJoinRhsTable                  = violation("pre_join_rhs_table", "rhs argument of join() has to be a table")
	ErrPreJoinRhsNoJoin                 = violation("pre_join_rhs_no_join", "rhs argument of join() must not be a join")
	ErrPreJoinUniqueNames               = violation("pre_join_unique_names", "joined table names have to be unique")
	ErrJoinOnBooleanExpression          = violation("join_on_boolean_expression", "on() argument has to be a boolean expression")
	ErrJoinOnNoForeignTableDependencies = violation("join_on_no_foreign_table_dependencies", "on() condition must not depend on other tables")
	ErrJoinNoTableDependencies          = violation("join_no_table_dependencies", "joined tables must not depend on other tables")
	ErrFromNotPreJoin                   = violation("from_not_pre_join", "from() argument is a pre join, please use an explicit on() condition or unconditionally()")
	ErrFromTable                        = violation("from_table", "from() argument has to be a table or join expression")
	ErrFromDependencyFree               = violation("from_dependency_free", "at least one table depends on another table in from()")
	ErrFromNoDuplicates                 = violation("from_no_duplicates", "at least one duplicate table name detected in from()")
	ErrUsingArgsAreTables               = violation("using_args_are_tables", "arguments for using() must be tables")
	ErrSingleTableProvided              = violation("single_table_provided", "this statement requires a table")
)

// Unknown table rules, one per clause.
var (
	ErrNoUnknownTables                         = violation("no_unknown_tables", "one clause requires tables which are otherwise not known in the statement")
	ErrNoUnknownCTEs                           = violation("no_unknown_ctes", "one clause requires common table expressions which are otherwise not known in the statement")
	ErrNoUnknownTablesInSelectedColumns        = violation("no_unknown_tables_in_selected_columns", "at least one selected column requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInSelectedColumns  = violation("no_unknown_static_tables_in_selected_columns", "at least one selected column statically requires a table which is otherwise not known dynamically in the statement")
	ErrNoUnknownTablesInWhere                  = violation("no_unknown_tables_in_where", "at least one expression in where() requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInWhere            = violation("no_unknown_static_tables_in_where", "at least one expression in where() statically requires a table which is only known dynamically in the statement")
	ErrNoUnknownTablesInGroupBy                = violation("no_unknown_tables_in_group_by", "at least one group-by expression requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInGroupBy          = violation("no_unknown_static_tables_in_group_by", "at least one group-by expression statically requires a table which is only known dynamically in the statement")
	ErrNoUnknownTablesInHaving                 = violation("no_unknown_tables_in_having", "at least one having-expression requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInHaving           = violation("no_unknown_static_tables_in_having", "at least one having-expression statically requires a table which is only known dynamically in the statement")
	ErrNoUnknownTablesInOrderBy                = violation("no_unknown_tables_in_order_by", "at least one order-by expression requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInOrderBy          = violation("no_unknown_static_tables_in_order_by", "at least one order-by expression statically requires a table which is only known dynamically in the statement")
	ErrNoUnknownTablesInLimit                  = violation("no_unknown_tables_in_limit", "at least one expression in limit() requires a table which is otherwise not known in the statement")
	ErrNoUnknownTablesInOffset                 = violation("no_unknown_tables_in_offset", "at least one expression in offset() requires a table which is otherwise not known in the statement")
	ErrNoUnknownTablesInInsertAssignments      = violation("no_unknown_tables_in_insert_assignments", "at least one insert assignment requires a table which is otherwise not known in the statement")
	ErrNoUnknownTablesInUpdateAssignments      = violation("no_unknown_tables_in_update_assignments", "at least one update assignment requires a table which is otherwise not known in the statement")
	ErrNoUnknownStaticTablesInUpdateAssignment = violation("no_unknown_static_tables_in_update_assignments", "at least one update assignment statically requires a table which is only known dynamically in the statement")
	ErrNoUnknownTablesInReturning              = violation("no_unknown_tables_in_returning", "at least one returned column requires a table which is otherwise not known in the statement")
)

// SELECT rules.
var (
	ErrColumnsSelected                           = violation("columns_selected", "selecting columns required")
	ErrSelectedColumnsAreSelectable              = violation("selected_colums_are_selectable", "selected columns must be selectable")
	ErrSelectColumnsAllAggregates                = violation("select_columns_all_aggregates", "without group_by, selected columns must not be a mix of aggregate and non-aggregate expressions")
	ErrSelectColumnsWithGroupByAreAggregates     = violation("select_columns_with_group_by_are_aggregates", "with group_by, selected columns must be aggregate expressions")
	ErrSelectColumnsMatchStaticAggregates        = violation("select_columns_with_group_by_match_static_aggregates", "with group_by, static parts of selected columns must match static group_by columns")
	ErrWhereArgIsBooleanExpression               = violation("where_arg_is_boolean_expression", "where() argument has to be a boolean expression.")
	ErrWhereArgContainsNoAggregateFunctions      = violation("where_arg_contains_no_aggregate_functions", "at least one aggregate function used in where()")
	ErrWhereOrUnconditionallyCalled              = violation("where_or_unconditionally_called", "calling where() or unconditionally() required")
	ErrGroupByArgsHaveValues                     = violation("group_by_args_have_values", "all arguments for group_by() must have values")
	ErrHavingBooleanExpression                   = violation("having_boolean_expression", "having() argument has to be a boolean expression.")
	ErrHavingAllAggregates                       = violation("having_all_aggregates", "having expression not built out of aggregate expressions")
	ErrHavingAllStaticAggregates                 = violation("having_all_static_aggregates", "at least one static having expression is provided dynamically only in group_by")
	ErrOrderByArgsAreSortOrderExpressions        = violation("order_by_args_are_sort_order_expressions", "arguments for order_by() must be sort order expressions")
	ErrCorrectOrderByAggregates                  = violation("correct_order_by_aggregates", "order_by (without group by) must not contain any aggregates")
	ErrCorrectOrderByAggregatesWithGroupBy       = violation("correct_order_by_aggregates_with_group_by", "order_by (with group by) must contain aggregates only")
	ErrCorrectStaticOrderByAggregatesWithGroupBy = violation("correct_static_order_by_aggregates_with_group_by", "order_by statically contains aggregates that are only dynamically defined in group_by")
	ErrLimitIsUnsignedIntegral                   = violation("limit_is_unsigned_integral", "argument for limit() must be an unsigned integral expressions")
	ErrOffsetIsUnsignedIntegral                  = violation("offset_is_unsigned_integral", "argument for offset() must be an integral expressions")
	ErrUnionResultRowsMatch                      = violation("union_result_rows_match", "both arguments in a union have to have the same result columns (type and name)")
	ErrCTEUnionRequiresNoTables                  = violation("cte_union_requires_no_tables", "right hand side of cte union is missing tables")
	ErrCTESelfContained                          = violation("cte_self_contained", "a common table expression must not depend on other tables")
	ErrWithNoDuplicates                          = violation("with_no_duplicates", "at least one duplicate common table expression name detected in with()")
)

// INSERT, UPDATE and DELETE rules.
var (
	ErrInsertValues                       = violation("insert_values", "insert values required, e.g. set(...) or default_values()")
	ErrInsertSetAssignments               = violation("insert_set_assignments", "at least one argument is not an assignment in set()")
	ErrInsertSetNoDuplicates              = violation("insert_set_no_duplicates", "at least one duplicate column detected in set()")
	ErrInsertSetSingleTable               = violation("insert_set_single_table", "set() arguments contain assignments from more than one table")
	ErrInsertStaticSetCountArgs           = violation("insert_static_set_count_args", "at least one assignment expression required in set()")
	ErrAllRequiredAssignments             = violation("all_required_assignments", "at least one required column is missing in set()")
	ErrInsertColumnsAreColumns            = violation("insert_columns_are_columns", "arguments for columns() must be table columns")
	ErrInsertColumnsNoDuplicates          = violation("insert_columns_no_duplicates", "at least one duplicate column detected in columns()")
	ErrInsertColumnsSingleTable           = violation("insert_columns_single_table", "columns() contains columns from more than one table")
	ErrAllRequiredColumns                 = violation("all_required_columns", "at least one required column is missing in columns()")
	ErrInsertValuesMatchColumns           = violation("insert_values_match_columns", "add_values() arguments have to match columns() arguments")
	ErrAllColumnsHaveDefaultValue         = violation("all_columns_have_default_value", "at least one column does not have a default value (explicit default, NULL, or auto-increment)")
	ErrUpdateAssignments                  = violation("update_assignments", "update assignments required, i.e. set(...)")
	ErrUpdateSetAssignments               = violation("update_set_assignments", "at least one argument is not an assignment in set()")
	ErrUpdateSetNoDuplicates              = violation("update_set_no_duplicates", "at least one duplicate column detected in set()")
	ErrUpdateSetSingleTable               = violation("update_set_single_table", "set() contains assignments for columns from more than one table")
	ErrUpdateSetCountArgs                 = violation("update_set_count_args", "at least one assignment expression required in set()")
	ErrOnConflictAction                   = violation("on_conflict_action", "either do_nothing() or do_update(...) is required with on_conflict")
	ErrOnConflictDoUpdateSetAssignments   = violation("on_conflict_do_update_set_assignments", "at least one argument is not an assignment in do_update()")
	ErrOnConflictDoUpdateSetCountArgs     = violation("on_conflict_do_update_set_count_args", "at least one assignment expression required in do_update()")
	ErrOnConflictDoUpdateSetNoDuplicates  = violation("on_conflict_do_update_set_no_duplicates", "at least one duplicate column detected in do_update()")
	ErrOnConflictDoUpdateSetSingleTable   = violation("on_conflict_do_update_set_single_table", "do_update() contains assignments for columns from more than one table")
	ErrOnConflictColumnsAreColumns        = violation("on_conflict_columns_are_columns", "arguments for on_conflict() must be columns of the target table")
	ErrOnConflictWhereIsBooleanExpression = violation("on_conflict_where_is_boolean_expression", "where() argument of do_update() has to be a boolean expression")
	ErrReturningColumnsAreSelectable      = violation("returning_columns_are_selectable", "returned columns must be selectable")
	ErrReturningNoAggregates              = violation("returning_no_aggregates", "returning() must not contain aggregate functions")
)
