package schema

import (
	"fmt"
	"strings"

	"github.com/shipq/typedsql/query/compile"
)

// Problem is one issue found by Lint.
type Problem struct {
	Table   string
	Column  string
	Line    int
	Message string
}

func (p Problem) Error() string {
	var b strings.Builder
	if p.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", p.Line)
	}
	switch {
	case p.Column != "":
		fmt.Fprintf(&b, "%s.%s: ", p.Table, p.Column)
	case p.Table != "":
		fmt.Fprintf(&b, "%s: ", p.Table)
	}
	b.WriteString(p.Message)
	return b.String()
}

// Lint reports every problem in f, in file order.
func (f *File) Lint() []Problem {
	var problems []Problem
	report := func(table, column string, line int, format string, args ...any) {
		problems = append(problems, Problem{
			Table:   table,
			Column:  column,
			Line:    line,
			Message: fmt.Sprintf(format, args...),
		})
	}

	if len(f.Tables) == 0 {
		report("", "", 0, "no tables declared")
	}

	tables := make(map[string]int)
	for _, t := range f.Tables {
		if t.Name == "" && t.Model == "" {
			report("", "", t.Line, "table needs a name or a model")
			continue
		}
		name := t.TableName()
		if err := compile.ValidateIdentifier(name); err != nil {
			report(name, "", t.Line, "%v", err)
		}
		key := strings.ToLower(name)
		if prev, ok := tables[key]; ok {
			report(name, "", t.Line, "duplicate table, first declared on line %d", prev)
		} else {
			tables[key] = t.Line
		}
		if len(t.Columns) == 0 {
			report(name, "", t.Line, "table has no columns")
		}

		columns := make(map[string]int)
		for _, c := range t.Columns {
			if c.Name == "" {
				report(name, "", c.Line, "column needs a name")
				continue
			}
			if err := compile.ValidateIdentifier(c.Name); err != nil {
				report(name, c.Name, c.Line, "%v", err)
			}
			ckey := strings.ToLower(c.Name)
			if prev, ok := columns[ckey]; ok {
				report(name, c.Name, c.Line, "duplicate column, first declared on line %d", prev)
			} else {
				columns[ckey] = c.Line
			}
			if c.Type == "" {
				report(name, c.Name, c.Line, "column needs a type")
			} else if _, err := ParseType(c.Type); err != nil {
				report(name, c.Name, c.Line, "%v", err)
			}
			if c.TrivialNull && !c.Nullable {
				report(name, c.Name, c.Line, "trivial_null requires nullable")
			}
		}
	}
	return problems
}
