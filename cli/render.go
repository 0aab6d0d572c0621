package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipq/typedsql/dbstrings"
	"github.com/shipq/typedsql/query"
	"github.com/shipq/typedsql/query/compile"
	"github.com/shipq/typedsql/schema"
)

type namedStmt struct {
	name string
	stmt query.Statement
}

// Rendered is one statement generated for a table.
type Rendered struct {
	Name   string
	Result compile.Result
}

// RenderTable compiles the standard statements for t: select all, insert,
// and, when t has an id column, get, update and delete by id.
func RenderTable(ctx *compile.Context, t query.Table) ([]Rendered, error) {
	var id query.Column
	var hasID bool
	var settable []query.Expr
	for _, e := range t.All().Columns {
		c := e.(query.Column)
		if c.Name() == "id" {
			id, hasID = c, true
			continue
		}
		settable = append(settable, c.Set(query.Parameter(c)))
	}

	insert := query.InsertInto(t)
	if required := t.Required(); len(required) > 0 {
		sets := make([]query.Expr, len(required))
		for i, c := range required {
			sets[i] = c.Set(query.Parameter(c))
		}
		insert = insert.Set(sets...)
	} else {
		insert = insert.DefaultValues()
	}

	stmts := []namedStmt{
		{"select", query.Select(t.All()).From(t)},
		{"insert", insert},
	}
	if hasID {
		byID := id.Eq(query.Parameter(id))
		stmts = append(stmts,
			namedStmt{"get", query.Select(t.All()).From(t).Where(byID)},
			namedStmt{"delete", query.DeleteFrom(t).Where(byID)},
		)
		if len(settable) > 0 {
			stmts = append(stmts, namedStmt{"update", query.Update(t).Set(settable...).Where(byID)})
		}
	}

	compiler := compile.NewCompiler(ctx)
	out := make([]Rendered, 0, len(stmts))
	for _, s := range stmts {
		res, err := compiler.Compile(s.stmt)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", t.Name(), s.name, err)
		}
		out = append(out, Rendered{Name: s.name, Result: res})
	}
	return out, nil
}

// rowType describes the result row of a statement as Go fields.
func rowType(fields []query.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		goType := f.Type.GoType()
		if f.CanBeNull && !f.NullIsTrivial {
			goType = "*" + goType
		}
		parts[i] = dbstrings.ToPascalCase(f.Name) + " " + goType
	}
	return strings.Join(parts, ", ")
}

func paramList(params []compile.ParamSlot) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + " " + p.Type.String()
		if p.Nullable {
			parts[i] += " null"
		}
	}
	return strings.Join(parts, ", ")
}

func newRenderCmd() *cobra.Command {
	var only string

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Print the SQL generated for each table of a schema",
		Long: `Render the select, insert, get, update and delete statements of every
table in a schema file for the configured dialect. Without a dialect the
standard SQL rendering is printed.`,
		Example: `  typedsql render schema.yaml --dialect postgres
  typedsql render --table users`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())
			path := e.cfg.Schema.Path
			if len(args) > 0 {
				path = args[0]
			}

			dialectName := e.cfg.Database.Dialect
			if dialectName == "" {
				dialectName = compile.Standard.Name()
			}
			dialect, err := compile.DialectByName(dialectName)
			if err != nil {
				return err
			}

			f, err := schema.Load(path)
			if err != nil {
				return err
			}
			s, err := f.Build()
			if err != nil {
				return err
			}

			tables := s.Tables()
			if only != "" {
				t, ok := s.Table(only)
				if !ok {
					return fmt.Errorf("table %q is not declared in %s", only, path)
				}
				tables = []query.Table{t}
			}

			p := NewPrinter(cmd)
			ctx := compile.NewContext(dialect)
			for i, t := range tables {
				rendered, err := RenderTable(ctx, t)
				if err != nil {
					return err
				}
				if i > 0 {
					p.Infof("")
				}
				p.Infof("-- %s (%s)", t.Name(), s.Model(t.Name()))
				for _, r := range rendered {
					p.Infof("-- name: %s", r.Name)
					if r.Result.HasParams() {
						p.Infof("-- params: %s", paramList(r.Result.Params))
					}
					if len(r.Result.Fields) > 0 {
						p.Infof("-- row: %s", rowType(r.Result.Fields))
					}
					p.Infof("%s;", r.Result.SQL)
				}
			}
			e.logger.Debug("rendered schema", "file", path, "dialect", dialect.Name(), "tables", len(tables))
			return nil
		},
	}

	cmd.Flags().StringVar(&only, "table", "", "render only this table")
	return cmd
}
