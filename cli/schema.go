package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shipq/typedsql/schema"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Work with schema declarations",
	}
	cmd.AddCommand(newSchemaLintCmd())
	return cmd
}

func newSchemaLintCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "lint [file]",
		Short: "Check a schema file for problems",
		Long: `Check table and column declarations: identifiers, duplicates, column
types and nullability flags. The file defaults to schema.path from the config.`,
		Example: `  typedsql schema lint schema.yaml
  typedsql schema lint --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := envFrom(cmd.Context())
			path := e.cfg.Schema.Path
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no schema file given")
			}
			p := NewPrinter(cmd)

			if !watch {
				f, err := schema.Load(path)
				if err != nil {
					return err
				}
				if reportLint(p, path, f) > 0 {
					return ErrReported
				}
				return nil
			}

			e.logger.Info("watching schema", "file", path)
			return schema.Watch(cmd.Context(), path, func(f *schema.File, err error) {
				if err != nil {
					p.Errorf("%v", err)
					return
				}
				reportLint(p, path, f)
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "lint again whenever the file changes")
	return cmd
}

// reportLint prints the problems of f and returns how many there were.
func reportLint(p Printer, path string, f *schema.File) int {
	problems := f.Lint()
	for _, problem := range problems {
		p.Errorf("%s: %v", path, problem)
	}
	if len(problems) == 0 {
		columns := 0
		for _, t := range f.Tables {
			columns += len(t.Columns)
		}
		p.Successf("%s: %d tables, %d columns", path, len(f.Tables), columns)
	}
	return len(problems)
}
