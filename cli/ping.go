package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shipq/typedsql/connector"
	"github.com/shipq/typedsql/connector/drivers"
	"github.com/shipq/typedsql/query"
)

func newPingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured database is reachable",
		Long: `Connect with database.url and run SELECT 1 through the connector of its
dialect.`,
		Example: `  typedsql ping --database-url postgres://localhost/app
  TYPEDSQL_DATABASE_URL=sqlite:app.db typedsql ping`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e := envFrom(cmd.Context())
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			start := time.Now()
			conn, err := drivers.Open(ctx, e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			var one int64
			n, err := conn.Run(ctx, query.Select(query.As(query.Literal(1), "one")), func(r connector.Row) error {
				one = r.Value(0).Int64()
				return nil
			})
			if err != nil {
				return err
			}
			if n != 1 || one != 1 {
				return fmt.Errorf("unexpected result from SELECT 1: %d rows, value %d", n, one)
			}

			NewPrinter(cmd).Successf("%s database reachable in %s", conn.Driver().Name, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "give up after this long")
	return cmd
}
