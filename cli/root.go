// Package cli implements the typedsql command line.
package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shipq/typedsql/config"
	"github.com/shipq/typedsql/logging"
)

// Version is set at build time.
var Version = "dev"

// ErrReported is returned by commands that already printed their failure.
var ErrReported = errors.New("failed")

type envKey struct{}

// env is what PersistentPreRunE hands to the commands.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func envFrom(ctx context.Context) env {
	if e, ok := ctx.Value(envKey{}).(env); ok {
		return e
	}
	return env{cfg: &config.Config{}, logger: logging.Discard()}
}

// NewRootCmd creates the typedsql command tree.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "typedsql",
		Short: "Validate schemas and render SQL for typed queries",
		Long: `typedsql checks schema declarations, renders the SQL its query builder
produces for each dialect, and checks connectivity to a database.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}
			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logCfg := cfg.Logging()
			logCfg.Output = cmd.ErrOrStderr()
			logger, err := logging.New(logCfg)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("loaded config", "file", cfg.File)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, envKey{}, env{cfg: cfg, logger: logger}))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./typedsql.yaml or ./typedsql.ini)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newPingCmd())
	return root
}

// Execute runs the command tree with ctx and args, printing any error.
func Execute(ctx context.Context, args []string) error {
	root := NewRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, ErrReported) {
		NewPrinter(root).Errorf("%v", err)
	}
	return err
}
