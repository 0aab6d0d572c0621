// Command typedsql lints schema declarations, renders the SQL of their
// standard statements and checks database connectivity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/shipq/typedsql/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:])
	stop()
	if err != nil {
		os.Exit(1)
	}
}
