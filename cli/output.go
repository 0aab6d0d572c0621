package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Printer writes user facing messages. Normal output goes to Out,
// warnings and errors to Err.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter prints to the command's output streams.
func NewPrinter(cmd *cobra.Command) Printer {
	return Printer{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()}
}

// Infof prints a formatted line to Out.
func (p Printer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Out, format+"\n", args...)
}

// Successf prints a formatted line to Out, marked with a check.
func (p Printer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Out, "✓ "+format+"\n", args...)
}

// Warnf prints a formatted warning to Err.
func (p Printer) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Err, "warning: "+format+"\n", args...)
}

// Errorf prints a formatted error to Err.
func (p Printer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.Err, "error: "+format+"\n", args...)
}
