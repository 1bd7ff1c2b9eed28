package cli

import (
	"fmt"
	"io"
	"os"
)

// Printer writes user-facing result lines. Results go to stdout and
// failures to stderr, keeping both apart from the log stream.
type Printer struct {
	Out io.Writer
	Err io.Writer
}

// NewPrinter returns a printer bound to the process streams.
func NewPrinter() *Printer {
	return &Printer{Out: os.Stdout, Err: os.Stderr}
}

// Successf prints a checked result line.
func (p *Printer) Successf(format string, args ...any) {
	fmt.Fprintf(p.Out, "✓ "+format+"\n", args...)
}

// Failf prints a failure line to the error stream.
func (p *Printer) Failf(format string, args ...any) {
	fmt.Fprintf(p.Err, "✗ "+format+"\n", args...)
}

// Notef prints an indented informational line.
func (p *Printer) Notef(format string, args ...any) {
	fmt.Fprintf(p.Out, "  "+format+"\n", args...)
}
