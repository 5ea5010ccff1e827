// Package report prints operator-facing progress lines to the terminal.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	stepColor    = color.New(color.FgMagenta)
	titleColor   = color.New(color.FgBlue, color.Bold)
	debugColor   = color.New(color.FgHiBlack)

	// Bold and Green are used to build multi-line summary blocks.
	Bold  = color.New(color.Bold).SprintFunc()
	Green = color.New(color.FgGreen).SprintFunc()
	Cyan  = color.New(color.FgCyan).SprintFunc()
	Blue  = color.New(color.FgBlue).SprintFunc()
)

// Reporter writes prefixed, coloured status lines.
type Reporter struct {
	out     io.Writer
	verbose bool
}

// New returns a Reporter writing to out. A nil out writes to os.Stdout.
func New(out io.Writer, verbose bool) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out, verbose: verbose}
}

func (r *Reporter) line(c *color.Color, symbol, format string, args ...any) {
	_, _ = c.Fprintf(r.out, "%s %s", symbol, fmt.Sprintf(format, args...))
	_, _ = fmt.Fprintln(r.out)
}

func (r *Reporter) Info(format string, args ...any)    { r.line(infoColor, "ℹ", format, args...) }
func (r *Reporter) Success(format string, args ...any) { r.line(successColor, "✓", format, args...) }
func (r *Reporter) Warning(format string, args ...any) { r.line(warningColor, "⚠", format, args...) }
func (r *Reporter) Error(format string, args ...any)   { r.line(errorColor, "✗", format, args...) }
func (r *Reporter) Step(format string, args ...any)    { r.line(stepColor, "→", format, args...) }

// Title prints a section heading surrounded by blank lines.
func (r *Reporter) Title(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = titleColor.Fprintf(r.out, format, args...)
	_, _ = fmt.Fprint(r.out, "\n\n")
}

// Plain prints an uncoloured line.
func (r *Reporter) Plain(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format, args...)
	_, _ = fmt.Fprintln(r.out)
}

// Debug prints only when verbose output was requested.
func (r *Reporter) Debug(format string, args ...any) {
	if !r.verbose {
		return
	}
	r.line(debugColor, "·", format, args...)
}
