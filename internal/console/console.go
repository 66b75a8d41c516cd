// Package console prints operator-facing status lines in color. It is the
// human channel; diagnostics go through the logging package instead.
package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes colored status lines to an output stream.
type Printer struct {
	out io.Writer

	info    *color.Color
	success *color.Color
	warn    *color.Color
	fail    *color.Color
	bold    *color.Color
}

// New returns a Printer writing to out. Color is disabled when noColor is set
// or when fatih/color detects a non-terminal or NO_COLOR.
func New(out io.Writer, noColor bool) *Printer {
	p := &Printer{
		out:     out,
		info:    color.New(color.FgBlue),
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgRed),
		bold:    color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.info, p.success, p.warn, p.fail, p.bold} {
			c.DisableColor()
		}
	}
	return p
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer { return p.out }

// Info prints a progress line.
func (p *Printer) Info(format string, args ...any) { p.line(p.info, format, args...) }

// Success prints a completion line.
func (p *Printer) Success(format string, args ...any) { p.line(p.success, format, args...) }

// Warn prints a non-fatal problem.
func (p *Printer) Warn(format string, args ...any) { p.line(p.warn, format, args...) }

// Error prints a fatal problem.
func (p *Printer) Error(format string, args ...any) { p.line(p.fail, format, args...) }

// Bold prints a heading.
func (p *Printer) Bold(format string, args ...any) { p.line(p.bold, format, args...) }

// Plain prints an uncolored line.
func (p *Printer) Plain(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func (p *Printer) line(c *color.Color, format string, args ...any) {
	c.Fprintf(p.out, format, args...)
	fmt.Fprintln(p.out)
}
