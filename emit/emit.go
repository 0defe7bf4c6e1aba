// Package emit implements an indentation-tracking pretty-printer for
// generated source.
package emit

import (
	"log/slog"
	"strings"

	"github.com/ardnew/widgen/lang"
)

// Default layout settings.
const (
	DefaultWidth  = 79
	DefaultIndent = 4
)

// Emitter accumulates generated text.
//
// Indentation is tracked as a depth; decreasing it below zero is an internal
// invariant violation and panics with [lang.ErrIndentUnderflow]. Callers
// generating one unit of output recover the panic at the unit boundary with
// [Recover].
type Emitter struct {
	sb     strings.Builder
	width  int
	indent string
	depth  int
	col    int
}

// Option configures an [Emitter].
type Option func(*Emitter)

// WithWidth sets the column limit for wrapped calls.
func WithWidth(width int) Option {
	return func(e *Emitter) {
		if width > 0 {
			e.width = width
		}
	}
}

// WithIndent sets the number of spaces per indentation level.
func WithIndent(n int) Option {
	return func(e *Emitter) {
		if n > 0 {
			e.indent = strings.Repeat(" ", n)
		}
	}
}

// New returns an empty emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		width:  DefaultWidth,
		indent: strings.Repeat(" ", DefaultIndent),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Depth returns the current indentation depth.
func (e *Emitter) Depth() int { return e.depth }

// Column returns the column of the next character printed.
func (e *Emitter) Column() int { return e.col }

// Indent increases the indentation depth.
func (e *Emitter) Indent() { e.depth++ }

// Dedent decreases the indentation depth.
func (e *Emitter) Dedent() {
	if e.depth == 0 {
		panic(lang.ErrIndentUnderflow.With(slog.Int("depth", e.depth)))
	}

	e.depth--
}

// Print writes s on the current line, indenting first when the line is
// empty.
func (e *Emitter) Print(s string) {
	if s == "" {
		return
	}

	if e.col == 0 {
		prefix := strings.Repeat(e.indent, e.depth)
		e.sb.WriteString(prefix)
		e.col = len(prefix)
	}

	e.sb.WriteString(s)
	e.col += len(s)
}

// Newline ends the current line.
func (e *Emitter) Newline() {
	e.sb.WriteByte('\n')
	e.col = 0
}

// Line prints s followed by a newline. An empty s emits a blank line without
// trailing whitespace.
func (e *Emitter) Line(s string) {
	e.Print(s)
	e.Newline()
}

// Block prints a multi-line snippet with its common leading whitespace
// removed, re-indented at the current depth. Leading and trailing blank lines
// are dropped; interior blank lines are kept empty.
func (e *Emitter) Block(text string) {
	lines := strings.Split(strings.ReplaceAll(text, "\t", e.indent), "\n")

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	margin := -1

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		n := len(line) - len(strings.TrimLeft(line, " "))
		if margin < 0 || n < margin {
			margin = n
		}
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			e.Newline()

			continue
		}

		e.Line(strings.TrimRight(line[margin:], " "))
	}
}

// Call prints head, then args separated by ", ", then tail, and ends the
// line. head normally ends with the opening delimiter, e.g. "draw_x(".
//
// An argument whose text would extend past the width starts a new line
// aligned with the column just after head. The first argument always
// follows head, and an argument is never split, so a single argument wider
// than the limit still overflows.
func (e *Emitter) Call(head string, args []string, tail string) {
	e.Print(head)

	align := e.col
	last := len(args) - 1

	for i, arg := range args {
		piece := arg
		if i < last {
			piece += ","
		} else {
			piece += tail
		}

		switch {
		case i == 0:
			e.Print(piece)

		case e.col+1+len(piece) > e.width:
			e.Newline()
			e.sb.WriteString(strings.Repeat(" ", align))
			e.col = align
			e.sb.WriteString(piece)
			e.col += len(piece)

		default:
			e.Print(" " + piece)
		}
	}

	if len(args) == 0 {
		e.Print(tail)
	}

	e.Newline()
}

// String returns the accumulated text.
func (e *Emitter) String() string { return e.sb.String() }

// Len returns the number of bytes accumulated.
func (e *Emitter) Len() int { return e.sb.Len() }

// Recover converts an indentation underflow panic into an error stored in
// *err. Other panics are re-raised. It must be deferred directly.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}

	if e, ok := r.(*lang.Error); ok && e.Is(lang.ErrIndentUnderflow) {
		*err = e

		return
	}

	panic(r)
}
