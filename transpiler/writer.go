package transpiler

import (
	"fmt"
	"strings"
)

// codeWriter manages indented JavaScript output for a conversion pass.
// Its indentation level doubles as the nesting depth of the pass.
type codeWriter struct {
	sb     strings.Builder
	indent int
}

// Linef writes an indented, formatted line with a trailing newline appended.
func (w *codeWriter) Linef(format string, args ...any) {
	w.sb.WriteString(Indent(w.indent))
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// Raw writes unindented text directly to the buffer.
func (w *codeWriter) Raw(s string) {
	w.sb.WriteString(s)
}

// Depth returns the current indentation level.
func (w *codeWriter) Depth() int { return w.indent }

// SetDepth sets the indentation level, clamping at zero.
func (w *codeWriter) SetDepth(d int) { w.indent = max(0, d) }

// Dedent decreases the indentation level, never below zero.
func (w *codeWriter) Dedent() { w.SetDepth(w.indent - 1) }

// String returns the accumulated output.
func (w *codeWriter) String() string { return w.sb.String() }
