package cmd

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"pseint2js/transpiler"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorDim    = "\033[2m"
	colorReset  = "\033[0m"
)

// reporter prints diagnostics as "name:line: category: message".
type reporter struct {
	w     io.Writer
	name  string
	color bool
}

// newReporter enables color only when w is a terminal and neither
// --no-color nor NO_COLOR ask otherwise.
func newReporter(w io.Writer, name string, noColor bool) *reporter {
	color := false
	if f, ok := w.(*os.File); ok && !noColor && os.Getenv("NO_COLOR") == "" {
		color = term.IsTerminal(int(f.Fd()))
	}
	return &reporter{w: w, name: name, color: color}
}

func (r *reporter) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

func (r *reporter) report(res *transpiler.Result) {
	for _, d := range res.Details {
		loc := r.name
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", r.name, d.Line)
		}
		code := colorYellow
		if d.IsError() {
			code = colorRed
		}
		fmt.Fprintf(r.w, "%s: %s: %s\n", loc, r.paint(code, string(d.Category)), d.Message)
		if d.Suggestion != "" {
			fmt.Fprintf(r.w, "  %s\n", r.paint(colorDim, "sugerencia: "+d.Suggestion))
		}
	}
}

func (r *reporter) summary(res *transpiler.Result) {
	status := r.paint(colorGreen, "ok")
	if !res.Success {
		status = r.paint(colorRed, "error")
	}
	fmt.Fprintf(r.w, "%s: %s, %d errores, %d advertencias\n", r.name, status, len(res.Errors), len(res.Warnings))
}
