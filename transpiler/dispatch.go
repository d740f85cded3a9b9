package transpiler

import (
	"fmt"

	"pseint2js/scanner"
)

// srcLine is a trimmed, non-blank line of pseudocode.
type srcLine struct {
	num   int    // 1-based line number in the original text
	text  string // trimmed original text
	code  string // text without trailing comment or ';'
	lower string // lower-cased code, for keyword matching
}

// LineResult is the converted text of one line, already indented, and the
// nesting depth to use for the next line.
type LineResult struct {
	Code  string
	Depth int
}

// lineContext is the state a conversion pass shares with the per-line
// dispatcher.
type lineContext struct {
	scope *Scope
	diag  *diagnostics
	opts  Options
}

type lineHandler struct {
	name    string
	match   func(l srcLine) bool
	convert func(cx *lineContext, l srcLine, depth int) LineResult
}

// lineHandlers is the recognition order of the dispatcher; the first match
// wins. Lines matching nothing fall back to an inert comment.
var lineHandlers = []lineHandler{
	{"declaration", keyword("definir"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return statement(ConvertDeclaration(l.code, cx.scope), depth)
	}},
	{"dimension", keyword("dimension"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return statement(ConvertArrayDeclaration(l.code, cx.scope), depth)
	}},
	{"input", keyword("leer"), func(cx *lineContext, l srcLine, depth int) LineResult {
		cx.diag.warn(l.num, l.text, "Línea %d: 'Leer' convertido a prompt()", l.num)
		return LineResult{Code: ConvertInput(l.code, depth, cx.scope), Depth: depth}
	}},
	{"output", keyword("escribir", "imprimir", "mostrar"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return statement(ConvertOutput(l.code), depth)
	}},
	{"if", keyword("si"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.open(BlockIf, l, ConvertIf(l.code), depth)
	}},
	{"else", exact("sino"), func(cx *lineContext, l srcLine, depth int) LineResult {
		if b, ok := cx.scope.top(); !ok || b.kind != BlockIf {
			cx.blockProblem(l.num, l.text, fmt.Sprintf("Línea %d: 'Sino' fuera de un bloque 'Si'", l.num))
		}
		outer := max(0, depth-1)
		return LineResult{Code: Indent(outer) + "} else {\n", Depth: outer + 1}
	}},
	{"endif", closer("finsi"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.close(BlockIf, l, "}", depth)
	}},
	{"while", keyword("mientras"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.open(BlockWhile, l, ConvertWhile(l.code), depth)
	}},
	{"endwhile", closer("finmientras"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.close(BlockWhile, l, "}", depth)
	}},
	{"for", keyword("para"), func(cx *lineContext, l srcLine, depth int) LineResult {
		code, ok := ConvertFor(l.code, cx.scope)
		if !ok {
			cx.diag.warn(l.num, l.text, "Línea %d: Estructura Para requiere revisión manual", l.num)
			// A bare block keeps the brace of the matching FinPara balanced.
			code += "\n" + Indent(depth) + "{"
		}
		return cx.open(BlockFor, l, code, depth)
	}},
	{"endfor", closer("finpara"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.close(BlockFor, l, "}", depth)
	}},
	{"repeat", exact("repetir"), func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.open(BlockRepeat, l, "do {", depth)
	}},
	{"until", func(l srcLine) bool { return hastaQueRe.MatchString(l.lower) }, func(cx *lineContext, l srcLine, depth int) LineResult {
		return cx.close(BlockRepeat, l, ConvertUntil(l.code), depth)
	}},
	{"assignment", func(l srcLine) bool { return scanner.IndexCode(l.code, "<-") >= 0 }, func(cx *lineContext, l srcLine, depth int) LineResult {
		return statement(ConvertAssignment(l.code, cx.scope), depth)
	}},
	{"call", func(l srcLine) bool { return callRe.MatchString(l.code) }, func(cx *lineContext, l srcLine, depth int) LineResult {
		return statement(ConvertCall(l.code), depth)
	}},
}

func keyword(kws ...string) func(srcLine) bool {
	return func(l srcLine) bool {
		for _, kw := range kws {
			if hasKeyword(l.lower, kw) {
				return true
			}
		}
		return false
	}
}

func exact(word string) func(srcLine) bool {
	return func(l srcLine) bool { return l.lower == word }
}

func closer(name string) func(srcLine) bool {
	return func(l srcLine) bool { return closerName(l.lower) == name }
}

// convertLine dispatches one line. Lines no handler recognizes are kept
// as comments and reported. A line ending inside a string literal is
// reported too, but still converted.
func (cx *lineContext) convertLine(l srcLine, depth int) LineResult {
	if scanner.Unclosed(l.code) {
		cx.diag.warn(l.num, l.text, "Línea %d: cadena de texto sin cerrar", l.num)
	}
	for _, h := range lineHandlers {
		if h.match(l) {
			return h.convert(cx, l, depth)
		}
	}
	cx.diag.warn(l.num, l.text, "Línea %d: \"%s\" - requiere revisión manual", l.num, l.text)
	return LineResult{Code: Indent(depth) + "// " + l.text + "\n", Depth: depth}
}

// statement renders a single-line statement at depth. Empty statements
// still produce a line so output lines stay predictable.
func statement(code string, depth int) LineResult {
	if code == "" {
		return LineResult{Code: "\n", Depth: depth}
	}
	return LineResult{Code: Indent(depth) + code + "\n", Depth: depth}
}

func (cx *lineContext) open(kind BlockKind, l srcLine, code string, depth int) LineResult {
	cx.scope.push(kind, l.num)
	return LineResult{Code: Indent(depth) + code + "\n", Depth: depth + 1}
}

// close pops the innermost block. The depth always drops by one; a closer
// that does not match the open block is reported but still honored.
func (cx *lineContext) close(kind BlockKind, l srcLine, code string, depth int) LineResult {
	b, ok := cx.scope.pop()
	switch {
	case !ok:
		cx.blockProblem(l.num, l.text, fmt.Sprintf("Línea %d: '%s' sin bloque abierto", l.num, l.text))
	case b.kind != kind:
		cx.blockProblem(l.num, l.text, fmt.Sprintf("Línea %d: '%s' no corresponde con el bloque '%s' abierto en la línea %d", l.num, l.text, b.kind, b.line))
	}
	outer := max(0, depth-1)
	return LineResult{Code: Indent(outer) + code + "\n", Depth: outer}
}

// blockProblem records a nesting problem: a warning by default, a syntax
// error in strict mode.
func (cx *lineContext) blockProblem(line int, code, msg string) {
	if cx.opts.Strict {
		cx.diag.fail(CategorySyntax, line, code, msg, "Cierra cada bloque con su terminador, en orden inverso al de apertura")
		return
	}
	cx.diag.warn(line, code, "%s", msg)
}
