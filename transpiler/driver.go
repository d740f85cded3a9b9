package transpiler

import (
	"fmt"
	"strings"

	"pseint2js/scanner"
)

const defaultMainName = "programa"

// splitLines trims every line and drops blank ones. Each kept line
// remembers its position in src.
func splitLines(src string) []srcLine {
	var lines []srcLine
	for i, raw := range strings.Split(src, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		code := text
		if idx := scanner.IndexCode(code, "//"); idx > 0 {
			code = strings.TrimSpace(code[:idx])
		}
		code = strings.TrimSpace(strings.TrimSuffix(code, ";"))
		lines = append(lines, srcLine{
			num:   i + 1,
			text:  text,
			code:  code,
			lower: strings.ToLower(code),
		})
	}
	return lines
}

func isComment(l srcLine) bool { return strings.HasPrefix(l.text, "//") }

func isProgramStart(l srcLine) bool {
	return !isComment(l) && (hasKeyword(l.lower, "algoritmo") || hasKeyword(l.lower, "proceso"))
}

func isProgramEnd(l srcLine) bool {
	name := closerName(l.lower)
	return name == "finalgoritmo" || name == "finproceso"
}

func isFunctionStart(l srcLine) bool {
	return hasKeyword(l.lower, "funcion") || hasKeyword(l.lower, "función") || hasKeyword(l.lower, "subproceso")
}

func isFunctionEnd(l srcLine) bool {
	name := closerName(l.lower)
	return name == "finfuncion" || name == "finfunción" || name == "finsubproceso"
}

// programName extracts the routine name following the start keyword.
func programName(l srcLine) string {
	fields := strings.Fields(l.code)
	if len(fields) > 1 {
		if name := leadingIdent(fields[1]); name != "" {
			return name
		}
	}
	return defaultMainName
}

// pass is one scan over a list of lines with its own scope and output.
type pass struct {
	lineContext
	w codeWriter
}

func newPass(d *diagnostics, opts Options) *pass {
	return &pass{lineContext: lineContext{scope: NewScope(), diag: d, opts: opts}}
}

// feed converts l through the shared dispatcher at the current depth.
func (p *pass) feed(l srcLine) {
	res := p.convertLine(l, p.w.Depth())
	p.w.Raw(res.Code)
	p.w.SetDepth(res.Depth)
}

// closeBlocks reports every block still open and closes it, innermost
// first, leaving the writer at the routine body.
func (p *pass) closeBlocks() {
	for _, b := range p.scope.drain() {
		p.blockProblem(b.line, b.kind.String(), fmt.Sprintf("Línea %d: bloque '%s' sin cerrar", b.line, b.kind))
		if p.w.Depth() <= 1 {
			continue
		}
		p.w.Dedent()
		if b.kind == BlockRepeat {
			p.w.Linef("} while (false);")
		} else {
			p.w.Linef("}")
		}
	}
	for p.w.Depth() > 1 {
		p.w.Dedent()
		p.w.Linef("}")
	}
}

// closeRoutine emits the closing brace of the routine being converted.
func (p *pass) closeRoutine() {
	p.closeBlocks()
	p.w.SetDepth(0)
	p.w.Linef("}")
	p.w.Raw("\n")
}

// convertMain converts the main program, from its start marker through
// its end marker. It returns the generated text and the routine name.
func convertMain(lines []srcLine, d *diagnostics, opts Options) (string, string) {
	p := newPass(d, opts)
	name := defaultMainName
	open := false
	for _, l := range lines {
		switch {
		case isComment(l):
			p.w.Raw(l.text + "\n")
		case isProgramStart(l):
			if open {
				p.closeRoutine()
			}
			name = programName(l)
			p.scope.Reset()
			p.w.SetDepth(0)
			p.w.Linef("// Algoritmo: %s", name)
			p.w.Linef("function %s() {", name)
			p.w.SetDepth(1)
			open = true
		case isProgramEnd(l):
			p.closeRoutine()
			open = false
		default:
			p.feed(l)
		}
	}
	if open {
		// Missing end marker: close the routine so the call below still parses.
		p.closeRoutine()
	}
	return p.w.String(), name
}

// functionPass tracks the function currently being converted.
type functionPass struct {
	*pass
	inFunction bool
	converted  bool // header matched a known shape
	returnVar  string
	header     srcLine
}

// convertFunctions converts every Funcion ... FinFuncion block in lines.
// Lines outside a function are ignored.
func convertFunctions(lines []srcLine, d *diagnostics, opts Options) string {
	fp := &functionPass{pass: newPass(d, opts)}
	for _, l := range lines {
		switch {
		case isFunctionStart(l):
			if fp.inFunction {
				fp.blockProblem(fp.header.num, fp.header.text,
					fmt.Sprintf("Línea %d: la función no tiene 'FinFuncion'", fp.header.num))
				fp.end()
			}
			fp.begin(l)
		case isFunctionEnd(l):
			if !fp.inFunction {
				fp.blockProblem(l.num, l.text, fmt.Sprintf("Línea %d: '%s' sin función abierta", l.num, l.text))
				continue
			}
			fp.end()
		case !fp.inFunction:
			continue
		case isComment(l):
			fp.w.Raw(l.text + "\n")
		default:
			fp.feed(l)
		}
	}
	if fp.inFunction {
		fp.blockProblem(fp.header.num, fp.header.text,
			fmt.Sprintf("Línea %d: la función no tiene 'FinFuncion'", fp.header.num))
		fp.end()
	}
	return fp.w.String()
}

func (fp *functionPass) begin(l srcLine) {
	code, h, ok := ConvertFunctionHeader(l.code)
	if !ok {
		fp.diag.warn(l.num, l.text, "Función en línea %d: No se pudo convertir completamente", l.num)
	}
	fp.scope.Reset()
	for _, param := range h.Params {
		fp.scope.Declare(param)
	}
	if h.ReturnVar != "" {
		fp.scope.Declare(h.ReturnVar)
	}
	fp.w.SetDepth(0)
	fp.w.Linef("%s", code)
	fp.w.SetDepth(1)
	fp.inFunction = true
	fp.converted = ok
	fp.returnVar = h.ReturnVar
	fp.header = l
}

// end closes the current function, returning its result variable.
func (fp *functionPass) end() {
	fp.closeBlocks()
	if fp.returnVar != "" {
		fp.w.Linef("return %s;", fp.returnVar)
	}
	if fp.converted {
		fp.closeRoutine()
	} else {
		// The header was left as a comment, so the closer is one too.
		fp.w.SetDepth(0)
		fp.w.Linef("// FinFuncion")
		fp.w.Raw("\n")
	}
	fp.inFunction = false
	fp.converted = false
	fp.returnVar = ""
}
