package transpiler

import (
	"fmt"
	"regexp"
	"strings"

	"pseint2js/scanner"
)

var (
	siRe       = regexp.MustCompile(`(?i)^si\b\s*`)
	entoncesRe = regexp.MustCompile(`(?i)\s*\bentonces$`)
	mientrasRe = regexp.MustCompile(`(?i)^mientras\b\s*`)
	hacerRe    = regexp.MustCompile(`(?i)\s*\bhacer$`)
	hastaQueRe = regexp.MustCompile(`(?i)^hasta\s+que\b\s*`)

	paraRe = regexp.MustCompile(`(?i)^para\s+(\w+)\s*(?:<-|=)\s*(.+?)\s+hasta\s+(.+?)(?:\s+con\s+paso\s+(.+?))?\s+hacer$`)
)

// ConvertIf converts "Si cond Entonces" into an opening if block.
func ConvertIf(line string) string {
	cond := stripKeyword(entoncesRe, stripKeyword(siRe, line))
	return "if (" + ConvertCondition(cond) + ") {"
}

// ConvertWhile converts "Mientras cond Hacer" into an opening while loop.
func ConvertWhile(line string) string {
	cond := stripKeyword(hacerRe, stripKeyword(mientrasRe, line))
	return "while (" + ConvertCondition(cond) + ") {"
}

// ConvertFor converts "Para i <- a Hasta b [Con Paso s] Hacer" into a
// counted for loop with an inclusive bound. ok is false when the header
// does not match, in which case the returned text is a comment.
func ConvertFor(line string, sc *Scope) (code string, ok bool) {
	m := paraRe.FindStringSubmatch(line)
	if m == nil {
		return "// Para no convertido: " + line, false
	}
	v := m[1]
	start := ConvertExpression(strings.TrimSpace(m[2]))
	end := ConvertExpression(strings.TrimSpace(m[3]))
	step := "1"
	if s := strings.TrimSpace(m[4]); s != "" {
		step = ConvertExpression(s)
	}

	cmp := "<="
	if strings.HasPrefix(step, "-") {
		cmp = ">="
	}
	decl := ""
	if !sc.Declared(v) {
		decl = "let "
	}
	return fmt.Sprintf("for (%s%s = %s; %s %s %s; %s += %s) {", decl, v, start, v, cmp, end, v, step), true
}

// ConvertUntil converts "Hasta Que cond" into the closing of a do/while
// loop. The guard is negated: the loop repeats until cond holds.
func ConvertUntil(line string) string {
	cond := stripKeyword(hastaQueRe, line)
	return "} while (!(" + ConvertCondition(cond) + "));"
}

// FunctionHeader describes a converted "Funcion" line.
type FunctionHeader struct {
	Name      string
	Params    []string
	ReturnVar string
}

const funcKw = `(?i)^(?:funci[oó]n|subproceso)\s+`

// Header shapes, tried in order. Each maps its submatches onto
// (return variable, name, params).
var funcShapes = []struct {
	re      *regexp.Regexp
	retIdx  int
	nameIdx int
	pIdx    int
}{
	// Funcion r <- Nombre(a, b)
	{regexp.MustCompile(funcKw + `(\w+)\s+<-\s*(\w+)\s*\((.*?)\)`), 1, 2, 3},
	// Funcion Nombre(a, b) : r
	{regexp.MustCompile(funcKw + `(\w+)\s*\((.*?)\)\s*:\s*(\w+)`), 3, 1, 2},
	// Funcion r<-Nombre(a, b)
	{regexp.MustCompile(funcKw + `(\w+)<-\s*(\w+)\s*\((.*?)\)`), 1, 2, 3},
	// Funcion Nombre(a, b) or Funcion Nombre, without a return value
	{regexp.MustCompile(funcKw + `(\w+)\s*(?:\((.*?)\))?$`), 0, 1, 2},
}

var paramModeRe = regexp.MustCompile(`(?i)\s+por\s+(?:referencia|valor)$`)

// ParseFunctionHeader matches line against the supported header shapes.
func ParseFunctionHeader(line string) (FunctionHeader, bool) {
	for _, shape := range funcShapes {
		m := shape.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		h := FunctionHeader{Name: m[shape.nameIdx]}
		if shape.retIdx > 0 {
			h.ReturnVar = m[shape.retIdx]
		}
		for _, p := range scanner.SplitTopLevel(m[shape.pIdx], ',') {
			p = strings.TrimSpace(paramModeRe.ReplaceAllString(p, ""))
			if p != "" {
				h.Params = append(h.Params, p)
			}
		}
		return h, true
	}
	return FunctionHeader{}, false
}

// ConvertFunctionHeader converts a function header into the opening of a
// JavaScript function followed by the declaration of its return variable.
// When no shape matches, the result is a comment and ok is false.
func ConvertFunctionHeader(line string) (code string, h FunctionHeader, ok bool) {
	h, ok = ParseFunctionHeader(line)
	if !ok {
		return "// Función no convertida: " + line, h, false
	}
	code = fmt.Sprintf("function %s(%s) {", h.Name, strings.Join(h.Params, ", "))
	if h.ReturnVar != "" {
		code += "\n" + Indent(1) + "let " + h.ReturnVar + ";"
	}
	return code, h, true
}
