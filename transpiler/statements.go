package transpiler

import (
	"fmt"
	"regexp"
	"strings"

	"pseint2js/scanner"
)

var (
	definirRe   = regexp.MustCompile(`(?i)^definir\s*`)
	comoRe      = regexp.MustCompile(`(?i)\s+como\s+`)
	dimensionRe = regexp.MustCompile(`(?i)^dimension\s*`)
	leerRe      = regexp.MustCompile(`(?i)^leer\s*`)
	escribirRe  = regexp.MustCompile(`(?i)^(?:escribir|imprimir|mostrar)(?:\s+sin\s+(?:saltar|bajar)\b)?\s*`)
	indexedRe   = regexp.MustCompile(`^([\p{L}_][\p{L}\p{N}_]*)\s*\[(.+)\]$`)
	callRe      = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*\s*\(.*\)$`)
)

// ConvertDeclaration converts "Definir a, b Como Entero" into a let
// statement for the names not yet declared in sc. All listed names are
// added to sc. It returns "" when every name was already declared.
func ConvertDeclaration(line string, sc *Scope) string {
	parts := comoRe.Split(line, 2)
	vars := stripKeyword(definirRe, parts[0])

	var fresh []string
	for _, v := range scanner.SplitTopLevel(vars, ',') {
		if v == "" {
			continue
		}
		if sc.Declare(v) {
			fresh = append(fresh, v)
		}
	}
	if len(fresh) == 0 {
		return ""
	}
	return "let " + strings.Join(fresh, ", ") + ";"
}

// ConvertArrayDeclaration converts "Dimension v[10]" into an array
// allocation. Several arrays may be listed, and "m[3, 4]" allocates a
// two-dimensional array. Input that does not look like a dimension is
// returned as a comment.
func ConvertArrayDeclaration(line string, sc *Scope) string {
	rest := stripKeyword(dimensionRe, line)
	var stmts []string
	for _, item := range scanner.SplitTopLevel(rest, ',') {
		m := indexedRe.FindStringSubmatch(item)
		if m == nil {
			return "// " + line
		}
		name := m[1]
		var sizes []string
		for _, size := range scanner.SplitTopLevel(m[2], ',') {
			if size == "" {
				return "// " + line
			}
			sizes = append(sizes, ConvertExpression(size))
		}
		decl := ""
		if sc.Declare(name) {
			decl = "let "
		}
		stmts = append(stmts, fmt.Sprintf("%s%s = %s;", decl, name, allocArray(sizes)))
	}
	return strings.Join(stmts, " ")
}

// allocArray renders a JavaScript allocation for the given dimensions.
func allocArray(sizes []string) string {
	if len(sizes) == 1 {
		return "new Array(" + sizes[0] + ")"
	}
	return fmt.Sprintf("Array.from({ length: %s }, () => %s)", sizes[0], allocArray(sizes[1:]))
}

// ConvertInput converts "Leer a, v[i]" into prompt() reads. The returned
// text is already indented for depth and ends with a newline. Plain names
// are declared on first use; indexed targets never declare their array.
func ConvertInput(line string, depth int, sc *Scope) string {
	indent := Indent(depth)
	var sb strings.Builder
	for _, target := range scanner.SplitTopLevel(stripKeyword(leerRe, line), ',') {
		if target == "" {
			continue
		}
		if m := indexedRe.FindStringSubmatch(target); m != nil {
			fmt.Fprintf(&sb, "%s%s[%s] = parseFloat(prompt(\"Ingresa valor:\"));\n", indent, m[1], m[2])
			continue
		}
		decl := ""
		if sc.Declare(target) {
			decl = "let "
		}
		fmt.Fprintf(&sb, "%s%s%s = parseFloat(prompt(\"Ingresa %s:\"));\n", indent, decl, target, target)
	}
	return sb.String()
}

// ConvertOutput converts "Escribir a, b" into console.log(a, b). The
// arguments are passed through untouched.
func ConvertOutput(line string) string {
	return "console.log(" + stripKeyword(escribirRe, line) + ");"
}

// ConvertAssignment converts "x <- expr". The target is declared on first
// use unless it is an array element.
func ConvertAssignment(line string, sc *Scope) string {
	idx := scanner.IndexCode(line, "<-")
	if idx < 0 {
		return "// " + line
	}
	left := strings.TrimSpace(line[:idx])
	right := NormalizeBooleans(ConvertExpression(strings.TrimSpace(line[idx+2:])))

	decl := ""
	if !strings.Contains(left, "[") && sc.Declare(left) {
		decl = "let "
	}
	return fmt.Sprintf("%s%s = %s;", decl, left, right)
}

// ConvertCall converts a bare subprocess call such as "Saludar(nombre)"
// into a call statement.
func ConvertCall(line string) string {
	return ConvertExpression(line) + ";"
}
