package transpiler

import (
	"regexp"
	"strings"

	"pseint2js/scanner"
)

// rule is one ordered text rewrite. Tables of rules are applied top to
// bottom; later rules must not depend on text produced by earlier ones
// matching their own pattern.
type rule struct {
	name  string
	apply func(string) string
}

// replaceRule builds a rule from a regexp and a replacement template.
func replaceRule(name, pattern, repl string) rule {
	re := regexp.MustCompile(pattern)
	return rule{name: name, apply: func(s string) string {
		return re.ReplaceAllString(s, repl)
	}}
}

// codeRule restricts r to the text outside string literals.
func codeRule(r rule) rule {
	return rule{name: r.name, apply: func(s string) string {
		return scanner.MapCode(s, r.apply)
	}}
}

func applyRules(rules []rule, s string) string {
	for _, r := range rules {
		s = r.apply(s)
	}
	return s
}

// Operator rewrites leave string literals alone. The boolean literals do
// not, see NormalizeBooleans.
var (
	booleansRule = rule{name: "booleans", apply: NormalizeBooleans}
	// Y and O are single letters, so only the upper-case spelling is taken
	// as the operator; lower-case y/o stay usable as identifiers.
	andRule = codeRule(replaceRule("and", `\bY\b`, "&&"))
	orRule  = codeRule(replaceRule("or", `\bO\b`, "||"))
	notRule = codeRule(replaceRule("not", `(?i)\bNO\b\s*`, "!"))
	neqRule = codeRule(replaceRule("neq", `<>`, "!="))
	// A lone = not part of <=, >=, != or ==. A run may start or end at a
	// string literal, so the neighbours are optional at its edges.
	eqRule    = codeRule(replaceRule("eq", `(^|[^!<>=])=([^=]|$)`, "${1}==${2}"))
	modRule   = codeRule(replaceRule("mod", `(?i)\bMOD\b`, "%"))
	powRule   = codeRule(replaceRule("pow", `\^`, "**"))
	azarRule  = rule{name: "azar", apply: rewriteAzar}
	mathRule  = codeRule(rule{name: "math", apply: rewriteMathCalls})
	logicRule = []rule{andRule, orRule, notRule}
)

// conditionRules rewrite a boolean condition, finishing with the
// arithmetic rewrites shared with expressions.
var conditionRules = concatRules(
	[]rule{booleansRule},
	logicRule,
	[]rule{neqRule, eqRule, modRule},
	[]rule{azarRule, powRule, mathRule},
)

// expressionRules rewrite an arithmetic or logical expression.
var expressionRules = concatRules(
	[]rule{modRule},
	logicRule,
	[]rule{booleansRule, azarRule, powRule, mathRule},
)

func concatRules(groups ...[]rule) []rule {
	var out []rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var azarRe = regexp.MustCompile(`(?i)\bazar\s*\(`)

// rewriteAzar turns azar(n) into Math.floor(Math.random() * (n)). The
// argument may itself contain parentheses or further azar calls.
func rewriteAzar(s string) string {
	var sb strings.Builder
	for {
		loc := azarRe.FindStringIndex(s)
		if loc == nil {
			sb.WriteString(s)
			return sb.String()
		}
		open := loc[1] - 1
		end := scanner.MatchParen(s, open)
		if end < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		arg := rewriteAzar(strings.TrimSpace(s[open+1 : end]))
		sb.WriteString(s[:loc[0]])
		sb.WriteString("Math.floor(Math.random() * (" + arg + "))")
		s = s[end+1:]
	}
}

var mathFuncs = map[string]string{
	"raiz":  "Math.sqrt",
	"rc":    "Math.sqrt",
	"abs":   "Math.abs",
	"trunc": "Math.trunc",
	"redon": "Math.round",
	"ln":    "Math.log",
	"exp":   "Math.exp",
	"sen":   "Math.sin",
	"cos":   "Math.cos",
	"tan":   "Math.tan",
}

// The leading group keeps "Math.exp(" from being rewritten a second time.
var mathCallRe = regexp.MustCompile(`(?i)(^|[^.\w])(raiz|rc|abs|trunc|redon|ln|exp|sen|cos|tan)\s*\(`)

func rewriteMathCalls(s string) string {
	return mathCallRe.ReplaceAllStringFunc(s, func(m string) string {
		sub := mathCallRe.FindStringSubmatch(m)
		return sub[1] + mathFuncs[strings.ToLower(sub[2])] + "("
	})
}
