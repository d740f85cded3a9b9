package transpiler

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// indentUnit is one nesting level of generated JavaScript.
const indentUnit = "  "

// Indent returns the indentation for the given nesting depth.
// Negative depths are treated as zero.
func Indent(depth int) string {
	if depth < 0 {
		depth = 0
	}
	return strings.Repeat(indentUnit, depth)
}

var (
	trueRe  = regexp.MustCompile(`(?i)\bverdadero\b`)
	falseRe = regexp.MustCompile(`(?i)\bfalso\b`)
)

// NormalizeBooleans replaces the pseudocode boolean literals with their
// JavaScript spelling. It is a plain text rewrite and also rewrites words
// inside string literals.
func NormalizeBooleans(text string) string {
	text = trueRe.ReplaceAllString(text, "true")
	return falseRe.ReplaceAllString(text, "false")
}

// hasKeyword reports whether lower starts with kw as a whole word.
// lower must already be lower-cased.
func hasKeyword(lower, kw string) bool {
	if !strings.HasPrefix(lower, kw) {
		return false
	}
	if len(lower) == len(kw) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(lower[len(kw):])
	return !isIdentRune(r)
}

// closerName folds "fin si" and "fin  si" into "finsi" so closers can be
// compared against a single spelling.
func closerName(lower string) string {
	if !strings.HasPrefix(lower, "fin") {
		return lower
	}
	return "fin" + strings.TrimSpace(lower[3:])
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

var identRe = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*`)

// leadingIdent returns the identifier at the start of s, or "".
func leadingIdent(s string) string {
	return identRe.FindString(s)
}

// stripKeyword removes a leading keyword regexp match from line.
func stripKeyword(re *regexp.Regexp, line string) string {
	return strings.TrimSpace(re.ReplaceAllString(line, ""))
}
