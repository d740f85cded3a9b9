// Package scanner provides string-boundary-aware scanning for pseudocode
// lines. It tracks double- and single-quoted string literals so callers can
// split argument lists and locate operators without matching text that
// lives inside a literal.
package scanner

import "strings"

// closingKind tracks which type of string delimiter was just closed.
type closingKind byte

const (
	noClosing     closingKind = iota
	closingDouble             // just closed a "..." string
	closingSingle             // just closed a '...' string
)

// CodeScanner iterates byte-by-byte over a line of pseudocode, tracking
// string literal boundaries. Callers check InString() instead of
// maintaining their own quote flags.
//
// InString() returns true for the entire string span including both
// opening and closing delimiters.
type CodeScanner struct {
	src     string
	pos     int
	inDbl   bool
	inSgl   bool
	closing closingKind
}

// New creates a CodeScanner for the given text.
// Call Next() to advance to the first byte.
func New(src string) *CodeScanner {
	return &CodeScanner{src: src, pos: -1}
}

// Next advances to the next byte, updating string state.
// Returns the byte and true, or (0, false) at end of input.
//
// PSeInt has no escape sequences: a literal ends at the next matching quote.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]
	if ch == '"' && !s.inSgl {
		if s.inDbl {
			s.closing = closingDouble
		}
		s.inDbl = !s.inDbl
	} else if ch == '\'' && !s.inDbl {
		if s.inSgl {
			s.closing = closingSingle
		}
		s.inSgl = !s.inSgl
	}
	return ch, true
}

// InString reports whether the current position is inside a string literal,
// including both opening and closing delimiters.
func (s *CodeScanner) InString() bool {
	return s.inDbl || s.inSgl || s.closing != noClosing
}

// InCode reports whether the current position is outside all string literals.
func (s *CodeScanner) InCode() bool { return !s.InString() }

// Pos returns the current byte offset. Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// LookingAt checks if src[pos:] starts with the given prefix.
func (s *CodeScanner) LookingAt(prefix string) bool {
	if s.pos < 0 || s.pos >= len(s.src) {
		return false
	}
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

// Unterminated reports whether a string literal is still open.
func (s *CodeScanner) Unterminated() bool { return s.inDbl || s.inSgl }

// Unclosed reports whether s ends inside a string literal.
func Unclosed(s string) bool {
	sc := New(s)
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
	}
	return sc.Unterminated()
}

// MapCode applies f to every run of s that lies outside string literals.
// Literals, quotes included, are copied unchanged.
func MapCode(s string, f func(string) string) string {
	var sb strings.Builder
	sc := New(s)
	start, inLit := 0, false
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		if lit := sc.InString(); lit != inLit {
			if inLit {
				sb.WriteString(s[start:sc.Pos()])
			} else {
				sb.WriteString(f(s[start:sc.Pos()]))
			}
			start, inLit = sc.Pos(), lit
		}
	}
	if inLit {
		sb.WriteString(s[start:])
	} else {
		sb.WriteString(f(s[start:]))
	}
	return sb.String()
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// FindAllTopLevel returns the offsets of every byte matching pred at
// bracket depth 0, outside all string literals.
func FindAllTopLevel(s string, pred func(ch byte, pos int, src string) bool) []int {
	var positions []int
	depth := 0
	sc := New(s)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
		if depth == 0 && pred(ch, sc.Pos(), s) {
			positions = append(positions, sc.Pos())
		}
	}
	return positions
}

// IndexCode returns the offset of the first occurrence of substr in s that
// starts outside a string literal, or -1.
func IndexCode(s, substr string) int {
	if substr == "" {
		return -1
	}
	sc := New(s)
	for _, ok := sc.Next(); ok; _, ok = sc.Next() {
		if sc.InCode() && sc.LookingAt(substr) {
			return sc.Pos()
		}
	}
	return -1
}

// SplitTopLevel splits s on sep occurrences that sit at bracket depth 0 and
// outside string literals. Parts are trimmed; empty parts are kept so callers
// can decide how to treat "a,,b".
func SplitTopLevel(s string, sep byte) []string {
	cuts := FindAllTopLevel(s, func(ch byte, _ int, _ string) bool { return ch == sep })
	parts := make([]string, 0, len(cuts)+1)
	start := 0
	for _, c := range cuts {
		parts = append(parts, strings.TrimSpace(s[start:c]))
		start = c + 1
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

// MatchParen returns the offset of the parenthesis closing the one at open,
// skipping string literals, or -1 when it is unbalanced.
func MatchParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}
	depth := 0
	sc := New(s[open:])
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InString() {
			continue
		}
		switch ch {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return open + sc.Pos()
			}
		}
	}
	return -1
}
