package transpiler

// BlockKind identifies the construct that opened a block.
type BlockKind int

const (
	BlockIf BlockKind = iota
	BlockWhile
	BlockFor
	BlockRepeat
)

func (k BlockKind) String() string {
	switch k {
	case BlockIf:
		return "Si"
	case BlockWhile:
		return "Mientras"
	case BlockFor:
		return "Para"
	case BlockRepeat:
		return "Repetir"
	default:
		return "?"
	}
}

// openBlock is an entry of the block stack.
type openBlock struct {
	kind BlockKind
	line int
}

// Scope holds the declared-variable set of one program or function body,
// together with the stack of blocks opened inside it.
type Scope struct {
	declared map[string]bool
	blocks   []openBlock
}

// NewScope returns an empty scope.
func NewScope() *Scope {
	return &Scope{declared: make(map[string]bool)}
}

// Declared reports whether name already has a declaration in the output.
func (s *Scope) Declared(name string) bool {
	return s.declared[name]
}

// Declare adds name to the scope and reports whether it was new.
func (s *Scope) Declare(name string) bool {
	if s.declared[name] {
		return false
	}
	s.declared[name] = true
	return true
}

// Reset clears declarations and open blocks.
func (s *Scope) Reset() {
	clear(s.declared)
	s.blocks = s.blocks[:0]
}

func (s *Scope) push(kind BlockKind, line int) {
	s.blocks = append(s.blocks, openBlock{kind: kind, line: line})
}

// pop removes the innermost open block. ok is false when nothing is open.
func (s *Scope) pop() (b openBlock, ok bool) {
	if len(s.blocks) == 0 {
		return openBlock{}, false
	}
	b = s.blocks[len(s.blocks)-1]
	s.blocks = s.blocks[:len(s.blocks)-1]
	return b, true
}

func (s *Scope) top() (openBlock, bool) {
	if len(s.blocks) == 0 {
		return openBlock{}, false
	}
	return s.blocks[len(s.blocks)-1], true
}

// drain returns the blocks still open, innermost first, and empties the stack.
func (s *Scope) drain() []openBlock {
	out := make([]openBlock, 0, len(s.blocks))
	for i := len(s.blocks) - 1; i >= 0; i-- {
		out = append(out, s.blocks[i])
	}
	s.blocks = s.blocks[:0]
	return out
}
