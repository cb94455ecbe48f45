package source

import (
	"fmt"
)

// Span locates an AST node in the metadata text it was parsed from.
// The grammar stage fills it in; the zero value means "unknown position".
type Span struct {
	Line uint32 `yaml:"line,omitempty" msgpack:"l,omitempty" json:"line,omitempty"` // 1-based
	Col  uint32 `yaml:"col,omitempty" msgpack:"c,omitempty" json:"col,omitempty"`   // 1-based
}

func (s Span) IsZero() bool {
	return s.Line == 0 && s.Col == 0
}

func (s Span) String() string {
	if s.IsZero() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Col)
}

// Before reports whether s starts strictly before other. Unknown spans sort last.
func (s Span) Before(other Span) bool {
	if s.IsZero() != other.IsZero() {
		return !s.IsZero()
	}
	if s.Line != other.Line {
		return s.Line < other.Line
	}
	return s.Col < other.Col
}
