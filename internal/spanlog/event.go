package spanlog

import "time"

// Kind is the type of an event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command
	ScopeFile                    // one metadata file
	ScopeBlock                   // trace, stream or event block
	ScopeNode                    // typedef, typealias, field
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopeBlock:
		return "block"
	case ScopeNode:
		return "node"
	default:
		return "unknown"
	}
}

// Event is a single recorded event.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Depth    int // nesting below the outermost span
	Name     string
	Detail   string
	Elapsed  time.Duration // set on span ends
	Extra    map[string]string
}
