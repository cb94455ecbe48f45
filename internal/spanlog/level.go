package spanlog

import (
	"fmt"
	"strings"
)

// Level controls verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // only failed spans
	LevelPhase        // driver + files
	LevelDetail       // + blocks
	LevelDebug        // everything
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a flag value to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level: %q (expected: off|error|phase|detail|debug)", s)
	}
}

// ShouldEmit reports whether events of scope pass this level.
// At LevelError only failed span ends pass; see Failed.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeFile
	case LevelDetail:
		return scope <= ScopeBlock
	case LevelDebug:
		return true
	}
	return false
}

// Allows applies the level to a concrete event.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Kind == KindSpanEnd && Failed(ev) {
		return true
	}
	return l.ShouldEmit(ev.Scope)
}

// Failed reports whether a span end carries an error outcome.
func Failed(ev *Event) bool {
	_, ok := ev.Extra["error"]
	return ok
}
