package types

import (
	"math"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// EnumBuilder assigns values to enumerators in declaration order. An
// enumerator without a value takes the previous end plus one, or zero
// when it is the first.
type EnumBuilder struct {
	entries []EnumEntry
	next    int64
	done    bool // next overflowed
}

// Next adds an enumerator with an implicit value.
func (b *EnumBuilder) Next(label string) error {
	if b.done {
		return diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "enumerator %q overflows int64", label)
	}
	return b.Range(label, b.next, b.next)
}

// Value adds an enumerator with an explicit value.
func (b *EnumBuilder) Value(label string, v int64) error {
	return b.Range(label, v, v)
}

// Range adds an enumerator covering [start, end].
func (b *EnumBuilder) Range(label string, start, end int64) error {
	if end < start {
		return diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "enumerator %q has an empty range %d ... %d", label, start, end)
	}
	b.entries = append(b.entries, EnumEntry{Label: label, Start: start, End: end})
	if end == math.MaxInt64 {
		b.done = true
	} else {
		b.next, b.done = end+1, false
	}
	return nil
}

// Entries returns the accumulated enumerators.
func (b *EnumBuilder) Entries() []EnumEntry {
	return b.entries
}
