// Package layout holds the bit-addressed stream position contract and the
// symbolic implementation used to compute sizes and alignments of types
// before any packet buffer exists.
package layout

import (
	"fmt"
	"math/bits"
)

// Cursor is the stream-position codec contract: a bit cursor over a packet.
// Real decoders wrap a packet buffer; Counter only tracks offsets.
type Cursor interface {
	// Align moves forward to the next multiple of align bits.
	Align(align uint64) error
	// Move advances by n bits.
	Move(n uint64) error
	// WouldCross reports whether advancing by n bits passes the packet end.
	WouldCross(n uint64) bool
	// Offset is the current bit position from the packet start.
	Offset() uint64
}

// Counter is a buffer-less Cursor. PacketBits == 0 means unbounded.
type Counter struct {
	PacketBits uint64
	offset     uint64
}

var _ Cursor = (*Counter)(nil)

func (c *Counter) Align(align uint64) error {
	if !IsPow2(align) {
		return fmt.Errorf("alignment %d is not a power of two", align)
	}
	next, ok := AlignUp(c.offset, align)
	if !ok {
		return fmt.Errorf("alignment overflows bit offset %d", c.offset)
	}
	c.offset = next
	return nil
}

func (c *Counter) Move(n uint64) error {
	sum, carry := bits.Add64(c.offset, n, 0)
	if carry != 0 {
		return fmt.Errorf("moving %d bits overflows offset %d", n, c.offset)
	}
	c.offset = sum
	return nil
}

func (c *Counter) WouldCross(n uint64) bool {
	if c.PacketBits == 0 {
		return false
	}
	sum, carry := bits.Add64(c.offset, n, 0)
	return carry != 0 || sum > c.PacketBits
}

func (c *Counter) Offset() uint64 { return c.offset }

// IsPow2 reports whether v is a non-zero power of two.
func IsPow2(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// AlignUp rounds off up to a multiple of align (a power of two).
func AlignUp(off, align uint64) (uint64, bool) {
	if align <= 1 {
		return off, true
	}
	sum, carry := bits.Add64(off, align-1, 0)
	if carry != 0 {
		return 0, false
	}
	return sum &^ (align - 1), true
}
