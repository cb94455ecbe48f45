package layout

import (
	"fmt"
	"math/bits"
)

// TypeLayout is the symbolic size/alignment of a type, in bits.
// Variable layouts (strings, sequences, variants) have no fixed Size.
type TypeLayout struct {
	Size     uint64
	Align    uint64
	Variable bool
}

func (l TypeLayout) String() string {
	if l.Variable {
		return fmt.Sprintf("size=var align=%d", l.Align)
	}
	return fmt.Sprintf("size=%d align=%d", l.Size, l.Align)
}

// Scalar is the layout of a fixed-size scalar.
func Scalar(size, align uint64) TypeLayout {
	if align == 0 {
		align = 1
	}
	return TypeLayout{Size: size, Align: align}
}

// Variable is the layout of something whose size is only known per instance.
func Variable(align uint64) TypeLayout {
	if align == 0 {
		align = 1
	}
	return TypeLayout{Align: align, Variable: true}
}

// Sequential lays members out one after another on c, each at its own
// alignment. The result aligns to the strictest member. Members after a
// variable one make the whole layout variable.
func Sequential(c Cursor, members []TypeLayout) (TypeLayout, error) {
	out := TypeLayout{Align: 1}
	start := c.Offset()
	for _, m := range members {
		out.Align = max(out.Align, m.Align)
		if out.Variable {
			continue
		}
		if err := c.Align(m.Align); err != nil {
			return out, err
		}
		if m.Variable {
			out.Variable = true
			continue
		}
		if err := c.Move(m.Size); err != nil {
			return out, err
		}
	}
	if !out.Variable {
		out.Size = c.Offset() - start
	}
	return out, nil
}

// Repeated is the layout of n consecutive elements of elem.
func Repeated(elem TypeLayout, n uint64) (TypeLayout, error) {
	if elem.Variable {
		return Variable(elem.Align), nil
	}
	if n == 0 {
		return Scalar(0, elem.Align), nil
	}
	stride, ok := AlignUp(elem.Size, elem.Align)
	if !ok {
		return TypeLayout{}, fmt.Errorf("element stride overflows")
	}
	hi, lo := bits.Mul64(stride, n-1)
	if hi != 0 {
		return TypeLayout{}, fmt.Errorf("array of %d elements overflows", n)
	}
	total, carry := bits.Add64(lo, elem.Size, 0)
	if carry != 0 {
		return TypeLayout{}, fmt.Errorf("array of %d elements overflows", n)
	}
	return Scalar(total, elem.Align), nil
}
