// Package types models CTF metadata types: integers, floats, strings, enums,
// structs, variants, arrays, sequences and aliases.
//
// Types are shared between scopes, declarations and enclosing compound
// types, so each carries an explicit reference count. Constructors hand the
// caller one reference; compound types keep their own reference on every
// member type and drop it when they die.
package types

import (
	"fmt"
	"strings"

	"ctfmeta/internal/layout"
)

// Kind enumerates the type variants.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInteger
	KindFloat
	KindString
	KindEnum
	KindStruct
	KindVariant
	KindArray
	KindSequence
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "floating_point"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindVariant:
		return "variant"
	case KindArray:
		return "array"
	case KindSequence:
		return "sequence"
	case KindAlias:
		return "alias"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ByteOrder of a scalar. Native defers to the trace byte order.
type ByteOrder uint8

const (
	Native ByteOrder = iota
	BigEndian
	LittleEndian
)

func (b ByteOrder) String() string {
	switch b {
	case BigEndian:
		return "be"
	case LittleEndian:
		return "le"
	default:
		return "native"
	}
}

// ParseByteOrder accepts the metadata spellings of byte_order.
func ParseByteOrder(s string) (ByteOrder, bool) {
	switch s {
	case "native":
		return Native, true
	case "be", "network":
		return BigEndian, true
	case "le":
		return LittleEndian, true
	}
	return Native, false
}

// Encoding of text carried by strings and integers.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingUTF8
	EncodingASCII
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF8"
	case EncodingASCII:
		return "ASCII"
	default:
		return "none"
	}
}

// ParseEncoding accepts the metadata spellings of encoding.
func ParseEncoding(s string) (Encoding, bool) {
	switch s {
	case "none":
		return EncodingNone, true
	case "UTF8", "utf8":
		return EncodingUTF8, true
	case "ASCII", "ascii":
		return EncodingASCII, true
	}
	return EncodingNone, false
}

// IntegerInfo describes an integer. Size and Align are in bits.
type IntegerInfo struct {
	Size      uint64
	Align     uint64
	Signed    bool
	ByteOrder ByteOrder
	Base      int
	Encoding  Encoding
	Pointer   int // levels of indirection from declarators
}

// FloatInfo describes a floating point number.
type FloatInfo struct {
	ExpDig    uint64
	MantDig   uint64
	Align     uint64
	ByteOrder ByteOrder
}

// StringInfo describes a null-terminated string.
type StringInfo struct {
	Encoding Encoding
}

// EnumEntry maps Label to the closed range [Start, End].
type EnumEntry struct {
	Label string
	Start int64
	End   int64
}

// EnumInfo is an integer container plus ordered labeled ranges.
type EnumInfo struct {
	Container *Type
	Entries   []EnumEntry
}

// Label returns the first label whose range contains v.
func (e *EnumInfo) Label(v int64) (string, bool) {
	for _, en := range e.Entries {
		if v >= en.Start && v <= en.End {
			return en.Label, true
		}
	}
	return "", false
}

// Field is one named member of a struct or variant. Tag is kept for
// variant-typed members.
type Field struct {
	Name string
	Type *Type
	Tag  *Tag
}

// AggregateInfo holds struct fields or variant choices in declaration order.
// Tag is set on variants only.
type AggregateInfo struct {
	Fields []Field
	Tag    string
	sealed bool
}

// Field finds a member by name.
func (a *AggregateInfo) Field(name string) (*Type, bool) {
	for _, f := range a.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// Type is a refcounted CTF type.
type Type struct {
	Kind Kind
	// Name is the name the type was registered under; empty when anonymous.
	Name string

	Int       *IntegerInfo
	Float     *FloatInfo
	Str       *StringInfo
	Enum      *EnumInfo
	Aggregate *AggregateInfo // struct and variant
	Elem      *Type          // array and sequence
	Length    uint64         // array
	LengthRef string         // sequence length field
	Target    *Type          // alias

	Layout layout.TypeLayout

	refs int32
	reg  *Registry
}

// Refs reports the current reference count.
func (t *Type) Refs() int32 { return t.refs }

func (t *Type) Ref() {
	if t.refs <= 0 {
		panic(fmt.Sprintf("types: ref of released %s", t.Kind))
	}
	t.refs++
}

// Unref drops one reference. The last one releases every member type.
func (t *Type) Unref() {
	if t.refs <= 0 {
		panic(fmt.Sprintf("types: unref of released %s", t.Kind))
	}
	t.refs--
	if t.refs > 0 {
		return
	}
	switch t.Kind {
	case KindEnum:
		t.Enum.Container.Unref()
	case KindStruct, KindVariant:
		for i := len(t.Aggregate.Fields) - 1; i >= 0; i-- {
			t.Aggregate.Fields[i].Type.Unref()
		}
	case KindArray, KindSequence:
		t.Elem.Unref()
	case KindAlias:
		t.Target.Unref()
	}
	if t.reg != nil {
		t.reg.liveTypes--
	}
}

// Underlying follows alias links down to a concrete type.
func (t *Type) Underlying() *Type {
	for t != nil && t.Kind == KindAlias {
		t = t.Target
	}
	return t
}

// IsInteger reports whether t is an integer once aliases are stripped.
func (t *Type) IsInteger() bool {
	u := t.Underlying()
	return u != nil && u.Kind == KindInteger
}

// IsEnum reports whether t is an enum once aliases are stripped.
func (t *Type) IsEnum() bool {
	u := t.Underlying()
	return u != nil && u.Kind == KindEnum
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	var sb strings.Builder
	t.describe(&sb, 0)
	return sb.String()
}

func (t *Type) describe(sb *strings.Builder, depth int) {
	if t.Name != "" && depth > 0 {
		sb.WriteString(t.Name)
		return
	}
	switch t.Kind {
	case KindInteger:
		fmt.Fprintf(sb, "integer{size=%d align=%d", t.Int.Size, t.Int.Align)
		if t.Int.Signed {
			sb.WriteString(" signed")
		}
		if t.Int.ByteOrder != Native {
			fmt.Fprintf(sb, " byte_order=%s", t.Int.ByteOrder)
		}
		if t.Int.Base != 10 && t.Int.Base != 0 {
			fmt.Fprintf(sb, " base=%d", t.Int.Base)
		}
		if t.Int.Encoding != EncodingNone {
			fmt.Fprintf(sb, " encoding=%s", t.Int.Encoding)
		}
		sb.WriteByte('}')
		sb.WriteString(strings.Repeat("*", t.Int.Pointer))
	case KindFloat:
		fmt.Fprintf(sb, "floating_point{exp_dig=%d mant_dig=%d align=%d}", t.Float.ExpDig, t.Float.MantDig, t.Float.Align)
	case KindString:
		fmt.Fprintf(sb, "string{encoding=%s}", t.Str.Encoding)
	case KindEnum:
		sb.WriteString("enum : ")
		t.Enum.Container.describe(sb, depth+1)
		sb.WriteString(" {")
		for i, e := range t.Enum.Entries {
			if i > 0 {
				sb.WriteString(",")
			}
			if e.Start == e.End {
				fmt.Fprintf(sb, " %s = %d", e.Label, e.Start)
			} else {
				fmt.Fprintf(sb, " %s = %d ... %d", e.Label, e.Start, e.End)
			}
		}
		sb.WriteString(" }")
	case KindStruct, KindVariant:
		sb.WriteString(t.Kind.String())
		if t.Kind == KindVariant && t.Aggregate.Tag != "" {
			fmt.Fprintf(sb, " <%s>", t.Aggregate.Tag)
		}
		sb.WriteString(" {")
		for _, f := range t.Aggregate.Fields {
			sb.WriteByte(' ')
			f.Type.describe(sb, depth+1)
			fmt.Fprintf(sb, " %s;", f.Name)
		}
		sb.WriteString(" }")
	case KindArray:
		t.Elem.describe(sb, depth+1)
		fmt.Fprintf(sb, "[%d]", t.Length)
	case KindSequence:
		t.Elem.describe(sb, depth+1)
		fmt.Fprintf(sb, "[%s]", t.LengthRef)
	case KindAlias:
		fmt.Fprintf(sb, "%s = ", t.Name)
		t.Target.describe(sb, depth+1)
	default:
		sb.WriteString(t.Kind.String())
	}
}
