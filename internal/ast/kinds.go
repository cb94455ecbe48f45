package ast

import (
	"fmt"
)

// NodeKind enumerates the node shapes produced by the metadata grammar.
type NodeKind uint8

const (
	NodeUnknown NodeKind = iota
	NodeTrace
	NodeStream
	NodeEvent
	NodeCTFExpression
	NodeUnaryExpression
	NodeTypedef
	NodeTypealias
	NodeTypeSpecifier
	NodePointer
	NodeTypeDeclarator
	NodeFloatingPoint
	NodeInteger
	NodeString
	NodeEnumerator
	NodeEnum
	NodeStructOrVariantDeclaration
	NodeVariant
	NodeStruct
)

var nodeKindNames = [...]string{
	NodeUnknown:                    "unknown",
	NodeTrace:                      "trace",
	NodeStream:                     "stream",
	NodeEvent:                      "event",
	NodeCTFExpression:              "ctf_expression",
	NodeUnaryExpression:            "unary_expression",
	NodeTypedef:                    "typedef",
	NodeTypealias:                  "typealias",
	NodeTypeSpecifier:              "type_specifier",
	NodePointer:                    "pointer",
	NodeTypeDeclarator:             "type_declarator",
	NodeFloatingPoint:              "floating_point",
	NodeInteger:                    "integer",
	NodeString:                     "string",
	NodeEnumerator:                 "enumerator",
	NodeEnum:                       "enum",
	NodeStructOrVariantDeclaration: "struct_or_variant_declaration",
	NodeVariant:                    "variant",
	NodeStruct:                     "struct",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", k)
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *NodeKind) UnmarshalText(b []byte) error {
	return parseName(nodeKindNames[:], "node kind", string(b), k)
}

// UnaryKind distinguishes the literal forms of a unary expression.
type UnaryKind uint8

const (
	UnaryUnknown UnaryKind = iota
	UnaryString
	UnarySignedConstant
	UnaryUnsignedConstant
)

var unaryKindNames = [...]string{
	UnaryUnknown:          "unknown",
	UnaryString:           "string",
	UnarySignedConstant:   "signed_constant",
	UnaryUnsignedConstant: "unsigned_constant",
}

func (k UnaryKind) String() string {
	if int(k) < len(unaryKindNames) {
		return unaryKindNames[k]
	}
	return fmt.Sprintf("UnaryKind(%d)", k)
}

func (k UnaryKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *UnaryKind) UnmarshalText(b []byte) error {
	return parseName(unaryKindNames[:], "unary kind", string(b), k)
}

// Link tells how a unary expression attaches to the one before it.
type Link uint8

const (
	LinkNone      Link = iota
	LinkDot            // a.b
	LinkArrow          // a->b
	LinkDotDotDot      // a ... b (enumerator ranges)
)

var linkNames = [...]string{
	LinkNone:      "",
	LinkDot:       ".",
	LinkArrow:     "->",
	LinkDotDotDot: "...",
}

func (l Link) String() string {
	if int(l) < len(linkNames) {
		return linkNames[l]
	}
	return fmt.Sprintf("Link(%d)", l)
}

func (l Link) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Link) UnmarshalText(b []byte) error {
	return parseName(linkNames[:], "link", string(b), l)
}

// TypeSpecKind is a C-style type keyword, or TypeSpecID for a named type.
type TypeSpecKind uint8

const (
	TypeSpecUnknown TypeSpecKind = iota
	TypeSpecVoid
	TypeSpecChar
	TypeSpecShort
	TypeSpecInt
	TypeSpecLong
	TypeSpecFloat
	TypeSpecDouble
	TypeSpecSigned
	TypeSpecUnsigned
	TypeSpecBool
	TypeSpecComplex
	TypeSpecConst
	TypeSpecID
)

var typeSpecNames = [...]string{
	TypeSpecUnknown:  "unknown",
	TypeSpecVoid:     "void",
	TypeSpecChar:     "char",
	TypeSpecShort:    "short",
	TypeSpecInt:      "int",
	TypeSpecLong:     "long",
	TypeSpecFloat:    "float",
	TypeSpecDouble:   "double",
	TypeSpecSigned:   "signed",
	TypeSpecUnsigned: "unsigned",
	TypeSpecBool:     "_Bool",
	TypeSpecComplex:  "_Complex",
	TypeSpecConst:    "const",
	TypeSpecID:       "id_type",
}

func (k TypeSpecKind) String() string {
	if int(k) < len(typeSpecNames) {
		return typeSpecNames[k]
	}
	return fmt.Sprintf("TypeSpecKind(%d)", k)
}

func (k TypeSpecKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *TypeSpecKind) UnmarshalText(b []byte) error {
	return parseName(typeSpecNames[:], "type specifier", string(b), k)
}

// DeclaratorKind separates a plain identifier declarator from a nested one
// (arrays, sequences, parenthesised declarators).
type DeclaratorKind uint8

const (
	DeclaratorUnknown DeclaratorKind = iota
	DeclaratorID
	DeclaratorNested
)

var declaratorNames = [...]string{
	DeclaratorUnknown: "unknown",
	DeclaratorID:      "id",
	DeclaratorNested:  "nested",
}

func (k DeclaratorKind) String() string {
	if int(k) < len(declaratorNames) {
		return declaratorNames[k]
	}
	return fmt.Sprintf("DeclaratorKind(%d)", k)
}

func (k DeclaratorKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *DeclaratorKind) UnmarshalText(b []byte) error {
	return parseName(declaratorNames[:], "declarator kind", string(b), k)
}

func parseName[T ~uint8](names []string, what, s string, out *T) error {
	for i, name := range names {
		if name == s {
			*out = T(i)
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, s)
}
