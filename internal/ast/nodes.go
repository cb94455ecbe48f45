package ast

import "ctfmeta/internal/source"

// Root is the top of a parsed metadata file. Declarations are grouped by kind
// the way the grammar collects them; the resolver visits the groups in field
// order (typedefs, typealiases, bare specifiers, traces, streams, events).
type Root struct {
	Typedefs    []*Node   `yaml:"typedefs,omitempty" msgpack:"typedefs,omitempty" json:"typedefs,omitempty"`
	Typealiases []*Node   `yaml:"typealiases,omitempty" msgpack:"typealiases,omitempty" json:"typealiases,omitempty"`
	Specifiers  [][]*Node `yaml:"specifiers,omitempty" msgpack:"specifiers,omitempty" json:"specifiers,omitempty"`
	Traces      []*Node   `yaml:"traces,omitempty" msgpack:"traces,omitempty" json:"traces,omitempty"`
	Streams     []*Node   `yaml:"streams,omitempty" msgpack:"streams,omitempty" json:"streams,omitempty"`
	Events      []*Node   `yaml:"events,omitempty" msgpack:"events,omitempty" json:"events,omitempty"`
}

// Node is one AST node. Exactly one payload pointer matching Kind is set.
// The resolver treats nodes as read-only.
type Node struct {
	Kind NodeKind    `yaml:"kind" msgpack:"kind" json:"kind"`
	Span source.Span `yaml:"span,omitempty" msgpack:"span,omitempty" json:"span,omitempty"`

	Block      *Block          `yaml:"block,omitempty" msgpack:"block,omitempty" json:"block,omitempty"`
	Expr       *CTFExpression  `yaml:"expr,omitempty" msgpack:"expr,omitempty" json:"expr,omitempty"`
	Unary      *Unary          `yaml:"unary,omitempty" msgpack:"unary,omitempty" json:"unary,omitempty"`
	Typedef    *TypedefDecl    `yaml:"typedef,omitempty" msgpack:"typedef,omitempty" json:"typedef,omitempty"`
	Typealias  *TypealiasDecl  `yaml:"typealias,omitempty" msgpack:"typealias,omitempty" json:"typealias,omitempty"`
	TypeSpec   *TypeSpecifier  `yaml:"type_specifier,omitempty" msgpack:"type_specifier,omitempty" json:"type_specifier,omitempty"`
	Pointer    *Pointer        `yaml:"pointer,omitempty" msgpack:"pointer,omitempty" json:"pointer,omitempty"`
	Declarator *TypeDeclarator `yaml:"declarator,omitempty" msgpack:"declarator,omitempty" json:"declarator,omitempty"`
	Attrs      *Attrs          `yaml:"attrs,omitempty" msgpack:"attrs,omitempty" json:"attrs,omitempty"`
	Enumerator *EnumeratorDecl `yaml:"enumerator,omitempty" msgpack:"enumerator,omitempty" json:"enumerator,omitempty"`
	Enum       *EnumDecl       `yaml:"enum,omitempty" msgpack:"enum,omitempty" json:"enum,omitempty"`
	Field      *FieldDecl      `yaml:"field,omitempty" msgpack:"field,omitempty" json:"field,omitempty"`
	Aggregate  *Aggregate      `yaml:"aggregate,omitempty" msgpack:"aggregate,omitempty" json:"aggregate,omitempty"`
}

// Block is the body of a trace, stream or event: typedefs, typealiases and
// `key = value;` expressions.
type Block struct {
	Decls []*Node `yaml:"decls,omitempty" msgpack:"decls,omitempty" json:"decls,omitempty"`
}

// CTFExpression is `left = right;` or `left := right;`. Left is a chain of
// unary strings; Right is either unary expressions or a declaration specifier.
type CTFExpression struct {
	Left  []*Node `yaml:"left" msgpack:"left" json:"left"`
	Right []*Node `yaml:"right" msgpack:"right" json:"right"`
}

// Unary is a literal or identifier, optionally linked to its predecessor.
type Unary struct {
	Kind     UnaryKind `yaml:"kind" msgpack:"kind" json:"kind"`
	Str      string    `yaml:"str,omitempty" msgpack:"str,omitempty" json:"str,omitempty"`
	Signed   int64     `yaml:"signed,omitempty" msgpack:"signed,omitempty" json:"signed,omitempty"`
	Unsigned uint64    `yaml:"unsigned,omitempty" msgpack:"unsigned,omitempty" json:"unsigned,omitempty"`
	Link     Link      `yaml:"link,omitempty" msgpack:"link,omitempty" json:"link,omitempty"`
}

type TypedefDecl struct {
	Specifier   []*Node `yaml:"specifier" msgpack:"specifier" json:"specifier"`
	Declarators []*Node `yaml:"declarators" msgpack:"declarators" json:"declarators"`
}

// TypealiasPart is one side of `typealias target := alias;`.
type TypealiasPart struct {
	Specifier   []*Node `yaml:"specifier" msgpack:"specifier" json:"specifier"`
	Declarators []*Node `yaml:"declarators,omitempty" msgpack:"declarators,omitempty" json:"declarators,omitempty"`
}

type TypealiasDecl struct {
	Target TypealiasPart `yaml:"target" msgpack:"target" json:"target"`
	Alias  TypealiasPart `yaml:"alias" msgpack:"alias" json:"alias"`
}

type TypeSpecifier struct {
	Type TypeSpecKind `yaml:"type" msgpack:"type" json:"type"`
	ID   string       `yaml:"id,omitempty" msgpack:"id,omitempty" json:"id,omitempty"` // TypeSpecID only
}

type Pointer struct {
	Const bool `yaml:"const,omitempty" msgpack:"const,omitempty" json:"const,omitempty"`
}

// TypeDeclarator follows C declarator structure: pointers, then either an
// identifier or a nested declarator with an array length / abstract array,
// plus an optional bitfield width.
type TypeDeclarator struct {
	Pointers      []*Node        `yaml:"pointers,omitempty" msgpack:"pointers,omitempty" json:"pointers,omitempty"`
	Kind          DeclaratorKind `yaml:"kind" msgpack:"kind" json:"kind"`
	ID            string         `yaml:"id,omitempty" msgpack:"id,omitempty" json:"id,omitempty"`
	Inner         *Node          `yaml:"inner,omitempty" msgpack:"inner,omitempty" json:"inner,omitempty"`
	Length        *Node          `yaml:"length,omitempty" msgpack:"length,omitempty" json:"length,omitempty"`
	AbstractArray bool           `yaml:"abstract_array,omitempty" msgpack:"abstract_array,omitempty" json:"abstract_array,omitempty"`
	Bitfield      *Node          `yaml:"bitfield,omitempty" msgpack:"bitfield,omitempty" json:"bitfield,omitempty"`
}

// Attrs is the `{ key = value; ... }` body of integer, floating_point and string.
type Attrs struct {
	Exprs []*Node `yaml:"exprs,omitempty" msgpack:"exprs,omitempty" json:"exprs,omitempty"`
}

// EnumeratorDecl is `ID`, `ID = v` or `ID = lo ... hi`.
type EnumeratorDecl struct {
	ID     string  `yaml:"id" msgpack:"id" json:"id"`
	Values []*Node `yaml:"values,omitempty" msgpack:"values,omitempty" json:"values,omitempty"`
}

type EnumDecl struct {
	Name        string  `yaml:"name,omitempty" msgpack:"name,omitempty" json:"name,omitempty"`
	HasBody     bool    `yaml:"has_body,omitempty" msgpack:"has_body,omitempty" json:"has_body,omitempty"`
	Container   []*Node `yaml:"container,omitempty" msgpack:"container,omitempty" json:"container,omitempty"`
	Enumerators []*Node `yaml:"enumerators,omitempty" msgpack:"enumerators,omitempty" json:"enumerators,omitempty"`
}

// FieldDecl is a member declaration inside a struct or variant body.
type FieldDecl struct {
	Specifier   []*Node `yaml:"specifier" msgpack:"specifier" json:"specifier"`
	Declarators []*Node `yaml:"declarators" msgpack:"declarators" json:"declarators"`
}

// Aggregate is a struct or variant. Choice holds the variant tag name.
type Aggregate struct {
	Name    string  `yaml:"name,omitempty" msgpack:"name,omitempty" json:"name,omitempty"`
	Choice  string  `yaml:"choice,omitempty" msgpack:"choice,omitempty" json:"choice,omitempty"`
	HasBody bool    `yaml:"has_body,omitempty" msgpack:"has_body,omitempty" json:"has_body,omitempty"`
	Decls   []*Node `yaml:"decls,omitempty" msgpack:"decls,omitempty" json:"decls,omitempty"`
}
