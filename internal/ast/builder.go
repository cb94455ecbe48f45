package ast

import (
	"strings"

	"ctfmeta/internal/source"
)

// Constructors below build well-formed nodes the way the grammar would.
// They are used by decoders, tests and tools that synthesise metadata.

// At sets the source position of n and returns it.
func At(n *Node, line, col uint32) *Node {
	if n != nil {
		n.Span = source.Span{Line: line, Col: col}
	}
	return n
}

func Str(s string) *Node {
	return &Node{Kind: NodeUnaryExpression, Unary: &Unary{Kind: UnaryString, Str: s}}
}

func Uint(v uint64) *Node {
	return &Node{Kind: NodeUnaryExpression, Unary: &Unary{Kind: UnaryUnsignedConstant, Unsigned: v}}
}

func Int(v int64) *Node {
	return &Node{Kind: NodeUnaryExpression, Unary: &Unary{Kind: UnarySignedConstant, Signed: v}}
}

// Linked marks a unary expression as attached to the previous one by l.
func Linked(n *Node, l Link) *Node {
	if n != nil && n.Unary != nil {
		n.Unary.Link = l
	}
	return n
}

// Key splits a dotted key ("packet.context") into linked unary strings.
func Key(path string) []*Node {
	parts := strings.Split(path, ".")
	out := make([]*Node, 0, len(parts))
	for i, p := range parts {
		n := Str(p)
		if i > 0 {
			n.Unary.Link = LinkDot
		}
		out = append(out, n)
	}
	return out
}

// Assign builds `key = right...;`.
func Assign(key string, right ...*Node) *Node {
	return &Node{Kind: NodeCTFExpression, Expr: &CTFExpression{Left: Key(key), Right: right}}
}

func ID(name string) *Node {
	return &Node{Kind: NodeTypeSpecifier, TypeSpec: &TypeSpecifier{Type: TypeSpecID, ID: name}}
}

func Keyword(kind TypeSpecKind) *Node {
	return &Node{Kind: NodeTypeSpecifier, TypeSpec: &TypeSpecifier{Type: kind}}
}

// Spec collects nodes into a declaration specifier list.
func Spec(nodes ...*Node) []*Node { return nodes }

func Decl(id string) *Node {
	return &Node{Kind: NodeTypeDeclarator, Declarator: &TypeDeclarator{Kind: DeclaratorID, ID: id}}
}

// Pointers prepends n pointer levels to declarator d.
func Pointers(n int, d *Node) *Node {
	for range n {
		d.Declarator.Pointers = append(d.Declarator.Pointers, &Node{Kind: NodePointer, Pointer: &Pointer{}})
	}
	return d
}

// ArrayDecl is `id[length]`.
func ArrayDecl(id string, length uint64) *Node {
	return &Node{Kind: NodeTypeDeclarator, Declarator: &TypeDeclarator{
		Kind:   DeclaratorNested,
		Inner:  Decl(id),
		Length: Uint(length),
	}}
}

// SequenceDecl is `id[lengthField]`.
func SequenceDecl(id, lengthField string) *Node {
	return &Node{Kind: NodeTypeDeclarator, Declarator: &TypeDeclarator{
		Kind:   DeclaratorNested,
		Inner:  Decl(id),
		Length: Str(lengthField),
	}}
}

// BitfieldDecl is `id : width`.
func BitfieldDecl(id string, width uint64) *Node {
	d := Decl(id)
	d.Declarator.Bitfield = Uint(width)
	return d
}

func Integer(exprs ...*Node) *Node {
	return &Node{Kind: NodeInteger, Attrs: &Attrs{Exprs: exprs}}
}

func Float(exprs ...*Node) *Node {
	return &Node{Kind: NodeFloatingPoint, Attrs: &Attrs{Exprs: exprs}}
}

func String(exprs ...*Node) *Node {
	return &Node{Kind: NodeString, Attrs: &Attrs{Exprs: exprs}}
}

// Enum builds `enum name : container { enumerators }`. Empty name means anonymous.
func Enum(name string, container []*Node, enumerators ...*Node) *Node {
	return &Node{Kind: NodeEnum, Enum: &EnumDecl{Name: name, HasBody: true, Container: container, Enumerators: enumerators}}
}

// EnumRef is `enum name` without a body.
func EnumRef(name string) *Node {
	return &Node{Kind: NodeEnum, Enum: &EnumDecl{Name: name}}
}

func Enumerator(id string, values ...*Node) *Node {
	return &Node{Kind: NodeEnumerator, Enumerator: &EnumeratorDecl{ID: id, Values: values}}
}

// RangeEnumerator is `id = lo ... hi`.
func RangeEnumerator(id string, lo, hi int64) *Node {
	return Enumerator(id, Int(lo), Linked(Int(hi), LinkDotDotDot))
}

func Struct(name string, decls ...*Node) *Node {
	return &Node{Kind: NodeStruct, Aggregate: &Aggregate{Name: name, HasBody: true, Decls: decls}}
}

func StructRef(name string) *Node {
	return &Node{Kind: NodeStruct, Aggregate: &Aggregate{Name: name}}
}

// Variant builds `variant name <choice> { decls }`.
func Variant(name, choice string, decls ...*Node) *Node {
	return &Node{Kind: NodeVariant, Aggregate: &Aggregate{Name: name, Choice: choice, HasBody: true, Decls: decls}}
}

func VariantRef(name, choice string) *Node {
	return &Node{Kind: NodeVariant, Aggregate: &Aggregate{Name: name, Choice: choice}}
}

// Field is a struct/variant member `spec decls;`.
func Field(spec []*Node, decls ...*Node) *Node {
	return &Node{Kind: NodeStructOrVariantDeclaration, Field: &FieldDecl{Specifier: spec, Declarators: decls}}
}

func Typedef(spec []*Node, decls ...*Node) *Node {
	return &Node{Kind: NodeTypedef, Typedef: &TypedefDecl{Specifier: spec, Declarators: decls}}
}

// Typealias builds `typealias target := alias;`.
func Typealias(target TypealiasPart, alias TypealiasPart) *Node {
	return &Node{Kind: NodeTypealias, Typealias: &TypealiasDecl{Target: target, Alias: alias}}
}

// Part is a shorthand for a TypealiasPart.
func Part(spec []*Node, decls ...*Node) TypealiasPart {
	return TypealiasPart{Specifier: spec, Declarators: decls}
}

func Trace(decls ...*Node) *Node  { return block(NodeTrace, decls) }
func Stream(decls ...*Node) *Node { return block(NodeStream, decls) }
func Event(decls ...*Node) *Node  { return block(NodeEvent, decls) }

func block(kind NodeKind, decls []*Node) *Node {
	return &Node{Kind: kind, Block: &Block{Decls: decls}}
}
