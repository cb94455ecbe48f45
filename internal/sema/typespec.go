package sema

import (
	"strings"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

func unsupported(format string, args ...any) error {
	return diag.Errorf(diag.SemaUnsupportedNode, source.Span{}, format, args...)
}

// resolveSpecifier turns a declaration specifier list into a type. A single
// integer/floating_point/string/enum/struct/variant node is built inline
// (and registered when named); anything else is a lookup by name. The
// caller owns one reference on the result.
func (v *visitor) resolveSpecifier(nodes []*ast.Node, sc ctf.Scopes) (*types.Type, error) {
	nodes = dropConst(nodes)
	if len(nodes) == 0 {
		return nil, unsupported("empty type specifier")
	}
	if len(nodes) == 1 {
		n := nodes[0]
		switch n.Kind {
		case ast.NodeInteger:
			return v.integer(n)
		case ast.NodeFloatingPoint:
			return v.float(n)
		case ast.NodeString:
			return v.str(n)
		case ast.NodeEnum:
			return v.enum(n, sc)
		case ast.NodeStruct, ast.NodeVariant:
			return v.aggregate(n, sc)
		}
	}
	name, err := specifierName(nodes)
	if err != nil {
		return nil, err
	}
	return lookupType(sc, name)
}

func dropConst(nodes []*ast.Node) []*ast.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil && n.Kind == ast.NodeTypeSpecifier && n.TypeSpec != nil && n.TypeSpec.Type == ast.TypeSpecConst {
			continue
		}
		out = append(out, n)
	}
	return out
}

// specifierName is the lookup key of a named specifier list: the type name
// for an identifier, the space-joined keywords for `unsigned int`.
func specifierName(nodes []*ast.Node) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || n.Kind != ast.NodeTypeSpecifier || n.TypeSpec == nil {
			kind := ast.NodeUnknown
			if n != nil {
				kind = n.Kind
			}
			return "", unsupported("%s cannot be combined with other type specifiers", kind)
		}
		switch n.TypeSpec.Type {
		case ast.TypeSpecID:
			if n.TypeSpec.ID == "" {
				return "", unsupported("type identifier without a name")
			}
			parts = append(parts, n.TypeSpec.ID)
		case ast.TypeSpecConst:
		default:
			parts = append(parts, n.TypeSpec.Type.String())
		}
	}
	return strings.Join(parts, " "), nil
}

func lookupType(sc ctf.Scopes, name string) (*types.Type, error) {
	t, _, ok := sc.Types.Resolve(name)
	if !ok {
		return nil, diag.Errorf(diag.SemaUnknownType, source.Span{}, "unknown type %q", name)
	}
	t.Ref()
	return t, nil
}

// attrs walks the `key = value;` list of an integer, floating_point or
// string body, rejecting repeated keys.
func attrs(n *ast.Node, fn func(key string, right []*ast.Node) error) (map[string]bool, error) {
	seen := make(map[string]bool)
	if n.Attrs == nil {
		return seen, nil
	}
	for _, e := range n.Attrs.Exprs {
		if e == nil || e.Kind != ast.NodeCTFExpression || e.Expr == nil {
			return nil, unsupported("%s body holds only attribute assignments", n.Kind)
		}
		key, err := keyName(e.Expr.Left)
		if err != nil {
			return nil, diag.Locate(err, e.Span)
		}
		if seen[key] {
			return nil, diag.Errorf(diag.SemaDuplicateName, e.Span, "%s attribute %s is already set", n.Kind, key)
		}
		seen[key] = true
		if err := fn(key, e.Expr.Right); err != nil {
			return nil, diag.Locate(err, e.Span)
		}
	}
	return seen, nil
}

func unknownAttr(kind ast.NodeKind, key string) error {
	return diag.Errorf(diag.SemaUnknownAttribute, source.Span{}, "%s has no %q attribute", kind, key)
}

func (v *visitor) integer(n *ast.Node) (*types.Type, error) {
	var info types.IntegerInfo
	seen, err := attrs(n, func(key string, right []*ast.Node) (err error) {
		switch key {
		case "size":
			info.Size, err = unsignedOf(right)
		case "align":
			info.Align, err = unsignedOf(right)
		case "signed":
			info.Signed, err = boolOf(right)
		case "byte_order":
			info.ByteOrder, err = byteOrderOf(right)
		case "base":
			info.Base, err = baseOf(right)
		case "encoding":
			info.Encoding, err = encodingOf(right)
		default:
			err = unknownAttr(n.Kind, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if !seen["size"] {
		return nil, diag.Errorf(diag.SemaMissingRequiredField, n.Span, "integer is missing size")
	}
	t, err := v.s.Types.NewInteger(info)
	return t, diag.Locate(err, n.Span)
}

func (v *visitor) float(n *ast.Node) (*types.Type, error) {
	var info types.FloatInfo
	_, err := attrs(n, func(key string, right []*ast.Node) (err error) {
		switch key {
		case "exp_dig":
			info.ExpDig, err = unsignedOf(right)
		case "mant_dig":
			info.MantDig, err = unsignedOf(right)
		case "align":
			info.Align, err = unsignedOf(right)
		case "byte_order":
			info.ByteOrder, err = byteOrderOf(right)
		default:
			err = unknownAttr(n.Kind, key)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	t, err := v.s.Types.NewFloat(info)
	return t, diag.Locate(err, n.Span)
}

func (v *visitor) str(n *ast.Node) (*types.Type, error) {
	info := types.StringInfo{Encoding: types.EncodingUTF8}
	_, err := attrs(n, func(key string, right []*ast.Node) (err error) {
		if key != "encoding" {
			return unknownAttr(n.Kind, key)
		}
		info.Encoding, err = encodingOf(right)
		return err
	})
	if err != nil {
		return nil, err
	}
	return v.s.Types.NewString(info), nil
}

// enum builds `enum name : container { ... }` or looks up `enum name`.
// Without an explicit container the enum uses the `int` type in scope.
func (v *visitor) enum(n *ast.Node, sc ctf.Scopes) (*types.Type, error) {
	en := n.Enum
	if en == nil {
		return nil, unsupported("enum node without payload")
	}
	key := "enum " + en.Name
	if !en.HasBody {
		if en.Name == "" {
			return nil, unsupported("anonymous enum without a body")
		}
		return lookupType(sc, key)
	}

	var (
		container *types.Type
		err       error
	)
	if len(en.Container) > 0 {
		container, err = v.resolveSpecifier(en.Container, sc)
	} else {
		container, err = lookupType(sc, "int")
	}
	if err != nil {
		return nil, err
	}
	defer container.Unref()

	var b types.EnumBuilder
	for _, e := range en.Enumerators {
		if err := addEnumerator(&b, e); err != nil {
			return nil, diag.Locate(err, e.Span)
		}
	}
	t, err := v.s.Types.NewEnum(container, b.Entries())
	if err != nil {
		return nil, diag.Locate(err, n.Span)
	}
	if en.Name != "" {
		t.Name = key
		if err := sc.Types.Register(key, t); err != nil {
			t.Unref()
			return nil, diag.Locate(err, n.Span)
		}
	}
	return t, nil
}

func addEnumerator(b *types.EnumBuilder, n *ast.Node) error {
	if n == nil || n.Kind != ast.NodeEnumerator || n.Enumerator == nil {
		return unsupported("enum body holds only enumerators")
	}
	e := n.Enumerator
	switch len(e.Values) {
	case 0:
		return b.Next(e.ID)
	case 1:
		val, err := signedOf(e.Values[0])
		if err != nil {
			return err
		}
		return b.Value(e.ID, val)
	case 2:
		if e.Values[1].Unary == nil || e.Values[1].Unary.Link != ast.LinkDotDotDot {
			return malformed("enumerator %q: expected `lo ... hi`", e.ID)
		}
		lo, err := signedOf(e.Values[0])
		if err != nil {
			return err
		}
		hi, err := signedOf(e.Values[1])
		if err != nil {
			return err
		}
		return b.Range(e.ID, lo, hi)
	}
	return malformed("enumerator %q has %d values", e.ID, len(e.Values))
}
