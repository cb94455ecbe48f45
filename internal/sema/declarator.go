package sema

import (
	"ctfmeta/internal/ast"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

func spanOf(n *ast.Node) source.Span {
	if n == nil {
		return source.Span{}
	}
	return n.Span
}

// declarator applies pointers, bitfield width and array/sequence
// dimensions to base and returns the declared name with an owned type.
// A nil declarator yields base itself with no name.
func (v *visitor) declarator(base *types.Type, n *ast.Node) (string, *types.Type, error) {
	if n == nil {
		base.Ref()
		return "", base, nil
	}
	d := n.Declarator
	if n.Kind != ast.NodeTypeDeclarator || d == nil {
		return "", nil, unsupported("expected a declarator, got %s", n.Kind)
	}

	t := base
	t.Ref()
	if len(d.Pointers) > 0 {
		levels := len(d.Pointers)
		p, err := v.s.Types.DeriveInteger(t, func(info *types.IntegerInfo) { info.Pointer += levels })
		t.Unref()
		if err != nil {
			return "", nil, diag.Errorf(diag.SemaTypeMismatch, n.Span, "pointer declarator needs an integer type: %v", err)
		}
		t = p
	}
	if d.Bitfield != nil {
		width, err := unsignedOf([]*ast.Node{d.Bitfield})
		if err != nil {
			t.Unref()
			return "", nil, err
		}
		bf, err := v.s.Types.DeriveInteger(t, func(info *types.IntegerInfo) {
			info.Size = width
			info.Align = 1
		})
		t.Unref()
		if err != nil {
			if diag.CodeOf(err) == diag.SemaTypeMismatch {
				return "", nil, diag.Errorf(diag.SemaTypeMismatch, n.Span, "bitfield needs an integer type: %v", err)
			}
			return "", nil, err
		}
		t = bf
	}

	switch d.Kind {
	case ast.DeclaratorID:
		return d.ID, t, nil
	case ast.DeclaratorNested:
		if d.AbstractArray || d.Inner == nil {
			t.Unref()
			return "", nil, unsupported("abstract array declarators are not supported here")
		}
		outer, err := v.dimension(t, d.Length)
		t.Unref()
		if err != nil {
			return "", nil, err
		}
		name, out, err := v.declarator(outer, d.Inner)
		outer.Unref()
		return name, out, err
	}
	t.Unref()
	return "", nil, unsupported("unknown declarator kind %v", d.Kind)
}

// dimension wraps elem into a fixed array for a constant length or a
// sequence for a field name.
func (v *visitor) dimension(elem *types.Type, length *ast.Node) (*types.Type, error) {
	if length == nil || length.Unary == nil {
		return nil, malformed("array declarator without a length")
	}
	if length.Unary.Kind == ast.UnaryString {
		ref, err := concatStrings([]*ast.Node{length})
		if err != nil {
			return nil, err
		}
		return v.s.Types.NewSequence(elem, ref), nil
	}
	n, err := unsignedOf([]*ast.Node{length})
	if err != nil {
		return nil, err
	}
	return v.s.Types.NewArray(elem, n)
}
