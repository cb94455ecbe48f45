package sema

import (
	"context"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/spanlog"
	"ctfmeta/internal/types"
)

// assignFunc applies one recognized `key = value;` to the block under
// construction.
type assignFunc func(f ctf.Field, right []*ast.Node, span source.Span) error

// body visits the declarations of a trace, stream or event block in order.
// scopes is asked again for every declaration because an event's scopes
// change once its stream is known.
func (v *visitor) body(ctx context.Context, n *ast.Node, keys keySet, scopes func() ctf.Scopes, assign assignFunc) error {
	if n.Block == nil {
		return diag.Errorf(diag.SemaUnsupportedNode, n.Span, "%s block without a body", keys.block)
	}
	for _, d := range n.Block.Decls {
		if d == nil {
			continue
		}
		var err error
		switch d.Kind {
		case ast.NodeTypedef:
			err = v.typedef(d, scopes())
			spanlog.Point(ctx, spanlog.ScopeNode, "typedef", d.Span.String())
		case ast.NodeTypealias:
			err = v.typealias(d, scopes())
			spanlog.Point(ctx, spanlog.ScopeNode, "typealias", d.Span.String())
		case ast.NodeCTFExpression:
			err = v.assignment(d, keys, assign)
		default:
			err = unsupported("%s is not allowed in a %s block", d.Kind, keys.block)
		}
		if err != nil {
			return diag.Locate(err, d.Span)
		}
	}
	return nil
}

func (v *visitor) assignment(d *ast.Node, keys keySet, assign assignFunc) error {
	if d.Expr == nil {
		return unsupported("ctf_expression without payload")
	}
	f, err := keys.field(d.Expr.Left)
	if err != nil {
		return err
	}
	return assign(f, d.Expr.Right, d.Span)
}

// structDecl resolves a struct-typed attribute value into a declaration.
func (v *visitor) structDecl(right []*ast.Node, sc ctf.Scopes) (*types.Declaration, error) {
	if !isSpecifier(right) {
		return nil, diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "expected a struct type, got a constant")
	}
	t, err := v.resolveSpecifier(right, sc)
	if err != nil {
		return nil, err
	}
	defer t.Unref()
	if u := t.Underlying(); u.Kind != types.KindStruct {
		return nil, diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "expected a struct type, got %s", u.Kind)
	}
	return v.declare(t, sc.Decls)
}

// id reads a stream or event id bounded by the session limit.
func (v *visitor) id(right []*ast.Node) (uint64, error) {
	id, err := unsignedOf(right)
	if err != nil {
		return 0, err
	}
	if id > v.s.opts.MaxID {
		return 0, malformed("id %d exceeds the limit of %d", id, v.s.opts.MaxID)
	}
	return id, nil
}
