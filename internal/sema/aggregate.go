package sema

import (
	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/scope"
	"ctfmeta/internal/types"
)

// aggregate builds a struct or variant body, or looks up `struct name` /
// `variant name`. Members live in a fresh scope pair under sc, released
// once the body is done; only the finished type escapes.
func (v *visitor) aggregate(n *ast.Node, sc ctf.Scopes) (*types.Type, error) {
	ag := n.Aggregate
	if ag == nil {
		return nil, unsupported("%s node without payload", n.Kind)
	}
	key := n.Kind.String() + " " + ag.Name
	if !ag.HasBody {
		if ag.Name == "" {
			return nil, unsupported("anonymous %s without a body", n.Kind)
		}
		t, err := lookupType(sc, key)
		if err != nil {
			return nil, err
		}
		if n.Kind == ast.NodeVariant && ag.Choice != "" && t.Underlying().Aggregate.Tag != ag.Choice {
			return v.retag(t, ag.Choice)
		}
		return t, nil
	}

	var t *types.Type
	if n.Kind == ast.NodeVariant {
		t = v.s.Types.NewVariant(ag.Choice)
	} else {
		t = v.s.Types.NewStruct()
	}
	body := scope.NewPair(sc)
	err := v.members(ag.Decls, t, body)
	body.Release()
	if err == nil {
		err = t.Seal()
	}
	if err == nil && ag.Name != "" {
		t.Name = key
		err = sc.Types.Register(key, t)
	}
	if err != nil {
		t.Unref()
		return nil, diag.Locate(err, n.Span)
	}
	return t, nil
}

// retag copies a named variant under a different selector, as in
// `variant v <other_tag> x;`. Consumes the caller's reference on t.
func (v *visitor) retag(t *types.Type, tag string) (*types.Type, error) {
	defer t.Unref()
	src := t.Underlying()
	nv := v.s.Types.NewVariant(tag)
	nv.Name = t.Name
	for _, f := range src.Aggregate.Fields {
		if err := nv.AddField(f.Name, f.Type); err != nil {
			nv.Unref()
			return nil, err
		}
		nv.Aggregate.Fields[len(nv.Aggregate.Fields)-1].Tag = f.Tag
	}
	if err := nv.Seal(); err != nil {
		nv.Unref()
		return nil, err
	}
	return nv, nil
}

func (v *visitor) members(decls []*ast.Node, agg *types.Type, body ctf.Scopes) error {
	for _, d := range decls {
		if d == nil {
			continue
		}
		var err error
		switch d.Kind {
		case ast.NodeStructOrVariantDeclaration:
			err = v.field(d, agg, body)
		case ast.NodeTypedef:
			err = v.typedef(d, body)
		case ast.NodeTypealias:
			err = v.typealias(d, body)
		default:
			err = unsupported("%s is not allowed in a %s body", d.Kind, agg.Kind)
		}
		if err != nil {
			return diag.Locate(err, d.Span)
		}
	}
	return nil
}

// field declares every declarator of one member line. Each member is
// registered as a declaration in the body scope before the next one is
// resolved, so a later variant can use an earlier sibling as its tag.
func (v *visitor) field(n *ast.Node, agg *types.Type, body ctf.Scopes) error {
	f := n.Field
	if f == nil {
		return unsupported("field node without payload")
	}
	if len(f.Declarators) == 0 {
		return malformed("field without a name")
	}
	base, err := v.resolveSpecifier(f.Specifier, body)
	if err != nil {
		return err
	}
	defer base.Unref()

	for _, dn := range f.Declarators {
		name, ft, err := v.declarator(base, dn)
		if err != nil {
			return diag.Locate(err, spanOf(dn))
		}
		if name == "" {
			ft.Unref()
			return malformed("field without a name")
		}
		decl, err := v.declare(ft, body.Decls)
		ft.Unref()
		if err != nil {
			return diag.Locate(err, spanOf(dn))
		}
		if err := body.Decls.Register(name, decl); err != nil {
			decl.Unref()
			return diag.Locate(err, spanOf(dn))
		}
		err = agg.AddMember(name, decl)
		decl.Unref()
		if err != nil {
			return diag.Locate(err, spanOf(dn))
		}
	}
	return nil
}
