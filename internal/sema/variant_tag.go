package sema

import (
	"ctfmeta/internal/diag"
	"ctfmeta/internal/scope"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

// declare instantiates a declaration of t. Variants, also as array or
// sequence elements, get their tag resolved against decls first; the
// declaration is released again if that fails.
func (v *visitor) declare(t *types.Type, decls *scope.Scope[*types.Declaration]) (*types.Declaration, error) {
	d := v.s.Types.NewDeclaration(t)
	u := t.Underlying()
	for u.Kind == types.KindArray || u.Kind == types.KindSequence {
		u = u.Elem.Underlying()
	}
	if u.Kind == types.KindVariant {
		tag, err := resolveTag(u.Aggregate.Tag, decls)
		if err != nil {
			d.Unref()
			return nil, err
		}
		d.Tag = tag
	}
	return d, nil
}

// resolveTag finds the selector field of a variant. It must be a field
// reachable through the declaration scope chain, and an enum.
func resolveTag(name string, decls *scope.Scope[*types.Declaration]) (*types.Tag, error) {
	if name == "" {
		return nil, diag.Errorf(diag.SemaInvalidTag, source.Span{}, "variant has no tag")
	}
	sel, depth, ok := decls.Resolve(name)
	if !ok {
		return nil, diag.Errorf(diag.SemaInvalidTag, source.Span{}, "variant tag %q does not name a reachable field", name)
	}
	if !sel.Type.IsEnum() {
		return nil, diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "variant tag %q is a %s, not an enum", name, sel.Type.Underlying().Kind)
	}
	return &types.Tag{Name: name, Depth: depth}, nil
}
