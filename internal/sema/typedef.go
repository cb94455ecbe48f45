package sema

import (
	"strings"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/types"
)

// typedef resolves the base specifier once and registers one alias per
// declarator in the current type scope.
func (v *visitor) typedef(n *ast.Node, sc ctf.Scopes) error {
	td := n.Typedef
	if td == nil {
		return unsupported("typedef node without payload")
	}
	if len(td.Declarators) == 0 {
		return malformed("typedef without a name")
	}
	base, err := v.resolveSpecifier(td.Specifier, sc)
	if err != nil {
		return err
	}
	defer base.Unref()

	for _, dn := range td.Declarators {
		name, t, err := v.declarator(base, dn)
		if err != nil {
			return err
		}
		if name == "" {
			t.Unref()
			return malformed("typedef without a name")
		}
		err = v.defineAlias(sc, name, t)
		t.Unref()
		if err != nil {
			return err
		}
	}
	return nil
}

// typealias handles `typealias target := alias;`. Each side takes at most
// one declarator; the target's must be abstract.
func (v *visitor) typealias(n *ast.Node, sc ctf.Scopes) error {
	ta := n.Typealias
	if ta == nil {
		return unsupported("typealias node without payload")
	}
	if len(ta.Target.Declarators) > 1 || len(ta.Alias.Declarators) > 1 {
		return unsupported("typealias takes one declarator per side, got %d and %d",
			len(ta.Target.Declarators), len(ta.Alias.Declarators))
	}
	name, err := aliasName(ta.Alias)
	if err != nil {
		return err
	}
	base, err := v.resolveSpecifier(ta.Target.Specifier, sc)
	if err != nil {
		return err
	}
	defer base.Unref()

	var td *ast.Node
	if len(ta.Target.Declarators) == 1 {
		td = ta.Target.Declarators[0]
	}
	id, t, err := v.declarator(base, td)
	if err != nil {
		return err
	}
	defer t.Unref()
	if id != "" {
		return malformed("typealias target declarator must not name %q", id)
	}
	return v.defineAlias(sc, name, t)
}

// aliasName builds the registered name of a typealias from its alias side:
// the specifier words, a declarator identifier, then one `*` per pointer.
func aliasName(p ast.TypealiasPart) (string, error) {
	var parts []string
	if len(p.Specifier) > 0 {
		s, err := specifierName(p.Specifier)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(p.Declarators) == 1 {
		n := p.Declarators[0]
		if n == nil || n.Declarator == nil || n.Declarator.Kind != ast.DeclaratorID {
			return "", unsupported("typealias alias side takes a simple declarator")
		}
		if n.Declarator.ID != "" {
			parts = append(parts, n.Declarator.ID)
		}
		if k := len(n.Declarator.Pointers); k > 0 {
			parts = append(parts, strings.Repeat("*", k))
		}
	}
	if len(parts) == 0 {
		return "", malformed("typealias without a name")
	}
	return strings.Join(parts, " "), nil
}

func (v *visitor) defineAlias(sc ctf.Scopes, name string, t *types.Type) error {
	a := v.s.Types.NewAlias(name, t)
	err := sc.Types.Register(name, a)
	a.Unref()
	return err
}
