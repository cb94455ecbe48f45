// Package scope implements nested lexical environments for named types and
// named field declarations.
//
// A scope maps names to reference-counted values. Registering a value takes
// a reference; releasing the scope drops every reference it holds but never
// touches the parent. Lookups walk the parent chain and the first match wins,
// so a child may shadow its parent while siblings in one scope may not repeat
// a name.
package scope

import (
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
)

// Counted is a value with shared, explicitly counted ownership.
type Counted interface {
	Ref()
	Unref()
}

// Scope is one level of a scope chain.
type Scope[T Counted] struct {
	parent   *Scope[T]
	names    []string // registration order
	index    map[string]T
	released bool
}

// New returns an empty scope whose lookups fall through to parent.
// parent may be nil for a root scope.
func New[T Counted](parent *Scope[T]) *Scope[T] {
	return &Scope[T]{
		parent: parent,
		index:  make(map[string]T),
	}
}

// Parent returns the enclosing scope, nil for a root.
func (s *Scope[T]) Parent() *Scope[T] {
	if s == nil {
		return nil
	}
	return s.parent
}

// Rechain replaces the parent link. Bindings already resolved through the old
// chain are not affected; later lookups see the new ancestors.
func (s *Scope[T]) Rechain(parent *Scope[T]) {
	if s == nil {
		return
	}
	s.parent = parent
}

// Register binds name to v in this scope and takes a reference on v.
// Only this scope is checked for collisions; shadowing an ancestor is allowed.
func (s *Scope[T]) Register(name string, v T) error {
	if s == nil || s.released {
		return diag.Errorf(diag.SemaUnsupportedNode, source.Span{}, "register %q in a released scope", name)
	}
	if _, ok := s.index[name]; ok {
		return diag.Errorf(diag.SemaDuplicateName, source.Span{}, "%q is already declared in this scope", name)
	}
	v.Ref()
	s.index[name] = v
	s.names = append(s.names, name)
	return nil
}

// LookupLocal searches this scope only. The result is borrowed.
func (s *Scope[T]) LookupLocal(name string) (T, bool) {
	var zero T
	if s == nil {
		return zero, false
	}
	v, ok := s.index[name]
	return v, ok
}

// Resolve walks local-then-ancestors and reports how many parent links were
// followed to find name. The result is borrowed.
func (s *Scope[T]) Resolve(name string) (v T, depth int, ok bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.index[name]; ok {
			return v, depth, true
		}
		depth++
	}
	var zero T
	return zero, 0, false
}

// Lookup is Resolve with a NotFound error for the miss case.
func (s *Scope[T]) Lookup(name string) (T, error) {
	v, _, ok := s.Resolve(name)
	if !ok {
		return v, diag.Errorf(diag.SemaNotFound, source.Span{}, "%q not found", name)
	}
	return v, nil
}

// Names lists the local bindings in registration order.
func (s *Scope[T]) Names() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Scope[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Release drops every reference held by this scope, newest first.
// Safe to call more than once.
func (s *Scope[T]) Release() {
	if s == nil || s.released {
		return
	}
	for i := len(s.names) - 1; i >= 0; i-- {
		s.index[s.names[i]].Unref()
	}
	s.names = nil
	s.index = nil
	s.released = true
}

// Released reports whether Release has run.
func (s *Scope[T]) Released() bool {
	return s != nil && s.released
}
