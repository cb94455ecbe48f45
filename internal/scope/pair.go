package scope

// Pair is the type scope and declaration scope of one block. The two chains
// are always created and released together.
type Pair[T, D Counted] struct {
	Types *Scope[T]
	Decls *Scope[D]
}

// NewPair creates a pair chained to parent's scopes.
func NewPair[T, D Counted](parent Pair[T, D]) Pair[T, D] {
	return Pair[T, D]{
		Types: New(parent.Types),
		Decls: New(parent.Decls),
	}
}

// Release frees both scopes. Nil members are skipped.
func (p Pair[T, D]) Release() {
	p.Decls.Release()
	p.Types.Release()
}
