package ast

// Inspect walks n depth-first in source order, calling f for every node.
// If f returns false the children of that node are skipped.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}
	each := func(list []*Node) {
		for _, c := range list {
			Inspect(c, f)
		}
	}
	switch {
	case n.Block != nil:
		each(n.Block.Decls)
	case n.Expr != nil:
		each(n.Expr.Left)
		each(n.Expr.Right)
	case n.Typedef != nil:
		each(n.Typedef.Specifier)
		each(n.Typedef.Declarators)
	case n.Typealias != nil:
		each(n.Typealias.Target.Specifier)
		each(n.Typealias.Target.Declarators)
		each(n.Typealias.Alias.Specifier)
		each(n.Typealias.Alias.Declarators)
	case n.Declarator != nil:
		each(n.Declarator.Pointers)
		Inspect(n.Declarator.Inner, f)
		Inspect(n.Declarator.Length, f)
		Inspect(n.Declarator.Bitfield, f)
	case n.Attrs != nil:
		each(n.Attrs.Exprs)
	case n.Enumerator != nil:
		each(n.Enumerator.Values)
	case n.Enum != nil:
		each(n.Enum.Container)
		each(n.Enum.Enumerators)
	case n.Field != nil:
		each(n.Field.Specifier)
		each(n.Field.Declarators)
	case n.Aggregate != nil:
		each(n.Aggregate.Decls)
	}
}

// InspectRoot walks every top-level group of r in visiting order.
func InspectRoot(r *Root, f func(*Node) bool) {
	if r == nil {
		return
	}
	for _, group := range [][]*Node{r.Typedefs, r.Typealiases} {
		for _, n := range group {
			Inspect(n, f)
		}
	}
	for _, spec := range r.Specifiers {
		for _, n := range spec {
			Inspect(n, f)
		}
	}
	for _, group := range [][]*Node{r.Traces, r.Streams, r.Events} {
		for _, n := range group {
			Inspect(n, f)
		}
	}
}

// Count returns the number of nodes reachable from r.
func Count(r *Root) int {
	total := 0
	InspectRoot(r, func(*Node) bool {
		total++
		return true
	})
	return total
}
