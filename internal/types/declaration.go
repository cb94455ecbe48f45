package types

import "fmt"

// Tag locates the field selecting a variant's active choice: the field name
// and how many scope levels up from the variant's declaration it was found.
// It is a name, not a reference to the selector declaration.
type Tag struct {
	Name  string
	Depth int
}

// Declaration binds a type to a named field. Variant declarations also
// carry the resolved tag.
type Declaration struct {
	Type *Type
	Tag  *Tag

	refs int32
	reg  *Registry
}

// NewDeclaration returns an owned declaration holding its own reference on t.
func (r *Registry) NewDeclaration(t *Type) *Declaration {
	t.Ref()
	r.liveDecls++
	return &Declaration{Type: t, refs: 1, reg: r}
}

func (d *Declaration) Refs() int32 { return d.refs }

func (d *Declaration) Ref() {
	if d.refs <= 0 {
		panic("types: ref of released declaration")
	}
	d.refs++
}

// Unref drops one reference; the last releases the declared type.
func (d *Declaration) Unref() {
	if d.refs <= 0 {
		panic("types: unref of released declaration")
	}
	d.refs--
	if d.refs > 0 {
		return
	}
	d.Type.Unref()
	if d.reg != nil {
		d.reg.liveDecls--
	}
}

func (d *Declaration) String() string {
	if d.Tag != nil {
		return fmt.Sprintf("%s <%s@%d>", d.Type, d.Tag.Name, d.Tag.Depth)
	}
	return d.Type.String()
}
