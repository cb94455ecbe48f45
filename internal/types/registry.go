package types

import (
	"ctfmeta/internal/diag"
	"ctfmeta/internal/layout"
	"ctfmeta/internal/source"
)

// Registry creates types and declarations and keeps count of the live ones.
// A balanced session returns both counters to their starting values once
// every scope and model object is released. Not safe for concurrent use.
type Registry struct {
	liveTypes int
	liveDecls int
}

func NewRegistry() *Registry {
	return &Registry{}
}

// LiveTypes is the number of types with a non-zero reference count.
func (r *Registry) LiveTypes() int { return r.liveTypes }

// LiveDecls is the number of declarations with a non-zero reference count.
func (r *Registry) LiveDecls() int { return r.liveDecls }

func (r *Registry) alloc(t *Type) *Type {
	t.refs = 1
	t.reg = r
	r.liveTypes++
	return t
}

// NewInteger validates info and returns an owned integer type.
// Align 0 picks 8 for byte-multiple sizes and 1 otherwise.
func (r *Registry) NewInteger(info IntegerInfo) (*Type, error) {
	if info.Size == 0 || info.Size > 64 {
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "integer size %d out of range 1..64", info.Size)
	}
	if info.Align == 0 {
		info.Align = defaultAlign(info.Size)
	}
	if !layout.IsPow2(info.Align) {
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "integer align %d is not a power of two", info.Align)
	}
	if info.Base == 0 {
		info.Base = 10
	}
	switch info.Base {
	case 2, 8, 10, 16:
	default:
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "integer base %d is not one of 2, 8, 10, 16", info.Base)
	}
	cp := info
	return r.alloc(&Type{Kind: KindInteger, Int: &cp, Layout: layout.Scalar(cp.Size, cp.Align)}), nil
}

func defaultAlign(size uint64) uint64 {
	if size%8 == 0 {
		return 8
	}
	return 1
}

// DeriveInteger copies base (an integer, possibly through aliases) and
// applies edit to the copy. Used for pointer levels and bitfield widths.
func (r *Registry) DeriveInteger(base *Type, edit func(*IntegerInfo)) (*Type, error) {
	u := base.Underlying()
	if u == nil || u.Kind != KindInteger {
		return nil, diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "%s is not an integer", base.Kind)
	}
	info := *u.Int
	edit(&info)
	return r.NewInteger(info)
}

// NewFloat returns an owned floating point type. Align 0 picks 8.
func (r *Registry) NewFloat(info FloatInfo) (*Type, error) {
	if info.ExpDig == 0 || info.MantDig == 0 {
		return nil, diag.Errorf(diag.SemaMissingRequiredField, source.Span{}, "floating_point needs exp_dig and mant_dig")
	}
	if info.ExpDig+info.MantDig > 128 {
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "floating_point of %d bits is too wide", info.ExpDig+info.MantDig)
	}
	if info.Align == 0 {
		info.Align = 8
	}
	if !layout.IsPow2(info.Align) {
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "floating_point align %d is not a power of two", info.Align)
	}
	cp := info
	return r.alloc(&Type{Kind: KindFloat, Float: &cp, Layout: layout.Scalar(cp.ExpDig+cp.MantDig, cp.Align)}), nil
}

// NewString returns an owned string type.
func (r *Registry) NewString(info StringInfo) *Type {
	cp := info
	return r.alloc(&Type{Kind: KindString, Str: &cp, Layout: layout.Variable(8)})
}

// NewEnum builds an enum over container, which must be an integer.
// The enum takes its own reference on container.
func (r *Registry) NewEnum(container *Type, entries []EnumEntry) (*Type, error) {
	if !container.IsInteger() {
		return nil, diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "enum container must be an integer, got %s", container.Underlying().Kind)
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Label]; ok {
			return nil, diag.Errorf(diag.SemaDuplicateName, source.Span{}, "enumerator %q declared twice", e.Label)
		}
		seen[e.Label] = struct{}{}
		if e.End < e.Start {
			return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "enumerator %q has an empty range %d ... %d", e.Label, e.Start, e.End)
		}
	}
	container.Ref()
	info := &EnumInfo{Container: container, Entries: append([]EnumEntry(nil), entries...)}
	return r.alloc(&Type{Kind: KindEnum, Enum: info, Layout: container.Layout}), nil
}

// NewStruct returns an empty owned struct. Add fields, then Seal.
func (r *Registry) NewStruct() *Type {
	return r.alloc(&Type{Kind: KindStruct, Aggregate: &AggregateInfo{}})
}

// NewVariant returns an empty owned variant selected by tag (may be empty
// for an untagged variant). Add fields, then Seal.
func (r *Registry) NewVariant(tag string) *Type {
	return r.alloc(&Type{Kind: KindVariant, Aggregate: &AggregateInfo{Tag: tag}})
}

// AddField appends a member and takes a reference on ft.
func (t *Type) AddField(name string, ft *Type) error {
	if t.Aggregate == nil {
		return diag.Errorf(diag.SemaTypeMismatch, source.Span{}, "%s has no fields", t.Kind)
	}
	if t.Aggregate.sealed {
		return diag.Errorf(diag.SemaUnsupportedNode, source.Span{}, "%s is already complete", t.Kind)
	}
	if _, ok := t.Aggregate.Field(name); ok {
		return diag.Errorf(diag.SemaDuplicateName, source.Span{}, "field %q declared twice", name)
	}
	ft.Ref()
	t.Aggregate.Fields = append(t.Aggregate.Fields, Field{Name: name, Type: ft})
	return nil
}

// AddMember appends the type of declaration d under name, keeping its tag.
func (t *Type) AddMember(name string, d *Declaration) error {
	if err := t.AddField(name, d.Type); err != nil {
		return err
	}
	t.Aggregate.Fields[len(t.Aggregate.Fields)-1].Tag = d.Tag
	return nil
}

// Seal completes an aggregate and computes its layout.
func (t *Type) Seal() error {
	if t.Aggregate == nil || t.Aggregate.sealed {
		return nil
	}
	t.Aggregate.sealed = true
	if t.Kind == KindVariant {
		align := uint64(1)
		for _, f := range t.Aggregate.Fields {
			align = max(align, f.Type.Layout.Align)
		}
		t.Layout = layout.Variable(align)
		return nil
	}
	members := make([]layout.TypeLayout, len(t.Aggregate.Fields))
	for i, f := range t.Aggregate.Fields {
		members[i] = f.Type.Layout
	}
	l, err := layout.Sequential(&layout.Counter{}, members)
	if err != nil {
		return diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "struct layout: %v", err)
	}
	t.Layout = l
	return nil
}

// NewArray returns an owned fixed-length array of elem.
func (r *Registry) NewArray(elem *Type, length uint64) (*Type, error) {
	l, err := layout.Repeated(elem.Layout, length)
	if err != nil {
		return nil, diag.Errorf(diag.SemaMalformedExpression, source.Span{}, "array layout: %v", err)
	}
	elem.Ref()
	return r.alloc(&Type{Kind: KindArray, Elem: elem, Length: length, Layout: l}), nil
}

// NewSequence returns an owned sequence of elem whose length is read from
// the field named lengthRef.
func (r *Registry) NewSequence(elem *Type, lengthRef string) *Type {
	elem.Ref()
	return r.alloc(&Type{Kind: KindSequence, Elem: elem, LengthRef: lengthRef, Layout: layout.Variable(elem.Layout.Align)})
}

// NewAlias returns an owned named alias of target.
func (r *Registry) NewAlias(name string, target *Type) *Type {
	target.Ref()
	return r.alloc(&Type{Kind: KindAlias, Name: name, Target: target, Layout: target.Layout})
}
