package ctf

import (
	"errors"
	"testing"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

func TestPresence(t *testing.T) {
	var p Presence
	if err := p.Set(FieldMajor, source.Span{}); err != nil {
		t.Fatal(err)
	}
	if err := p.Set(FieldMajor, source.Span{Line: 3, Col: 1}); !errors.Is(err, diag.ErrDuplicateName) {
		t.Fatalf("want DuplicateName, got %v", err)
	}
	err := p.Require(TraceRequired, "trace", source.Span{})
	if !errors.Is(err, diag.ErrMissingRequiredField) {
		t.Fatalf("want MissingRequiredField, got %v", err)
	}
	want := "SEM3005: trace is missing minor, uuid, word_size"
	if err.Error() != want {
		t.Fatalf("want %q, got %q", want, err.Error())
	}
	for _, f := range []Field{FieldMinor, FieldUUID, FieldWordSize} {
		if err := p.Set(f, source.Span{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := p.Require(TraceRequired, "trace", source.Span{}); err != nil {
		t.Fatalf("complete trace: %v", err)
	}
}

func TestSlotsSparse(t *testing.T) {
	var s Slots[string]
	for _, id := range []int{0, 5, 2} {
		if !s.Put(id, string(rune('a'+id))) {
			t.Fatalf("Put(%d) rejected", id)
		}
	}
	if s.Len() != 6 || s.Count() != 3 {
		t.Fatalf("len=%d count=%d", s.Len(), s.Count())
	}
	for _, id := range []int{1, 3, 4} {
		if _, ok := s.Get(id); ok {
			t.Fatalf("slot %d should be empty", id)
		}
	}
	if v, ok := s.Get(5); !ok || v != "f" {
		t.Fatalf("slot 5 = %q, %v", v, ok)
	}
	if s.Put(5, "dup") {
		t.Fatalf("occupied slot accepted a value")
	}
	if v, _ := s.Get(5); v != "f" {
		t.Fatalf("first registration must stand, got %q", v)
	}
	var order []int
	s.Each(func(id int, _ string) bool {
		order = append(order, id)
		return true
	})
	if len(order) != 3 || order[0] != 0 || order[1] != 2 || order[2] != 5 {
		t.Fatalf("Each order %v", order)
	}
	if _, ok := s.Get(-1); ok {
		t.Fatalf("negative id")
	}
}

func newScopes() Scopes {
	return Scopes{}
}

func structDecl(t *testing.T, r *types.Registry) *types.Declaration {
	t.Helper()
	st := r.NewStruct()
	if err := st.Seal(); err != nil {
		t.Fatal(err)
	}
	d := r.NewDeclaration(st)
	st.Unref()
	return d
}

func TestTraceReleaseFreesEverything(t *testing.T) {
	r := types.NewRegistry()
	names := source.NewInterner()

	tr := NewTrace(newScopes(), source.Span{})
	tr.PacketHeader = structDecl(t, r)

	s := NewStream(tr, source.Span{})
	s.EventHeader = structDecl(t, r)
	if err := tr.AddStream(s); err != nil {
		t.Fatal(err)
	}
	dup := NewStream(tr, source.Span{})
	if err := tr.AddStream(dup); !errors.Is(err, diag.ErrDuplicateName) {
		t.Fatalf("want DuplicateName for stream 0 twice, got %v", err)
	}
	dup.Release()

	for _, id := range []uint64{0, 5, 2} {
		e := NewEvent(tr, source.Span{})
		e.Attach(s)
		e.ID = id
		e.Name = names.Intern(string(rune('a' + id)))
		e.Fields = structDecl(t, r)
		if err := s.AddEvent(e, names); err != nil {
			t.Fatal(err)
		}
	}
	if s.Events.Len() != 6 {
		t.Fatalf("event table len %d", s.Events.Len())
	}
	if e, ok := s.EventByName(names.Intern("c")); !ok || e.ID != 2 {
		t.Fatalf("EventByName(c) = %v, %v", e, ok)
	}

	again := NewEvent(tr, source.Span{})
	again.Attach(s)
	again.ID = 7
	again.Name = names.Intern("a")
	if err := s.AddEvent(again, names); !errors.Is(err, diag.ErrDuplicateName) {
		t.Fatalf("want DuplicateName for repeated name, got %v", err)
	}
	again.ID = 5
	again.Name = names.Intern("z")
	if err := s.AddEvent(again, names); !errors.Is(err, diag.ErrDuplicateName) {
		t.Fatalf("want DuplicateName for repeated id, got %v", err)
	}
	if _, ok := s.EventByName(names.Intern("z")); ok {
		t.Fatalf("rejected event leaked into the name index")
	}
	again.Release()

	if r.LiveDecls() != 5 {
		t.Fatalf("live decls before release: %d", r.LiveDecls())
	}
	tr.Release()
	if r.LiveDecls() != 0 || r.LiveTypes() != 0 {
		t.Fatalf("leaked decls=%d types=%d", r.LiveDecls(), r.LiveTypes())
	}
	if !s.Scopes.Types.Released() {
		t.Fatalf("stream scopes not released")
	}
}

func TestEventAttachRechains(t *testing.T) {
	r := types.NewRegistry()
	tr := NewTrace(newScopes(), source.Span{})
	s := NewStream(tr, source.Span{})

	u8, err := r.NewInteger(types.IntegerInfo{Size: 8})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Scopes.Types.Register("u8", u8); err != nil {
		t.Fatal(err)
	}
	u8.Unref()

	e := NewEvent(tr, source.Span{})
	if e.Attached() {
		t.Fatalf("event must not have a declaration scope before Attach")
	}
	if _, err := e.Scopes.Types.Lookup("u8"); !errors.Is(err, diag.ErrNotFound) {
		t.Fatalf("stream types visible before Attach: %v", err)
	}
	e.Attach(s)
	if _, err := e.Scopes.Types.Lookup("u8"); err != nil {
		t.Fatalf("stream types not visible after Attach: %v", err)
	}
	if e.Scopes.Decls.Parent() != s.Scopes.Decls {
		t.Fatalf("declaration scope not chained to the stream")
	}
	e.Release()
	s.Release()
	tr.Release()
	if r.LiveTypes() != 0 {
		t.Fatalf("leaked %d types", r.LiveTypes())
	}
}

func TestSlotsRemoveTrimsTail(t *testing.T) {
	var s Slots[string]
	for _, id := range []int{0, 2, 5} {
		s.Put(id, "x")
	}
	if _, ok := s.Remove(3); ok {
		t.Fatalf("empty slot reported as removed")
	}
	if _, ok := s.Remove(5); !ok {
		t.Fatalf("Remove(5) missed")
	}
	if s.Len() != 3 || s.Count() != 2 {
		t.Fatalf("after removing 5: len=%d count=%d, want 3 and 2", s.Len(), s.Count())
	}
	if _, ok := s.Remove(0); !ok || s.Len() != 3 {
		t.Fatalf("removing a middle slot must not trim: len=%d", s.Len())
	}
	if !s.Put(5, "y") || s.Len() != 6 {
		t.Fatalf("slot 5 must be reusable, len=%d", s.Len())
	}
}
