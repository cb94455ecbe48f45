package ast

import (
	"testing"

	"gopkg.in/yaml.v3"

	"ctfmeta/internal/source"
)

func TestKeySplitsDottedPath(t *testing.T) {
	parts := Key("packet.context")
	if len(parts) != 2 {
		t.Fatalf("want 2 parts, got %d", len(parts))
	}
	if parts[0].Unary.Str != "packet" || parts[0].Unary.Link != LinkNone {
		t.Fatalf("unexpected head: %+v", parts[0].Unary)
	}
	if parts[1].Unary.Str != "context" || parts[1].Unary.Link != LinkDot {
		t.Fatalf("unexpected tail: %+v", parts[1].Unary)
	}
}

func TestKindTextRoundTrip(t *testing.T) {
	for k := NodeUnknown; k <= NodeStruct; k++ {
		text, err := k.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", k, err)
		}
		var back NodeKind
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("unmarshal %q: %v", text, err)
		}
		if back != k {
			t.Fatalf("round trip %v -> %q -> %v", k, text, back)
		}
	}
	var l Link
	if err := l.UnmarshalText([]byte("->")); err != nil || l != LinkArrow {
		t.Fatalf("link arrow: %v %v", l, err)
	}
	var bad TypeSpecKind
	if err := bad.UnmarshalText([]byte("quad")); err == nil {
		t.Fatalf("expected error for unknown keyword")
	}
}

func TestCountVisitsNestedNodes(t *testing.T) {
	root := &Root{
		Traces: []*Node{Trace(
			Assign("major", Uint(1)),
		)},
		Events: []*Node{Event(
			Assign("fields", Struct("", Field(Spec(ID("u8")), Decl("x")))),
		)},
	}
	// trace(1) + expr(1) + key(1) + value(1)
	// event(1) + expr(1) + key(1) + struct(1) + field(1) + spec(1) + decl(1)
	if got := Count(root); got != 11 {
		t.Fatalf("Count: want 11, got %d", got)
	}
}

func TestYAMLFillsMissingSpans(t *testing.T) {
	const doc = `
traces:
  - kind: trace
    block:
      decls:
        - kind: ctf_expression
          span: {line: 40, col: 2}
          expr:
            left: [{kind: unary_expression, unary: {kind: string, str: major}}]
            right: [{kind: unary_expression, unary: {kind: unsigned_constant, unsigned: 1}}]
`
	var root Root
	if err := yaml.Unmarshal([]byte(doc), &root); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tr := root.Traces[0]
	if tr.Kind != NodeTrace || tr.Span != (source.Span{Line: 3, Col: 5}) {
		t.Fatalf("trace: kind %v span %v", tr.Kind, tr.Span)
	}
	expr := tr.Block.Decls[0]
	if expr.Span != (source.Span{Line: 40, Col: 2}) {
		t.Fatalf("explicit span overwritten: %v", expr.Span)
	}
	if u := expr.Expr.Right[0].Unary; u.Kind != UnaryUnsignedConstant || u.Unsigned != 1 {
		t.Fatalf("value: %+v", u)
	}
}

func TestDeclarationBuildersFillPayloads(t *testing.T) {
	td := Typedef(Spec(ID("uint32_t")), Decl("pid_t"))
	var tdd *TypedefDecl = td.Typedef
	if td.Kind != NodeTypedef || tdd == nil || len(tdd.Declarators) != 1 {
		t.Fatalf("typedef payload: %+v", td)
	}

	ta := Typealias(Part(Spec(ID("uint32_t"))), Part(nil, Decl("u32")))
	var tad *TypealiasDecl = ta.Typealias
	if ta.Kind != NodeTypealias || tad == nil || len(tad.Alias.Declarators) != 1 {
		t.Fatalf("typealias payload: %+v", ta)
	}

	en := Enum("color", Spec(ID("uint8_t")), Enumerator("RED"), RangeEnumerator("BLUE", 3, 5))
	var ed *EnumDecl = en.Enum
	if en.Kind != NodeEnum || ed == nil || !ed.HasBody || len(ed.Enumerators) != 2 {
		t.Fatalf("enum payload: %+v", en)
	}
	var eds *EnumeratorDecl = ed.Enumerators[1].Enumerator
	if eds == nil || eds.ID != "BLUE" || len(eds.Values) != 2 {
		t.Fatalf("enumerator payload: %+v", ed.Enumerators[1])
	}
	if ref := EnumRef("color"); ref.Enum == nil || ref.Enum.HasBody {
		t.Fatalf("enum ref must have no body: %+v", ref)
	}
}
