package sema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/types"
)

func TestEnumAutoIncrement(t *testing.T) {
	root := withModel()
	root.Typedefs = append(root.Typedefs, ast.Typedef(ast.Spec(ast.Enum("", ast.Spec(ast.ID("uint8_t")),
		ast.Enumerator("A"),
		ast.Enumerator("B", ast.Uint(5)),
		ast.Enumerator("C"),
		ast.Enumerator("D", ast.Int(2)),
		ast.Enumerator("E"),
		ast.RangeEnumerator("F", 10, 19),
		ast.Enumerator("G"),
	)), ast.Decl("letters_t")))
	h, _ := mustBuild(t, root)

	en := rootType(t, h.s, "letters_t").Underlying()
	if en.Kind != types.KindEnum {
		t.Fatalf("letters_t is a %s", en.Kind)
	}
	want := []types.EnumEntry{
		{Label: "A", Start: 0, End: 0},
		{Label: "B", Start: 5, End: 5},
		{Label: "C", Start: 6, End: 6},
		{Label: "D", Start: 2, End: 2},
		{Label: "E", Start: 3, End: 3},
		{Label: "F", Start: 10, End: 19},
		{Label: "G", Start: 20, End: 20},
	}
	if diff := cmp.Diff(want, en.Enum.Entries); diff != "" {
		t.Fatalf("enumerators (-want +got):\n%s", diff)
	}
}

func TestEnumDefaultContainerAndTagNamespace(t *testing.T) {
	root := withModel()
	root.Specifiers = [][]*ast.Node{
		ast.Spec(ast.Enum("color", nil, ast.Enumerator("RED"), ast.Enumerator("GREEN"))),
	}
	h, _ := mustBuild(t, root)

	en := rootType(t, h.s, "enum color")
	if en.Enum.Container.Underlying().Int.Size != 32 || !en.Enum.Container.Underlying().Int.Signed {
		t.Fatalf("default container should be the int alias, got %s", en.Enum.Container)
	}
	if _, ok := h.s.Root.Types.LookupLocal("color"); ok {
		t.Fatalf("enum tags must not leak into plain type names")
	}
}

func TestEnumErrors(t *testing.T) {
	tests := []struct {
		name string
		spec *ast.Node
		want error
	}{
		{"duplicate label", ast.Enum("", ast.Spec(ast.ID("uint8_t")), ast.Enumerator("A"), ast.Enumerator("A")), diag.ErrDuplicateName},
		{"string container", ast.Enum("", ast.Spec(ast.String()), ast.Enumerator("A")), diag.ErrTypeMismatch},
		{"unknown ref", ast.EnumRef("nope"), diag.ErrUnknownType},
		{"empty range", ast.Enum("", ast.Spec(ast.ID("uint8_t")), ast.RangeEnumerator("A", 5, 1)), diag.ErrMalformedExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := withModel()
			root.Typedefs = append(root.Typedefs, ast.Typedef(ast.Spec(tt.spec), ast.Decl("e_t")))
			_, err := newHarness(t, Options{}).build(root)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func kindEnum() *ast.Node {
	return ast.Enum("", ast.Spec(ast.ID("uint8_t")), ast.Enumerator("SMALL"), ast.Enumerator("LARGE"))
}

func choice(tag string) *ast.Node {
	return ast.Variant("", tag,
		field(ast.ID("uint8_t"), "small"),
		field(ast.ID("uint32_t"), "large"),
	)
}

func TestVariantTagResolvesToSiblingEnum(t *testing.T) {
	fields := ast.Struct("",
		field(kindEnum(), "kind"),
		field(choice("kind"), "value"),
	)
	_, tr := mustBuild(t, withModel(eventBlock(0, 0, "evt", ast.Assign("fields", fields))))

	st := eventOf(t, tr, 0, 0).Fields.Type
	if len(st.Aggregate.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d", len(st.Aggregate.Fields))
	}
	value := st.Aggregate.Fields[1]
	if value.Tag == nil || *value.Tag != (types.Tag{Name: "kind", Depth: 0}) {
		t.Fatalf("unexpected tag %+v", value.Tag)
	}
	if value.Type.Aggregate.Tag != "kind" || !value.Type.Layout.Variable {
		t.Fatalf("unexpected variant %s", value.Type)
	}
}

func TestVariantTagFromEnclosingStruct(t *testing.T) {
	fields := ast.Struct("",
		field(kindEnum(), "kind"),
		field(ast.Struct("", field(choice("kind"), "value")), "payload"),
	)
	_, tr := mustBuild(t, withModel(eventBlock(0, 0, "evt", ast.Assign("fields", fields))))

	payload, _ := eventOf(t, tr, 0, 0).Fields.Type.Aggregate.Field("payload")
	tag := payload.Aggregate.Fields[0].Tag
	if tag == nil || tag.Depth != 1 {
		t.Fatalf("want tag one scope up, got %+v", tag)
	}
}

func TestVariantTagErrors(t *testing.T) {
	tests := []struct {
		name   string
		fields *ast.Node
		want   error
	}{
		{"struct selector", ast.Struct("",
			field(ast.Struct("", field(ast.ID("uint8_t"), "a")), "kind"),
			field(choice("kind"), "value"),
		), diag.ErrTypeMismatch},
		{"integer selector", ast.Struct("",
			field(ast.ID("uint8_t"), "kind"),
			field(choice("kind"), "value"),
		), diag.ErrTypeMismatch},
		{"undeclared selector", ast.Struct("",
			field(choice("kind"), "value"),
		), diag.ErrInvalidTag},
		{"selector declared later", ast.Struct("",
			field(choice("kind"), "value"),
			field(kindEnum(), "kind"),
		), diag.ErrInvalidTag},
		{"untagged variant", ast.Struct("",
			field(kindEnum(), "kind"),
			field(choice(""), "value"),
		), diag.ErrInvalidTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newHarness(t, Options{}).build(withModel(eventBlock(0, 0, "evt", ast.Assign("fields", tt.fields))))
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestNamedVariantRetag(t *testing.T) {
	root := withModel(eventBlock(0, 0, "evt", ast.Assign("fields", ast.Struct("",
		field(kindEnum(), "sel"),
		field(ast.VariantRef("choice", "sel"), "value"),
	))))
	root.Specifiers = [][]*ast.Node{ast.Spec(ast.Variant("choice", "kind",
		field(ast.ID("uint8_t"), "small"),
	))}
	_, tr := mustBuild(t, root)
	value, _ := eventOf(t, tr, 0, 0).Fields.Type.Aggregate.Field("value")
	if value.Aggregate.Tag != "sel" {
		t.Fatalf("want retagged variant, got tag %q", value.Aggregate.Tag)
	}
}

func TestStreamScopeVisibility(t *testing.T) {
	local := ast.Typedef(ast.Spec(ast.ID("uint32_t")), ast.Decl("local_t"))
	usesLocal := ast.Assign("fields", ast.Struct("", field(ast.ID("local_t"), "x")))

	root := withModel(eventBlock(0, 0, "ok", usesLocal))
	root.Streams = []*ast.Node{streamBlock(0, local)}
	mustBuild(t, root)

	root = withModel(eventBlock(1, 0, "bad", usesLocal))
	root.Streams = []*ast.Node{streamBlock(0, local), streamBlock(1)}
	_, err := newHarness(t, Options{}).build(root)
	if !errors.Is(err, diag.ErrUnknownType) {
		t.Fatalf("stream 0 types leaked into stream 1: %v", err)
	}
}

func TestShadowingParentType(t *testing.T) {
	// uint8_t is redefined inside the stream as 16 bits.
	shadow := ast.Typealias(ast.Part(ast.Spec(uintType(16, false))), ast.Part(ast.Spec(ast.ID("uint8_t"))))
	root := withModel(eventBlock(0, 0, "evt", ast.Assign("fields", ast.Struct("", field(ast.ID("uint8_t"), "x")))))
	root.Streams = []*ast.Node{streamBlock(0, shadow)}
	_, tr := mustBuild(t, root)
	x, _ := eventOf(t, tr, 0, 0).Fields.Type.Aggregate.Field("x")
	if got := x.Underlying().Int.Size; got != 16 {
		t.Fatalf("want the stream's 16-bit uint8_t, got %d bits", got)
	}

	dup := withModel()
	dup.Streams = []*ast.Node{streamBlock(0, shadow, shadow)}
	if _, err := newHarness(t, Options{}).build(dup); !errors.Is(err, diag.ErrDuplicateName) {
		t.Fatalf("want DuplicateName for a sibling redefinition, got %v", err)
	}
}

func TestDeclarators(t *testing.T) {
	fields := ast.Struct("",
		field(ast.ID("uint32_t"), "len"),
		ast.Field(ast.Spec(ast.ID("uint8_t")), ast.SequenceDecl("data", "len")),
		ast.Field(ast.Spec(ast.ID("uint8_t")), ast.ArrayDecl("mac", 6)),
		ast.Field(ast.Spec(ast.ID("uint32_t")), ast.BitfieldDecl("flags", 3)),
		ast.Field(ast.Spec(ast.ID("uint32_t")), ast.Pointers(1, ast.Decl("addr"))),
	)
	_, tr := mustBuild(t, withModel(eventBlock(0, 0, "evt", ast.Assign("fields", fields))))
	agg := eventOf(t, tr, 0, 0).Fields.Type.Aggregate

	data, _ := agg.Field("data")
	if data.Kind != types.KindSequence || data.LengthRef != "len" {
		t.Fatalf("data: %s", data)
	}
	mac, _ := agg.Field("mac")
	if mac.Kind != types.KindArray || mac.Length != 6 || mac.Layout.Size != 48 {
		t.Fatalf("mac: %s %v", mac, mac.Layout)
	}
	flags, _ := agg.Field("flags")
	if flags.Int.Size != 3 || flags.Int.Align != 1 {
		t.Fatalf("flags: %s", flags)
	}
	addr, _ := agg.Field("addr")
	if addr.Int.Pointer != 1 {
		t.Fatalf("addr: %s", addr)
	}
}

func TestDeclaratorErrors(t *testing.T) {
	tests := []struct {
		name  string
		field *ast.Node
		want  error
	}{
		{"pointer to string", ast.Field(ast.Spec(ast.String()), ast.Pointers(1, ast.Decl("p"))), diag.ErrTypeMismatch},
		{"bitfield on float", ast.Field(ast.Spec(ast.Float(
			ast.Assign("exp_dig", ast.Uint(8)),
			ast.Assign("mant_dig", ast.Uint(24)),
		)), ast.BitfieldDecl("f", 3)), diag.ErrTypeMismatch},
		{"duplicate member", ast.Field(ast.Spec(ast.ID("uint8_t")), ast.Decl("a"), ast.Decl("a")), diag.ErrDuplicateName},
		{"unknown member type", field(ast.ID("uint128_t"), "a"), diag.ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := ast.Struct("", tt.field)
			_, err := newHarness(t, Options{}).build(withModel(eventBlock(0, 0, "evt", ast.Assign("fields", fields))))
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTypealiasForms(t *testing.T) {
	root := withModel()
	root.Typealiases = append(root.Typealiases,
		ast.Typealias(
			ast.Part(ast.Spec(uintType(32, false))),
			ast.Part(ast.Spec(ast.Keyword(ast.TypeSpecUnsigned), ast.Keyword(ast.TypeSpecInt))),
		),
		ast.Typealias(
			ast.Part(ast.Spec(ast.Float(ast.Assign("exp_dig", ast.Uint(11)), ast.Assign("mant_dig", ast.Uint(53))))),
			ast.Part(ast.Spec(ast.Keyword(ast.TypeSpecDouble))),
		),
	)
	root.Events = []*ast.Node{eventBlock(0, 0, "evt", ast.Assign("fields", ast.Struct("",
		ast.Field(ast.Spec(ast.Keyword(ast.TypeSpecConst), ast.Keyword(ast.TypeSpecUnsigned), ast.Keyword(ast.TypeSpecInt)),
			ast.Decl("u32"), ast.ArrayDecl("u32x4", 4)),
		field(ast.Keyword(ast.TypeSpecDouble), "ratio"),
	)))}
	h, tr := mustBuild(t, root)

	if got := rootType(t, h.s, "unsigned int").Underlying().Int.Size; got != 32 {
		t.Fatalf("unsigned int is %d bits", got)
	}
	if got := rootType(t, h.s, "double").Layout.Size; got != 64 {
		t.Fatalf("double is %d bits", got)
	}
	agg := eventOf(t, tr, 0, 0).Fields.Type.Aggregate
	u32, _ := agg.Field("u32")
	if u32.Name != "unsigned int" {
		t.Fatalf("u32 should be the unsigned int alias, got %s", u32)
	}
	vec, _ := agg.Field("u32x4")
	if vec.Kind != types.KindArray || vec.Layout.Size != 128 {
		t.Fatalf("u32x4: %s %v", vec, vec.Layout)
	}
}

func TestTypealiasErrors(t *testing.T) {
	twoTargets := ast.Typealias(
		ast.Part(ast.Spec(uintType(8, false)), ast.Decl(""), ast.Decl("")),
		ast.Part(ast.Spec(ast.ID("x_t"))),
	)
	named := ast.Typealias(ast.Part(ast.Spec(uintType(8, false)), ast.Decl("oops")), ast.Part(ast.Spec(ast.ID("y_t"))))
	nameless := ast.Typealias(ast.Part(ast.Spec(uintType(8, false))), ast.Part(nil))
	tests := []struct {
		name string
		node *ast.Node
		want error
	}{
		{"two declarators", twoTargets, diag.ErrUnsupportedNode},
		{"named target", named, diag.ErrMalformedExpression},
		{"no alias name", nameless, diag.ErrMalformedExpression},
		{"redefinition", ast.Typealias(ast.Part(ast.Spec(uintType(8, false))), ast.Part(ast.Spec(ast.ID("uint8_t")))), diag.ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := withModel()
			root.Typealiases = append(root.Typealiases, tt.node)
			_, err := newHarness(t, Options{}).build(root)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScalarAttributeErrors(t *testing.T) {
	tests := []struct {
		name string
		spec *ast.Node
		want error
	}{
		{"integer without size", ast.Integer(ast.Assign("align", ast.Uint(8))), diag.ErrMissingRequiredField},
		{"integer unknown key", ast.Integer(ast.Assign("size", ast.Uint(8)), ast.Assign("colour", ast.Uint(1))), diag.ErrUnknownAttribute},
		{"integer repeated key", ast.Integer(ast.Assign("size", ast.Uint(8)), ast.Assign("size", ast.Uint(16))), diag.ErrDuplicateName},
		{"integer bad base", ast.Integer(ast.Assign("size", ast.Uint(8)), ast.Assign("base", ast.Str("roman"))), diag.ErrMalformedExpression},
		{"integer too wide", ast.Integer(ast.Assign("size", ast.Uint(65))), diag.ErrMalformedExpression},
		{"float without digits", ast.Float(ast.Assign("exp_dig", ast.Uint(8))), diag.ErrMissingRequiredField},
		{"string bad encoding", ast.String(ast.Assign("encoding", ast.Str("EBCDIC"))), diag.ErrMalformedExpression},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := withModel()
			root.Typedefs = append(root.Typedefs, ast.Typedef(ast.Spec(tt.spec), ast.Decl("t")))
			_, err := newHarness(t, Options{}).build(root)
			if !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestIntegerAttributes(t *testing.T) {
	root := withModel()
	root.Typedefs = append(root.Typedefs, ast.Typedef(ast.Spec(ast.Integer(
		ast.Assign("size", ast.Uint(16)),
		ast.Assign("align", ast.Uint(16)),
		ast.Assign("signed", ast.Uint(1)),
		ast.Assign("byte_order", ast.Str("network")),
		ast.Assign("base", ast.Str("hex")),
		ast.Assign("encoding", ast.Str("ASCII")),
	)), ast.Decl("be16")))
	h, _ := mustBuild(t, root)
	got := *rootType(t, h.s, "be16").Underlying().Int
	want := types.IntegerInfo{Size: 16, Align: 16, Signed: true, ByteOrder: types.BigEndian, Base: 16, Encoding: types.EncodingASCII}
	if got != want {
		t.Fatalf("want %+v, got %+v", want, got)
	}
}
