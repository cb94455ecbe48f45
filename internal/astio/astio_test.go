package astio

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/diag"
)

func TestLoadFixture(t *testing.T) {
	root, err := Load(filepath.Join("testdata", "sched.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(root.Typedefs) != 2 || len(root.Traces) != 1 || len(root.Streams) != 1 || len(root.Events) != 2 {
		t.Fatalf("unexpected group sizes: %d typedefs, %d traces, %d streams, %d events",
			len(root.Typedefs), len(root.Traces), len(root.Streams), len(root.Events))
	}
	header := root.Streams[0].Block.Decls[1].Expr.Left
	if len(header) != 2 || header[1].Unary.Link != ast.LinkDot {
		t.Fatalf("dotted key not decoded: %+v", header)
	}
	if root.Events[0].Span.Line == 0 {
		t.Fatalf("event span not filled from the document")
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	root, err := Load(filepath.Join("testdata", "sched.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := filepath.Join(t.TempDir(), "sched.ctfast")
	if err := Save(out, root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	back, err := Load(out)
	if err != nil {
		t.Fatalf("Load dump: %v", err)
	}
	if diff := cmp.Diff(root, back); diff != "" {
		t.Fatalf("dump differs (-yaml +ctfast):\n%s", diff)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	root := &ast.Root{
		Events: []*ast.Node{ast.Event(
			ast.Assign("name", ast.Str("e")),
			ast.Assign("fields", ast.Struct("", ast.Field(ast.Spec(ast.ID("u8")), ast.SequenceDecl("data", "len")))),
		)},
	}
	var buf bytes.Buffer
	if err := Encode(&buf, root, FormatYAML); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	back, err := Decode(&buf, FormatYAML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	// decoded nodes pick up their YAML positions
	ast.Inspect(back.Events[0], func(n *ast.Node) bool {
		n.Span = root.Events[0].Span
		return true
	})
	if diff := cmp.Diff(root, back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}

func TestEmptyYAMLDocument(t *testing.T) {
	root, err := Decode(bytes.NewReader(nil), FormatYAML)
	if err != nil || root == nil {
		t.Fatalf("empty document: %v %v", root, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"extension", "metadata.txt", diag.ErrLoadFailed},
		{"missing", filepath.Join("testdata", "nope.yaml"), diag.ErrLoadFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); !errors.Is(err, tt.want) {
				t.Fatalf("want %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := Decode(bytes.NewReader([]byte("events: [{kind: bogus}]")), FormatYAML); !errors.Is(err, diag.ErrDecodeFailed) {
		t.Fatalf("bad kind: want ErrDecodeFailed, got %v", err)
	}
	if _, err := Decode(bytes.NewReader([]byte{0xc1}), FormatMsgpack); !errors.Is(err, diag.ErrDecodeFailed) {
		t.Fatalf("garbage dump: want ErrDecodeFailed, got %v", err)
	}
}
