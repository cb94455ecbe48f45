package sema

import (
	"context"
	"testing"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/types"
)

const zeroUUID = "00000000-0000-0000-0000-000000000000"

func uintType(size uint64, signed bool) *ast.Node {
	exprs := []*ast.Node{
		ast.Assign("size", ast.Uint(size)),
		ast.Assign("align", ast.Uint(8)),
	}
	if signed {
		exprs = append(exprs, ast.Assign("signed", ast.Str("true")))
	}
	return ast.Integer(exprs...)
}

// prelude declares uint8_t, uint32_t and int at the root. Root typedefs
// are visited before typealiases, so tests append their own typedefs after
// the two here.
func prelude() *ast.Root {
	return &ast.Root{
		Typedefs: []*ast.Node{
			ast.Typedef(ast.Spec(uintType(8, false)), ast.Decl("uint8_t")),
			ast.Typedef(ast.Spec(uintType(32, false)), ast.Decl("uint32_t")),
		},
		Typealiases: []*ast.Node{
			ast.Typealias(ast.Part(ast.Spec(uintType(32, true))), ast.Part(ast.Spec(ast.Keyword(ast.TypeSpecInt)))),
		},
	}
}

func traceBlock(extra ...*ast.Node) *ast.Node {
	decls := []*ast.Node{
		ast.Assign("major", ast.Uint(1)),
		ast.Assign("minor", ast.Uint(0)),
		ast.Assign("uuid", ast.Str(zeroUUID)),
		ast.Assign("word_size", ast.Uint(8)),
	}
	return ast.Trace(append(decls, extra...)...)
}

func streamBlock(id uint64, extra ...*ast.Node) *ast.Node {
	return ast.Stream(append([]*ast.Node{ast.Assign("stream_id", ast.Uint(id))}, extra...)...)
}

func eventBlock(stream, id uint64, name string, extra ...*ast.Node) *ast.Node {
	decls := []*ast.Node{
		ast.Assign("stream_id", ast.Uint(stream)),
		ast.Assign("id", ast.Uint(id)),
		ast.Assign("name", ast.Str(name)),
	}
	return ast.Event(append(decls, extra...)...)
}

func field(spec *ast.Node, name string) *ast.Node {
	return ast.Field(ast.Spec(spec), ast.Decl(name))
}

// withModel returns the prelude plus one trace, stream 0 and the events.
func withModel(events ...*ast.Node) *ast.Root {
	root := prelude()
	root.Traces = []*ast.Node{traceBlock()}
	root.Streams = []*ast.Node{streamBlock(0)}
	root.Events = events
	return root
}

type harness struct {
	s   *Session
	bag *diag.Bag
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	bag := diag.NewBag(0)
	opts.Reporter = diag.BagReporter{Bag: bag}
	h := &harness{s: NewSession(opts), bag: bag}
	t.Cleanup(h.s.Close)
	return h
}

func (h *harness) build(root *ast.Root) (*ctf.Trace, error) {
	return h.s.Build(context.Background(), root)
}

func mustBuild(t *testing.T, root *ast.Root) (*harness, *ctf.Trace) {
	t.Helper()
	h := newHarness(t, Options{})
	tr, err := h.build(root)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if tr == nil {
		t.Fatalf("build returned no trace")
	}
	return h, tr
}

func eventOf(t *testing.T, tr *ctf.Trace, stream, id uint64) *ctf.Event {
	t.Helper()
	st, ok := tr.Stream(stream)
	if !ok {
		t.Fatalf("stream %d not registered", stream)
	}
	ev, ok := st.Event(id)
	if !ok {
		t.Fatalf("event %d not registered in stream %d", id, stream)
	}
	return ev
}

func rootType(t *testing.T, s *Session, name string) *types.Type {
	t.Helper()
	ty, ok := s.Root.Types.LookupLocal(name)
	if !ok {
		t.Fatalf("%q not registered at the root", name)
	}
	return ty
}
