package sema

import (
	"context"
	"errors"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/scope"
	"ctfmeta/internal/source"
	"ctfmeta/internal/spanlog"
	"ctfmeta/internal/types"
)

// DefaultMaxID bounds stream and event ids, and so the sparse tables.
const DefaultMaxID = 65535

// Options configure a session.
type Options struct {
	Reporter diag.Reporter
	// MaxID is the largest stream/event id accepted; 0 means DefaultMaxID.
	MaxID uint64
}

// Session owns the root scopes, the event name interner and the type
// registry shared by every Build call on it. A Session is not safe for
// concurrent use; independent builds run on independent sessions.
type Session struct {
	Names *source.Interner
	Types *types.Registry
	Root  ctf.Scopes

	opts  Options
	trace *ctf.Trace
}

func NewSession(opts Options) *Session {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.MaxID == 0 {
		opts.MaxID = DefaultMaxID
	}
	return &Session{
		Names: source.NewInterner(),
		Types: types.NewRegistry(),
		Root: ctf.Scopes{
			Types: scope.New[*types.Type](nil),
			Decls: scope.New[*types.Declaration](nil),
		},
		opts: opts,
	}
}

// Trace returns the trace built so far, nil before a successful Build.
func (s *Session) Trace() *ctf.Trace {
	return s.trace
}

// Build resolves root. Every failure is also sent to the session reporter.
// On any error no model is returned and everything this call created is
// released; root-level type definitions stay in the session root scopes.
//
// Calling Build again on a session that already has a trace appends the
// new streams and events to it; a second trace block is a DuplicateName.
// When such a call fails, the streams and events it added are removed again.
func (s *Session) Build(ctx context.Context, root *ast.Root) (*ctf.Trace, error) {
	if root == nil {
		return nil, diag.Errorf(diag.SemaUnsupportedNode, source.Span{}, "nil metadata root")
	}
	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeFile, "resolve")
	prev := s.trace
	v := &visitor{s: s, rep: s.opts.Reporter}
	err := v.root(ctx, root)
	sp.EndErr("resolved", err)
	if err != nil {
		if s.trace != prev {
			s.trace.Release()
			s.trace = prev
		} else {
			v.unregister()
		}
		return nil, err
	}
	return s.trace, nil
}

// Close releases the trace and the root scopes. The session must not be
// used afterwards.
func (s *Session) Close() {
	s.trace.Release()
	s.trace = nil
	s.Root.Release()
}

type visitor struct {
	s    *Session
	rep  diag.Reporter
	errs []error
	// undone by Build when it fails on an existing trace
	added []registration
}

// registration names a stream (event false) or an event of a stream.
type registration struct {
	stream uint64
	event  uint64
	ev     bool
}

// unregister takes back, newest first, every stream and event this visit
// registered, so a failed Build leaves the existing trace as it was.
func (v *visitor) unregister() {
	tr := v.s.trace
	for i := len(v.added) - 1; i >= 0; i-- {
		r := v.added[i]
		if !r.ev {
			st, _ := tr.RemoveStream(r.stream)
			st.Release()
			continue
		}
		if st, ok := tr.Stream(r.stream); ok {
			ev, _ := st.RemoveEvent(r.event)
			ev.Release()
		}
	}
	v.added = nil
}

func (v *visitor) fail(err error) {
	diag.ReportErr(v.rep, err)
	v.errs = append(v.errs, err)
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return diag.Errorf(diag.SemaCanceled, source.Span{}, "build stopped: %v", err)
	}
	return nil
}

// root visits the groups in order: typedefs, typealiases, bare specifiers,
// traces, streams, events.
func (v *visitor) root(ctx context.Context, root *ast.Root) error {
	for _, n := range root.Typedefs {
		if err := v.typedef(n, v.s.Root); err != nil {
			v.fail(diag.Locate(err, n.Span))
		}
	}
	for _, n := range root.Typealiases {
		if err := v.typealias(n, v.s.Root); err != nil {
			v.fail(diag.Locate(err, n.Span))
		}
	}
	for _, spec := range root.Specifiers {
		t, err := v.resolveSpecifier(spec, v.s.Root)
		if err != nil {
			v.fail(diag.Locate(err, firstSpan(spec)))
			continue
		}
		t.Unref()
	}
	if err := canceled(ctx); err != nil {
		v.fail(err)
		return errors.Join(v.errs...)
	}

	for _, n := range root.Traces {
		if err := v.visitTrace(ctx, n); err != nil {
			v.fail(err)
			return errors.Join(v.errs...)
		}
	}
	if v.s.trace == nil {
		v.fail(diag.Errorf(diag.SemaMissingRequiredField, source.Span{}, "metadata declares no trace block"))
		return errors.Join(v.errs...)
	}

	for _, n := range root.Streams {
		if err := canceled(ctx); err != nil {
			v.fail(err)
			return errors.Join(v.errs...)
		}
		if err := v.visitStream(ctx, n); err != nil {
			v.fail(err)
		}
	}
	for _, n := range root.Events {
		if err := canceled(ctx); err != nil {
			v.fail(err)
			return errors.Join(v.errs...)
		}
		if err := v.visitEvent(ctx, n); err != nil {
			v.fail(err)
		}
	}
	return errors.Join(v.errs...)
}

func firstSpan(nodes []*ast.Node) source.Span {
	if len(nodes) == 0 || nodes[0] == nil {
		return source.Span{}
	}
	return nodes[0].Span
}
