package sema

import (
	"context"
	"strconv"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/spanlog"
)

func (v *visitor) visitStream(ctx context.Context, n *ast.Node) (err error) {
	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeBlock, "stream")
	defer func() { sp.EndErr("registered", err) }()

	tr := v.s.trace
	st := ctf.NewStream(tr, n.Span)
	scopes := func() ctf.Scopes { return st.Scopes }
	err = v.body(ctx, n, streamKeys, scopes, func(f ctf.Field, right []*ast.Node, span source.Span) error {
		return v.streamAttr(st, f, right, span)
	})
	if err == nil {
		err = st.Present.Require(ctf.StreamRequired, "stream", n.Span)
	}
	if err == nil {
		sp.With("id", strconv.FormatUint(st.ID, 10))
		err = tr.AddStream(st)
	}
	if err != nil {
		st.Release()
		return diag.Locate(err, n.Span)
	}
	v.added = append(v.added, registration{stream: st.ID})
	return nil
}

func (v *visitor) streamAttr(st *ctf.Stream, f ctf.Field, right []*ast.Node, span source.Span) (err error) {
	if err := st.Present.Set(f, span); err != nil {
		return err
	}
	switch f {
	case ctf.FieldStreamID:
		st.ID, err = v.id(right)
	case ctf.FieldEventHeader:
		st.EventHeader, err = v.structDecl(right, st.Scopes)
	case ctf.FieldEventContext:
		st.EventContext, err = v.structDecl(right, st.Scopes)
	case ctf.FieldPacketContext:
		st.PacketContext, err = v.structDecl(right, st.Scopes)
	default:
		err = unsupported("%s cannot be set on a stream", f)
	}
	return err
}
