package sema

import (
	"context"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/spanlog"
	"ctfmeta/internal/types"
)

func (v *visitor) visitTrace(ctx context.Context, n *ast.Node) (err error) {
	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeBlock, "trace")
	defer func() { sp.EndErr("registered", err) }()

	if v.s.trace != nil {
		return diag.Errorf(diag.SemaDuplicateName, n.Span, "trace is already declared")
	}
	tr := ctf.NewTrace(v.s.Root, n.Span)
	scopes := func() ctf.Scopes { return tr.Scopes }
	err = v.body(ctx, n, traceKeys, scopes, func(f ctf.Field, right []*ast.Node, span source.Span) error {
		return v.traceAttr(tr, f, right, span)
	})
	if err == nil {
		err = tr.Present.Require(ctf.TraceRequired, "trace", n.Span)
	}
	if err != nil {
		tr.Release()
		return err
	}
	v.s.trace = tr
	return nil
}

func (v *visitor) traceAttr(tr *ctf.Trace, f ctf.Field, right []*ast.Node, span source.Span) (err error) {
	if err := tr.Present.Set(f, span); err != nil {
		return err
	}
	switch f {
	case ctf.FieldMajor:
		tr.Major, err = unsignedOf(right)
	case ctf.FieldMinor:
		tr.Minor, err = unsignedOf(right)
	case ctf.FieldUUID:
		tr.UUID, err = uuidOf(right)
	case ctf.FieldWordSize:
		tr.WordSize, err = unsignedOf(right)
		if err == nil && tr.WordSize == 0 {
			err = malformed("word_size must be positive")
		}
	case ctf.FieldByteOrder:
		tr.ByteOrder, err = byteOrderOf(right)
		if err == nil && tr.ByteOrder == types.Native {
			err = malformed("trace byte_order must be be or le")
		}
	case ctf.FieldPacketHeader:
		tr.PacketHeader, err = v.structDecl(right, tr.Scopes)
	default:
		err = unsupported("%s cannot be set on a trace", f)
	}
	return err
}
