package sema

import (
	"context"

	"ctfmeta/internal/ast"
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/source"
	"ctfmeta/internal/spanlog"
)

// visitEvent builds one event. Its type scope exists from the start under
// the trace; the declaration scope appears when stream_id resolves, so
// context and fields must come after stream_id.
func (v *visitor) visitEvent(ctx context.Context, n *ast.Node) (err error) {
	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeBlock, "event")
	defer func() { sp.EndErr("registered", err) }()

	tr := v.s.trace
	ev := ctf.NewEvent(tr, n.Span)
	scopes := func() ctf.Scopes { return ev.Scopes }
	err = v.body(ctx, n, eventKeys, scopes, func(f ctf.Field, right []*ast.Node, span source.Span) error {
		return v.eventAttr(tr, ev, f, right, span)
	})
	if err == nil {
		err = ev.Present.Require(ctf.EventRequired, "event", n.Span)
	}
	if err == nil {
		sp.With("name", v.s.Names.MustLookup(ev.Name))
		st, _ := tr.Stream(ev.StreamID)
		err = st.AddEvent(ev, v.s.Names)
	}
	if err != nil {
		ev.Release()
		return diag.Locate(err, n.Span)
	}
	v.added = append(v.added, registration{stream: ev.StreamID, event: ev.ID, ev: true})
	return nil
}

func (v *visitor) eventAttr(tr *ctf.Trace, ev *ctf.Event, f ctf.Field, right []*ast.Node, span source.Span) (err error) {
	if err := ev.Present.Set(f, span); err != nil {
		return err
	}
	switch f {
	case ctf.FieldName:
		var name string
		name, err = concatStrings(right)
		if err == nil {
			ev.Name = v.s.Names.Intern(name)
		}
	case ctf.FieldID:
		ev.ID, err = v.id(right)
	case ctf.FieldStreamID:
		ev.StreamID, err = v.id(right)
		if err != nil {
			return err
		}
		st, ok := tr.Stream(ev.StreamID)
		if !ok {
			return diag.Errorf(diag.SemaUnknownStream, span, "stream %d is not declared", ev.StreamID)
		}
		ev.Attach(st)
	case ctf.FieldContext, ctf.FieldFields:
		if !ev.Attached() {
			return diag.Errorf(diag.SemaMissingRequiredField, span, "%s needs stream_id to be set first", f)
		}
		d, derr := v.structDecl(right, ev.Scopes)
		if derr != nil {
			return derr
		}
		if f == ctf.FieldContext {
			ev.Context = d
		} else {
			ev.Fields = d
		}
	default:
		err = unsupported("%s cannot be set on an event", f)
	}
	return err
}
