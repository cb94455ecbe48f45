package spanlog

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq     atomic.Uint64
	spanIDs atomic.Uint64
)

type loggerKey struct{}
type spanKey struct{}

// WithLogger attaches lg to ctx.
func WithLogger(ctx context.Context, lg Logger) context.Context {
	if lg == nil {
		lg = Nop
	}
	return context.WithValue(ctx, loggerKey{}, lg)
}

// FromContext returns the logger in ctx, or Nop.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Nop
	}
	if lg, ok := ctx.Value(loggerKey{}).(Logger); ok {
		return lg
	}
	return Nop
}

// Span is an open unit of work. The zero value and nil are inert.
type Span struct {
	lg      Logger
	id      uint64
	parent  uint64
	depth   int
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span under the span already in ctx and returns a context
// carrying the new one.
func Begin(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	lg := FromContext(ctx)
	if !lg.Enabled() {
		return ctx, &Span{}
	}
	parent, _ := ctx.Value(spanKey{}).(*Span)
	sp := &Span{
		lg:      lg,
		id:      spanIDs.Add(1),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if parent != nil {
		sp.parent = parent.id
		sp.depth = parent.depth + 1
	}
	lg.Emit(sp.event(KindSpanBegin, ""))
	return context.WithValue(ctx, spanKey{}, sp), sp
}

// Point records an instant event under the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	lg := FromContext(ctx)
	if !lg.Enabled() {
		return
	}
	parent, _ := ctx.Value(spanKey{}).(*Span)
	ev := &Event{
		Time:   time.Now(),
		Seq:    seq.Add(1),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
	}
	if parent != nil {
		ev.ParentID = parent.id
		ev.Depth = parent.depth + 1
	}
	lg.Emit(ev)
}

func (s *Span) event(kind Kind, detail string) *Event {
	return &Event{
		Time:     time.Now(),
		Seq:      seq.Add(1),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Depth:    s.depth,
		Name:     s.name,
		Detail:   detail,
	}
}

// With adds a key/value to the end event.
func (s *Span) With(key, value string) *Span {
	if s == nil || s.lg == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// End closes the span with an outcome and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.lg == nil {
		return 0
	}
	ev := s.event(KindSpanEnd, detail)
	ev.Elapsed = time.Since(s.started)
	ev.Extra = s.extra
	s.lg.Emit(ev)
	return ev.Elapsed
}

// EndErr closes the span as "ok", or as failed with err.
func (s *Span) EndErr(ok string, err error) time.Duration {
	if err != nil {
		return s.With("error", err.Error()).End("rolled back")
	}
	return s.End(ok)
}

// ID is the span id, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}
