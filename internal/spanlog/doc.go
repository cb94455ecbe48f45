// Package spanlog records what the resolver is doing as a stream of nested
// spans.
//
// A Logger travels in the context. Each unit of work opens a span, and the
// span's end event carries the outcome:
//
//	ctx = spanlog.WithLogger(ctx, lg)
//	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeBlock, "stream")
//	defer sp.End("registered")
//
// Loggers:
//
//   - Nop: discards everything
//   - StreamLogger: writes each event as it happens
//   - RingLogger: keeps the last N events for a dump after a failure
//   - MultiLogger: fans out to several loggers
//
// Level selects how deep the recorded spans go: phase covers the driver and
// whole files, detail adds trace/stream/event blocks, debug adds individual
// declarations.
package spanlog
