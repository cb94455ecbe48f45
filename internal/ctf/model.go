package ctf

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/google/uuid"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/scope"
	"ctfmeta/internal/source"
	"ctfmeta/internal/types"
)

// Scopes is the type/declaration scope pair owned by one block.
type Scopes = scope.Pair[*types.Type, *types.Declaration]

// Trace is the top-level container.
type Trace struct {
	Major        uint64
	Minor        uint64
	UUID         uuid.UUID
	WordSize     uint64
	ByteOrder    types.ByteOrder
	PacketHeader *types.Declaration
	Present      Presence
	Span         source.Span

	Scopes  Scopes
	Streams Slots[*Stream]
}

// NewTrace creates a trace whose scopes are children of root.
func NewTrace(root Scopes, span source.Span) *Trace {
	return &Trace{Scopes: scope.NewPair(root), Span: span}
}

// Stream returns the registered stream with the given id.
func (t *Trace) Stream(id uint64) (*Stream, bool) {
	idx, err := safecast.Conv[int](id)
	if err != nil {
		return nil, false
	}
	return t.Streams.Get(idx)
}

// AddStream registers s at its id. The trace takes ownership on success.
func (t *Trace) AddStream(s *Stream) error {
	idx, err := safecast.Conv[int](s.ID)
	if err != nil {
		return diag.Errorf(diag.SemaMalformedExpression, s.Span, "stream id %d: %v", s.ID, err)
	}
	if !t.Streams.Put(idx, s) {
		return diag.Errorf(diag.SemaDuplicateName, s.Span, "stream %d is already declared", s.ID)
	}
	return nil
}

// RemoveStream unregisters the stream with the given id and hands it back to
// the caller, who then owns it.
func (t *Trace) RemoveStream(id uint64) (*Stream, bool) {
	idx, err := safecast.Conv[int](id)
	if err != nil {
		return nil, false
	}
	return t.Streams.Remove(idx)
}

// Release destroys the trace and everything it registered.
func (t *Trace) Release() {
	if t == nil {
		return
	}
	t.Streams.Reverse(func(_ int, s *Stream) bool {
		s.Release()
		return true
	})
	t.Streams.Reset()
	releaseDecl(&t.PacketHeader)
	t.Scopes.Release()
}

// Stream is one stream of events sharing a packet layout.
type Stream struct {
	ID            uint64
	EventHeader   *types.Declaration
	EventContext  *types.Declaration
	PacketContext *types.Declaration
	Present       Presence
	Span          source.Span

	Scopes Scopes
	Events Slots[*Event]
	byName map[source.StringID]uint64
}

// NewStream creates a stream whose scopes are children of the trace's.
func NewStream(t *Trace, span source.Span) *Stream {
	return &Stream{
		Scopes: scope.NewPair(t.Scopes),
		Span:   span,
		byName: make(map[source.StringID]uint64),
	}
}

// Event returns the registered event with the given id.
func (s *Stream) Event(id uint64) (*Event, bool) {
	idx, err := safecast.Conv[int](id)
	if err != nil {
		return nil, false
	}
	return s.Events.Get(idx)
}

// EventByName looks an event up through the name index.
func (s *Stream) EventByName(name source.StringID) (*Event, bool) {
	id, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.Event(id)
}

// AddEvent registers e at its id. Both the id and the name must be new to
// this stream; on error the stream is unchanged and e still belongs to the
// caller.
func (s *Stream) AddEvent(e *Event, names *source.Interner) error {
	idx, err := safecast.Conv[int](e.ID)
	if err != nil {
		return diag.Errorf(diag.SemaMalformedExpression, e.Span, "event id %d: %v", e.ID, err)
	}
	if prev, ok := s.byName[e.Name]; ok {
		return diag.Errorf(diag.SemaDuplicateName, e.Span, "event %q is already declared in stream %d with id %d", nameOf(names, e.Name), s.ID, prev)
	}
	if !s.Events.Put(idx, e) {
		return diag.Errorf(diag.SemaDuplicateName, e.Span, "event id %d is already used in stream %d", e.ID, s.ID)
	}
	s.byName[e.Name] = e.ID
	return nil
}

// RemoveEvent unregisters the event with the given id, name index included.
// The caller owns the returned event.
func (s *Stream) RemoveEvent(id uint64) (*Event, bool) {
	idx, err := safecast.Conv[int](id)
	if err != nil {
		return nil, false
	}
	e, ok := s.Events.Remove(idx)
	if ok {
		delete(s.byName, e.Name)
	}
	return e, ok
}

func nameOf(names *source.Interner, id source.StringID) string {
	if names == nil {
		return fmt.Sprintf("#%d", id)
	}
	if s, ok := names.Lookup(id); ok {
		return s
	}
	return fmt.Sprintf("#%d", id)
}

// Release destroys the stream and its events.
func (s *Stream) Release() {
	if s == nil {
		return
	}
	s.Events.Reverse(func(_ int, e *Event) bool {
		e.Release()
		return true
	})
	s.Events.Reset()
	clear(s.byName)
	releaseDecl(&s.PacketContext)
	releaseDecl(&s.EventContext)
	releaseDecl(&s.EventHeader)
	s.Scopes.Release()
}

// Event is one event kind within a stream.
type Event struct {
	Name     source.StringID
	ID       uint64
	StreamID uint64
	Context  *types.Declaration
	Fields   *types.Declaration
	Present  Presence
	Span     source.Span

	// Scopes.Decls stays nil until the owning stream is known.
	Scopes Scopes
}

// NewEvent creates an event with a type scope under the trace's. The
// declaration scope is created by Attach.
func NewEvent(t *Trace, span source.Span) *Event {
	return &Event{
		Scopes: Scopes{Types: scope.New(t.Scopes.Types)},
		Span:   span,
	}
}

// Attach moves the event under stream s: its type scope is rechained to the
// stream's and its declaration scope is created as a child of the stream's.
func (e *Event) Attach(s *Stream) {
	e.Scopes.Types.Rechain(s.Scopes.Types)
	if e.Scopes.Decls == nil {
		e.Scopes.Decls = scope.New(s.Scopes.Decls)
	}
}

// Attached reports whether the declaration scope exists yet.
func (e *Event) Attached() bool {
	return e.Scopes.Decls != nil
}

// Release destroys the event.
func (e *Event) Release() {
	if e == nil {
		return
	}
	releaseDecl(&e.Fields)
	releaseDecl(&e.Context)
	e.Scopes.Release()
}

func releaseDecl(d **types.Declaration) {
	if *d != nil {
		(*d).Unref()
		*d = nil
	}
}
