package spanlog

import (
	"io"
	"sync"
)

// RingLogger keeps the last capacity events in memory.
type RingLogger struct {
	mu     sync.RWMutex
	events []Event
	head   int
	full   bool
	level  Level
}

func NewRingLogger(capacity int, level Level) *RingLogger {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingLogger{events: make([]Event, capacity), level: level}
}

func (l *RingLogger) Emit(ev *Event) {
	if !l.level.Allows(ev) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[l.head] = *ev
	l.head = (l.head + 1) % len(l.events)
	if l.head == 0 {
		l.full = true
	}
}

// Snapshot returns the stored events oldest first.
func (l *RingLogger) Snapshot() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.full {
		return append([]Event(nil), l.events[:l.head]...)
	}
	out := make([]Event, 0, len(l.events))
	out = append(out, l.events[l.head:]...)
	return append(out, l.events[:l.head]...)
}

// Dump writes the stored events to w.
func (l *RingLogger) Dump(w io.Writer, format Format) error {
	for _, ev := range l.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (l *RingLogger) Flush() error  { return nil }
func (l *RingLogger) Close() error  { return nil }
func (l *RingLogger) Level() Level  { return l.level }
func (l *RingLogger) Enabled() bool { return l.level > LevelOff }
