package spanlog

import (
	"io"
	"sync"
)

// StreamLogger writes events to w as they arrive.
type StreamLogger struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStreamLogger(w io.Writer, level Level, format Format) *StreamLogger {
	return &StreamLogger{w: w, level: level, format: format}
}

func (l *StreamLogger) Emit(ev *Event) {
	if !l.level.Allows(ev) {
		return
	}
	data := FormatEvent(ev, l.format)

	l.mu.Lock()
	defer l.mu.Unlock()
	// Write errors are dropped so logging never fails a build.
	_, _ = l.w.Write(data) //nolint:errcheck
}

func (l *StreamLogger) Flush() error {
	if f, ok := l.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (l *StreamLogger) Close() error {
	if err := l.Flush(); err != nil {
		return err
	}
	if c, ok := l.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *StreamLogger) Level() Level  { return l.level }
func (l *StreamLogger) Enabled() bool { return l.level > LevelOff }
