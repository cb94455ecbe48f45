package spanlog

// MultiLogger fans events out to several loggers.
type MultiLogger struct {
	loggers []Logger
	level   Level
}

func NewMultiLogger(level Level, loggers ...Logger) *MultiLogger {
	return &MultiLogger{loggers: loggers, level: level}
}

func (m *MultiLogger) Emit(ev *Event) {
	for _, l := range m.loggers {
		l.Emit(ev)
	}
}

func (m *MultiLogger) Flush() error {
	var first error
	for _, l := range m.loggers {
		if err := l.Flush(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiLogger) Close() error {
	var first error
	for _, l := range m.loggers {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Ring returns the first ring logger, if any, for crash dumps.
func (m *MultiLogger) Ring() *RingLogger {
	for _, l := range m.loggers {
		if r, ok := l.(*RingLogger); ok {
			return r
		}
	}
	return nil
}

func (m *MultiLogger) Level() Level  { return m.level }
func (m *MultiLogger) Enabled() bool { return m.level > LevelOff }
