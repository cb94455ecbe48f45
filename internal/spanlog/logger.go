package spanlog

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger receives events. Implementations must be goroutine-safe.
type Logger interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// StorageMode selects where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(s) {
	case "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	default:
		return ModeStream, fmt.Errorf("invalid trace mode: %q (expected: stream|ring|both)", s)
	}
}

// Config describes the logger built by New.
type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "-" or "" for stderr; *.ndjson selects NDJSON
	RingSize   int       // default 4096
}

// New builds a Logger for cfg. LevelOff always yields Nop.
func New(cfg Config) (Logger, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 4096
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.OutputPath, ".ndjson") {
			format = FormatNDJSON
		}
	}

	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewStreamLogger(w, cfg.Level, format), nil
	case ModeRing:
		return NewRingLogger(cfg.RingSize, cfg.Level), nil
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewMultiLogger(cfg.Level,
			NewStreamLogger(w, cfg.Level, format),
			NewRingLogger(cfg.RingSize, cfg.Level),
		), nil
	default:
		return nil, fmt.Errorf("unknown trace mode: %v", cfg.Mode)
	}
}

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// nopCloser keeps Close from closing stderr.
type nopCloser struct{ io.Writer }

type nopLogger struct{}

func (nopLogger) Emit(*Event)   {}
func (nopLogger) Flush() error  { return nil }
func (nopLogger) Close() error  { return nil }
func (nopLogger) Level() Level  { return LevelOff }
func (nopLogger) Enabled() bool { return false }

// Nop discards everything.
var Nop Logger = nopLogger{}
