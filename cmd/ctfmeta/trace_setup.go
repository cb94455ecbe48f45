package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctfmeta/internal/spanlog"
)

// setupTracing reads the trace flags and attaches a logger to the command
// context. The cleanup flushes and closes it; when failed is set and the
// logger keeps a ring, the ring is dumped to stderr first.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	pf := cmd.Root().PersistentFlags()

	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := spanlog.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace alone means phase-level tracing
	if level == spanlog.LevelOff && traceOutput != "" {
		level = spanlog.LevelPhase
	}
	if level == spanlog.LevelOff {
		cmd.SetContext(spanlog.WithLogger(cmd.Context(), spanlog.Nop))
		return func(bool) {}, nil
	}

	mode, err := spanlog.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}
	lg, err := spanlog.New(spanlog.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trace logger: %w", err)
	}
	cmd.SetContext(spanlog.WithLogger(cmd.Context(), lg))

	return func(failed bool) {
		if failed {
			if ring := ringOf(lg); ring != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "trace: last events before failure:")
				if err := ring.Dump(cmd.ErrOrStderr(), spanlog.FormatText); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
				}
			}
		}
		if err := lg.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := lg.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func ringOf(lg spanlog.Logger) *spanlog.RingLogger {
	switch l := lg.(type) {
	case *spanlog.RingLogger:
		return l
	case *spanlog.MultiLogger:
		return l.Ring()
	}
	return nil
}
