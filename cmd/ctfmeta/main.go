package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ctfmeta/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "ctfmeta",
	Short: "CTF trace metadata resolver",
	Long: `ctfmeta resolves parsed CTF metadata (trace, stream and event blocks with
their type declarations) into a typed trace model and reports semantic errors.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// errFailed signals that diagnostics were already printed; main only sets
// the exit status.
var errFailed = errors.New("resolution failed")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "print diagnostics only, no model")
	pf.Bool("timings", false, "show per-file timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per file")
	pf.String("config", "", "path to ctfmeta.toml (default: search upwards from the working directory)")
	pf.String("trace", "", "write resolver trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring trace")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "ctfmeta: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
