package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ctfmeta/internal/diagfmt"
	"ctfmeta/internal/driver"
	"ctfmeta/internal/modelfmt"
	"ctfmeta/internal/observ"
	"ctfmeta/internal/sema"
	"ctfmeta/internal/spanlog"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [flags] <file.yaml|file.ctfast|dir>...",
	Short: "Resolve metadata files into trace models",
	Long: `Resolve loads each metadata AST dump, builds its trace model and prints the
model together with any diagnostics. Directories are searched for .yaml, .yml
and .ctfast files. Files are resolved concurrently, each in its own session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	resolveCmd.Flags().Int("jobs", 0, "files resolved in parallel (0 = GOMAXPROCS)")
	resolveCmd.Flags().Uint64("max-id", sema.DefaultMaxID, "largest stream/event id accepted")
}

func runResolve(cmd *cobra.Command, args []string) (err error) {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer func() { cleanup(err != nil) }()

	ctx, sp := spanlog.Begin(cmd.Context(), spanlog.ScopeDriver, "resolve")
	defer func() { sp.EndErr("done", err) }()

	paths, err := driver.ExpandPaths(args)
	if err != nil {
		return err
	}
	results, err := driver.ResolveFiles(ctx, paths, driver.Options{
		MaxDiagnostics: st.cfg.Resolve.MaxDiagnostics,
		MaxID:          st.cfg.Resolve.MaxID,
		Jobs:           st.cfg.Resolve.Jobs,
		Timings:        st.timings,
	})
	defer func() {
		for i := range results {
			results[i].Close()
		}
	}()
	if err != nil {
		return fmt.Errorf("resolve interrupted: %w", err)
	}
	for i := range results {
		results[i].Bag.Sort()
		results[i].Bag.Dedup()
	}

	switch st.cfg.Output.Format {
	case "json":
		err = renderResolveJSON(cmd.OutOrStdout(), results, st)
	default:
		renderResolvePretty(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, st)
	}
	if err != nil {
		return err
	}
	if driver.Summarize(results).Failed > 0 {
		return errFailed
	}
	return nil
}

func renderResolvePretty(out, errOut io.Writer, results []driver.FileResult, st settings) {
	for i := range results {
		r := &results[i]
		diagfmt.Pretty(errOut, r.Path, r.Bag, diagfmt.PrettyOpts{Color: st.color, ShowNotes: true})
		if !st.quiet && !r.Failed() {
			if len(results) > 1 {
				fmt.Fprintf(out, "== %s\n", r.Path)
			}
			modelfmt.Pretty(out, r.Trace, r.Session.Names, modelfmt.PrettyOpts{Color: st.color})
		}
		if r.Timing != nil {
			fmt.Fprint(errOut, r.Timing.Summary(r.Path))
		}
	}
	if len(results) > 1 && !st.quiet {
		sum := driver.Summarize(results)
		fmt.Fprintf(errOut, "%d files, %d failed, %d errors", sum.Files, sum.Failed, sum.Errors)
		if sum.Dropped > 0 {
			fmt.Fprintf(errOut, ", %d more not shown", sum.Dropped)
		}
		fmt.Fprintln(errOut)
	}
}

type resolveFileJSON struct {
	File        string                   `json:"file"`
	OK          bool                     `json:"ok"`
	Diagnostics []diagfmt.DiagnosticJSON `json:"diagnostics"`
	Dropped     int                      `json:"dropped,omitempty"`
	Trace       *modelfmt.TraceJSON      `json:"trace,omitempty"`
	Timing      *observ.Report           `json:"timing,omitempty"`
}

func renderResolveJSON(out io.Writer, results []driver.FileResult, st settings) error {
	inputs := make([]diagfmt.FileInput, len(results))
	for i := range results {
		inputs[i] = diagfmt.FileInput{Path: results[i].Path, Bag: results[i].Bag}
	}
	diags := diagfmt.BuildOutput(inputs, diagfmt.JSONOpts{IncludeNotes: true})

	files := make([]resolveFileJSON, len(results))
	for i := range results {
		r := &results[i]
		files[i] = resolveFileJSON{
			File:        r.Path,
			OK:          !r.Failed(),
			Diagnostics: diags.Files[i].Diagnostics,
			Dropped:     diags.Files[i].Dropped,
			Timing:      r.Timing,
		}
		if !st.quiet && !r.Failed() {
			tr := modelfmt.BuildTrace(r.Trace, r.Session.Names)
			files[i].Trace = &tr
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Files []resolveFileJSON `json:"files"`
	}{files})
}
