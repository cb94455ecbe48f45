package driver

import (
	"ctfmeta/internal/ctf"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/observ"
	"ctfmeta/internal/sema"
)

// FileResult is the outcome of resolving one metadata file.
type FileResult struct {
	Path    string
	Bag     *diag.Bag
	Session *sema.Session // owns Trace; nil when the file never reached resolution
	Trace   *ctf.Trace    // nil when resolution failed
	Timing  *observ.Report
}

// Failed reports whether the file produced no model.
func (r *FileResult) Failed() bool {
	return r.Trace == nil || r.Bag.HasErrors()
}

// Close releases the resolved model. The result must not be rendered after.
func (r *FileResult) Close() {
	if r.Session != nil {
		r.Session.Close()
		r.Session = nil
	}
	r.Trace = nil
}

// Summary counts results by outcome. Errors and Warnings count kept
// diagnostics only; Dropped counts those past the bag limit, whose severity
// is unknown.
type Summary struct {
	Files    int
	Failed   int
	Errors   int
	Warnings int
	Dropped  int
}

func Summarize(results []FileResult) Summary {
	var s Summary
	for i := range results {
		r := &results[i]
		s.Files++
		if r.Failed() {
			s.Failed++
		}
		for _, d := range r.Bag.Items() {
			switch {
			case d.Severity >= diag.SevError:
				s.Errors++
			case d.Severity == diag.SevWarning:
				s.Warnings++
			}
		}
		s.Dropped += r.Bag.Dropped()
	}
	return s
}
