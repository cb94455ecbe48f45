package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"ctfmeta/internal/astio"
	"ctfmeta/internal/diag"
	"ctfmeta/internal/observ"
	"ctfmeta/internal/sema"
	"ctfmeta/internal/spanlog"
)

// Options control a resolve run.
type Options struct {
	MaxDiagnostics int
	MaxID          uint64
	Jobs           int // 0 = GOMAXPROCS
	Timings        bool
}

// ResolveFile loads and resolves one file in its own session. Failures end
// up in the result's Bag; the returned result is never nil.
func ResolveFile(ctx context.Context, path string, opts Options) *FileResult {
	ctx, sp := spanlog.Begin(ctx, spanlog.ScopeFile, "file")
	sp.With("path", path)

	bag := diag.NewBag(opts.MaxDiagnostics)
	res := &FileResult{Path: path, Bag: bag}
	timer := observ.NewTimer()

	var s *sema.Session
	err := timer.Measure("load", func() error {
		root, err := astio.Load(path)
		if err != nil {
			bag.Add(diag.FromError(err, diag.SevError))
			return err
		}
		s = sema.NewSession(sema.Options{Reporter: diag.BagReporter{Bag: bag}, MaxID: opts.MaxID})
		return timer.Measure("resolve", func() error {
			tr, err := s.Build(ctx, root)
			res.Trace = tr
			return err
		})
	})
	res.Session = s
	if res.Trace == nil && s != nil {
		s.Close()
		res.Session = nil
	}
	if opts.Timings {
		report := timer.Report()
		res.Timing = &report
	}
	sp.EndErr("resolved", err)
	return res
}

// ResolveFiles resolves paths concurrently, one session per file, and
// returns the results in input order. The error is non-nil only when ctx
// was canceled before every file was handled.
func ResolveFiles(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine owns one index, no locking needed
	results := make([]FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				results[i] = FileResult{Path: path, Bag: canceledBag(opts, gctx.Err())}
				return gctx.Err()
			default:
			}
			results[i] = *ResolveFile(gctx, path, opts)
			return nil
		})
	}
	err := g.Wait()
	return results, err
}

func canceledBag(opts Options, err error) *diag.Bag {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SemaCanceled,
		Message:  "not resolved: " + err.Error(),
	})
	return bag
}
