package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/spanlog"
)

var fixtures = filepath.Join("..", "astio", "testdata")

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestResolveFiles(t *testing.T) {
	paths := []string{
		filepath.Join(fixtures, "sched.yaml"),
		filepath.Join(fixtures, "broken.yaml"),
		filepath.Join(fixtures, "missing.yaml"),
	}
	results, err := ResolveFiles(context.Background(), paths, Options{Jobs: 2, Timings: true})
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	t.Cleanup(func() {
		for i := range results {
			results[i].Close()
		}
	})
	if len(results) != 3 {
		t.Fatalf("want 3 results, got %d", len(results))
	}

	ok := results[0]
	if ok.Failed() || ok.Path != paths[0] {
		t.Fatalf("sched.yaml failed: %v", codes(ok.Bag))
	}
	st, found := ok.Trace.Stream(0)
	if !found || st.Events.Count() != 2 {
		t.Fatalf("stream 0 should hold 2 events")
	}
	if ok.Timing == nil || len(ok.Timing.Phases) != 2 {
		t.Fatalf("want load and resolve timings, got %+v", ok.Timing)
	}

	broken := results[1]
	if !broken.Failed() || broken.Session != nil {
		t.Fatalf("broken.yaml should fail and release its session")
	}
	want := []diag.Code{diag.SemaUnknownStream, diag.SemaUnknownType}
	if diff := cmp.Diff(want, codes(broken.Bag)); diff != "" {
		t.Fatalf("broken.yaml codes (-want +got):\n%s", diff)
	}

	missing := results[2]
	if diff := cmp.Diff([]diag.Code{diag.IOLoadFailed}, codes(missing.Bag)); diff != "" {
		t.Fatalf("missing.yaml codes (-want +got):\n%s", diff)
	}

	sum := Summarize(results)
	if sum != (Summary{Files: 3, Failed: 2, Errors: 3}) {
		t.Fatalf("summary %+v", sum)
	}
}

func TestSummarizeCountsDroppedSeparately(t *testing.T) {
	results, err := ResolveFiles(context.Background(), []string{filepath.Join(fixtures, "broken.yaml")}, Options{MaxDiagnostics: 1})
	if err != nil {
		t.Fatalf("ResolveFiles: %v", err)
	}
	defer results[0].Close()
	sum := Summarize(results)
	if sum != (Summary{Files: 1, Failed: 1, Errors: 1, Dropped: 1}) {
		t.Fatalf("summary %+v", sum)
	}
}

func TestResolveFileOpensFileSpan(t *testing.T) {
	ring := spanlog.NewRingLogger(64, spanlog.LevelPhase)
	ctx := spanlog.WithLogger(context.Background(), ring)
	res := ResolveFile(ctx, filepath.Join(fixtures, "sched.yaml"), Options{})
	defer res.Close()

	events := ring.Snapshot()
	if len(events) == 0 {
		t.Fatalf("no events recorded")
	}
	first := events[0]
	if first.Kind != spanlog.KindSpanBegin || first.Scope != spanlog.ScopeFile || first.Name != "file" {
		t.Fatalf("first event %+v, want a file-scope begin", first)
	}
	for _, ev := range events {
		if ev.Scope == spanlog.ScopeDriver {
			t.Fatalf("per-file work logged at driver scope: %+v", ev)
		}
	}
}

func TestResolveFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := ResolveFiles(ctx, []string{filepath.Join(fixtures, "sched.yaml")}, Options{})
	if err == nil {
		t.Fatalf("want an error from a canceled run")
	}
	if got := codes(results[0].Bag); len(got) != 1 || got[0] != diag.SemaCanceled {
		t.Fatalf("want SemaCanceled, got %v", got)
	}
}

func TestExpandPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.ctfast", "notes.txt", filepath.Join("sub", "c.yml")} {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := ExpandPaths([]string{dir, "explicit.txt", filepath.Join(dir, "b.yaml")})
	if err != nil {
		t.Fatalf("ExpandPaths: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.ctfast"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yml"),
		"explicit.txt",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}
}
