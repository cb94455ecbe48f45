package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ctfmeta/internal/diag"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "[resolve]\nmax_id = 255\njobs = 2\n\n[output]\nformat = \"json\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	want := Default()
	want.Resolve.MaxID = 255
	want.Resolve.Jobs = 2
	want.Output.Format = "json"
	want.Path = path
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config (-want +got):\n%s", diff)
	}
}

func TestDiscoverWithoutFile(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("want defaults (-want +got):\n%s", diff)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[resolve\n"},
		{"unknown key", "[resolve]\nmax_ids = 3\n"},
		{"bad format", "[output]\nformat = \"xml\"\n"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n"},
		{"zero diagnostics", "[resolve]\nmax_diagnostics = 0\n"},
		{"negative jobs", "[resolve]\njobs = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			if !errors.Is(err, diag.ErrConfigInvalid) {
				t.Fatalf("want ErrConfigInvalid, got %v", err)
			}
		})
	}
}
