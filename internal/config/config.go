// Package config loads ctfmeta.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ctfmeta/internal/diag"
	"ctfmeta/internal/sema"
	"ctfmeta/internal/source"
)

// FileName is the config file searched for upwards from the working directory.
const FileName = "ctfmeta.toml"

type Config struct {
	Resolve ResolveConfig `toml:"resolve"`
	Output  OutputConfig  `toml:"output"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

type ResolveConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	MaxID          uint64 `toml:"max_id"`
	Jobs           int    `toml:"jobs"` // 0 = GOMAXPROCS
}

type OutputConfig struct {
	Format string `toml:"format"` // pretty|json
	Color  string `toml:"color"`  // auto|on|off
}

func Default() Config {
	return Config{
		Resolve: ResolveConfig{MaxDiagnostics: 100, MaxID: sema.DefaultMaxID},
		Output:  OutputConfig{Format: "pretty", Color: "auto"},
	}
}

// Find walks up from startDir to locate ctfmeta.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path over the defaults. Keys left out keep their default.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, invalid("%s: failed to parse TOML: %v", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, invalid("%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, invalid("%s: %v", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Discover finds and loads the nearest config above startDir, or returns
// the defaults when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Validate() error {
	if c.Resolve.MaxDiagnostics < 1 {
		return fmt.Errorf("[resolve].max_diagnostics must be positive, got %d", c.Resolve.MaxDiagnostics)
	}
	if c.Resolve.MaxID == 0 {
		return fmt.Errorf("[resolve].max_id must be positive")
	}
	if c.Resolve.Jobs < 0 {
		return fmt.Errorf("[resolve].jobs must not be negative, got %d", c.Resolve.Jobs)
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("[output].format must be pretty or json, got %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return diag.Errorf(diag.PrjConfigInvalid, source.Span{}, format, args...)
}
