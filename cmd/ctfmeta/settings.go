package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ctfmeta/internal/config"
)

// settings merge ctfmeta.toml with the command line; flags win when set.
type settings struct {
	cfg     config.Config
	color   bool
	quiet   bool
	timings bool
}

func loadSettings(cmd *cobra.Command) (settings, error) {
	pf := cmd.Root().PersistentFlags()

	path, err := pf.GetString("config")
	if err != nil {
		return settings{}, err
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return settings{}, err
	}

	if pf.Changed("max-diagnostics") {
		if cfg.Resolve.MaxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
			return settings{}, err
		}
	}
	if pf.Changed("color") {
		if cfg.Output.Color, err = pf.GetString("color"); err != nil {
			return settings{}, err
		}
		cfg.Output.Color = strings.ToLower(cfg.Output.Color)
	}
	if f := cmd.Flags().Lookup("format"); f != nil && f.Changed {
		cfg.Output.Format = strings.ToLower(f.Value.String())
	}
	if f := cmd.Flags().Lookup("jobs"); f != nil && f.Changed {
		if cfg.Resolve.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
			return settings{}, err
		}
	}
	if f := cmd.Flags().Lookup("max-id"); f != nil && f.Changed {
		if cfg.Resolve.MaxID, err = cmd.Flags().GetUint64("max-id"); err != nil {
			return settings{}, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid options: %w", err)
	}

	s := settings{cfg: cfg}
	switch cfg.Output.Color {
	case "on":
		s.color = true
	case "auto":
		s.color = isTerminal(os.Stdout)
	}
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return settings{}, err
	}
	if s.timings, err = pf.GetBool("timings"); err != nil {
		return settings{}, err
	}
	return s, nil
}
