package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/fatih/color"
)

// Version information for the ctfmeta CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Info is the version report printed by `ctfmeta version`.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version"`
}

// Current collects the version variables, falling back to the VCS stamp
// of the binary when GitCommit was not set at link time.
func Current() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}
	if info.GitCommit == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.GitCommit = s.Value
				}
			}
		}
	}
	return info
}

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders "major.minor.patch[-pre]" with one color per component.
// Versions that are not dotted triples are returned unchanged.
func Colored(v string, enabled bool) string {
	core, pre, hasPre := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	cs := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	for i, c := range cs {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if hasPre {
		out += "-" + pre
	}
	return out
}

// String is the one-line human form of i.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ctfmeta %s", i.Version)
	if i.GitCommit != "" {
		commit := i.GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s)", commit)
	}
	if i.BuildDate != "" {
		fmt.Fprintf(&sb, " built %s", i.BuildDate)
	}
	fmt.Fprintf(&sb, " %s", i.GoVersion)
	return sb.String()
}
