// Package version reports how the pis binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

// Set at link time, e.g. -ldflags "-X .../pkg/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = unknown
	BuildDate = unknown
)

// Info holds version information
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
	Modified  bool // built from a dirty work tree
	GoVersion string
	Platform  string
}

// Get returns the build information. moduleVersion is the main module
// version recorded by the go tool; it is used when no version was linked in.
// Commit and date fall back to the VCS stamps of the build.
func Get(moduleVersion string) Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Version == "dev" && moduleVersion != "" && moduleVersion != "(devel)" {
		info.Version = moduleVersion
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.fromSettings(bi.Settings)
	}
	return info
}

func (i *Info) fromSettings(settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if i.GitCommit == unknown {
				i.GitCommit = s.Value
			}
		case "vcs.time":
			if i.BuildDate == unknown {
				i.BuildDate = s.Value
			}
		case "vcs.modified":
			i.Modified = s.Value == "true"
		}
	}
}

// String returns a human-readable version string
func (i Info) String() string {
	commit := i.GitCommit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if i.Modified {
		commit += "-dirty"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "pis version %s\n", i.Version)
	fmt.Fprintf(&b, "  commit: %s\n", commit)
	fmt.Fprintf(&b, "  built:  %s\n", i.BuildDate)
	fmt.Fprintf(&b, "  go:     %s %s", i.GoVersion, i.Platform)
	return b.String()
}
