package version

import (
	"fmt"
	"runtime/debug"
)

// These variables are populated at build time via -ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// String is the version line printed by `prospectsheet version`. Without
// ldflags the VCS revision recorded by the Go toolchain is used.
func String() string {
	base := Version
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit != "" {
		base += fmt.Sprintf(" (%s)", commit)
	}
	if Date != "" {
		base += " " + Date
	}
	return base
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
