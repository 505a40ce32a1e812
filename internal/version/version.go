// Package version reports the build identity shown by storyforge --version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X ...". When unset, the VCS stamp that
// the Go toolchain embeds in the binary is used instead.
var (
	Commit    = ""
	BuildTime = ""
)

// String returns the version line.
func String() string {
	commit, built := Commit, BuildTime
	if commit == "" || built == "" {
		vcsCommit, vcsTime, modified := vcsInfo()
		if commit == "" {
			commit = vcsCommit
			if modified {
				commit += "+dirty"
			}
		}
		if built == "" {
			built = vcsTime
		}
	}
	return fmt.Sprintf("storyforge dev (commit: %s, built: %s)", short(commit), orUnknown(built))
}

func vcsInfo() (commit, at string, modified bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", "", false
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			commit = s.Value
		case "vcs.time":
			at = s.Value
		case "vcs.modified":
			modified = s.Value == "true"
		}
	}
	return commit, at, modified
}

func short(commit string) string {
	if commit == "" {
		return "unknown"
	}
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
