// Package version reports how the asciifm binary was built.
//
// Release builds stamp the variables below, e.g.
//
//	go build -ldflags="-X asciifm/internal/version.Version=1.2.0 -X asciifm/internal/version.GitCommit=abc1234"
//
// Anything left unstamped falls back to the VCS data the Go toolchain
// embeds, then to "unknown".
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

const unknown = "unknown"

// Info describes one build of asciifm.
type Info struct {
	Version   string
	Commit    string
	Built     string
	GoVersion string
	Platform  string
}

// Get collects the build description, preferring stamped values over
// embedded VCS settings.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    GitCommit,
		Built:     BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromSettings(&info, bi.Settings)
	}

	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.Built == "" {
		info.Built = unknown
	}
	return info
}

func fillFromSettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortCommit(s.Value)
			}
		case "vcs.time":
			if info.Built == "" {
				info.Built = s.Value
			}
		}
	}
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// String is the --version line.
func (i Info) String() string {
	return "asciifm " + i.Version + " (" + i.Commit + ") built " + i.Built +
		" with " + i.GoVersion + " on " + i.Platform
}

// UserAgent identifies asciifm to Last.fm and image hosts.
func UserAgent() string {
	return "asciifm/" + Version
}
