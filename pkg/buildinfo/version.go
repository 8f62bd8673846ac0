// Package buildinfo reports which cargoquery build is running.
//
// Release builds stamp the values with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/cargoquery/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/cargoquery/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/cargoquery/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A binary installed with "go install" carries no ldflags; [Get] then falls
// back to the module version and VCS stamp recorded by the go tool.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Placeholders used when nothing better is known.
const (
	unknownVersion = "dev"
	unknownCommit  = "none"
	unknownDate    = "unknown"
)

// Set via ldflags.
var (
	Version = unknownVersion
	Commit  = unknownCommit
	Date    = unknownDate
)

// Info identifies a build.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get returns the ldflags values, filling any left unset from the
// binary's embedded build information.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info = info.withBuildInfo(bi)
	}
	return info
}

func (i Info) withBuildInfo(bi *debug.BuildInfo) Info {
	if i.Version == unknownVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && i.Commit == unknownCommit:
			i.Commit = s.Value
		case s.Key == "vcs.time" && i.Date == unknownDate:
			i.Date = s.Value
		}
	}
	return i
}

// String returns the build information on three lines.
func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", i.Version, i.Commit, i.Date)
}

// String returns [Get] formatted for display.
func String() string { return Get().String() }

// Template returns a cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}

// UserAgent returns the User-Agent sent to registries. crates.io asks
// clients to identify themselves with a contact URL.
func UserAgent() string {
	return fmt.Sprintf("cargoquery/%s (https://github.com/matzehuels/cargoquery)", Get().Version)
}
