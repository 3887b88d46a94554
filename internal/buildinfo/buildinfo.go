// Package buildinfo holds build metadata for the lazyfeatures binary. The
// linker injects values into cmd/lazyfeatures; main() forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Placeholders used when the linker injected nothing.
const (
	noCommit  = "none"
	noBuilder = "unknown"
)

// Info is the metadata of the running binary.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var current = Info{Version: "dev", Commit: noCommit, Date: "unknown", BuiltBy: noBuilder}

// readBuildInfo is replaceable in tests.
var readBuildInfo = debug.ReadBuildInfo

// Set stores the linker-injected values.
func Set(v, c, d, b string) {
	current = Info{Version: v, Commit: c, Date: d, BuiltBy: b}
}

// Get returns the stored metadata.
func Get() Info { return current }

// Version returns the build version string.
func Version() string { return current.Version }

// Commit returns the build commit hash.
func Commit() string { return current.Commit }

// Date returns the build date string.
func Date() string { return current.Date }

// BuiltBy returns the build agent string.
func BuiltBy() string { return current.BuiltBy }

// Enrich fills the placeholders from the module build info: the VCS
// revision (suffixed -dirty for a modified tree) and the Go version.
func Enrich() {
	if current.Commit != noCommit && current.BuiltBy != noBuilder {
		return
	}
	info, ok := readBuildInfo()
	if !ok {
		return
	}

	if current.Commit == noCommit {
		var revision, modified string
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				revision = s.Value
			case "vcs.modified":
				modified = s.Value
			}
		}
		if revision != "" {
			if modified == "true" {
				revision += "-dirty"
			}
			current.Commit = revision
		}
	}
	if current.BuiltBy == noBuilder && info.GoVersion != "" {
		current.BuiltBy = info.GoVersion
	}
}

// UserAgent identifies the client to the backend.
func UserAgent() string {
	return "lazyfeatures/" + current.Version
}

// Summary is the multi-line text printed by --version.
func Summary() string {
	return fmt.Sprintf("lazyfeatures version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s\n",
		current.Version, current.Commit, current.Date, current.BuiltBy)
}
