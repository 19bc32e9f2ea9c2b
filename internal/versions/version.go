// Package versions provides build version information for the registry
// tooling and SemVer ordering helpers used by the index builder.
package versions

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

const unknown = "unknown"

// Set at build time via -ldflags.
var (
	// Version is the canreg version.
	Version = "dev"
	// Commit is the git commit hash of the build.
	Commit = unknown
	// BuildDate is when the binary was built.
	BuildDate = unknown
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns version information, falling back to the binary's embedded
// VCS metadata when no ldflags were provided.
func Get() Info {
	version, commit, buildDate := Version, Commit, BuildDate

	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs.revision":
					if commit == unknown {
						commit = setting.Value
					}
				case "vcs.time":
					if buildDate == unknown {
						buildDate = setting.Value
					}
				}
			}
		}
		version = fmt.Sprintf("build-%.8s", commit)
	}

	if buildDate != unknown {
		if t, err := time.Parse(time.RFC3339, buildDate); err == nil {
			buildDate = t.Format("2006-01-02 15:04:05 MST")
		}
	}

	return Info{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
