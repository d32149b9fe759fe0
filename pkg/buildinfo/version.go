// Package buildinfo reports which roadweave build is running. The
// variables are stamped by the release build:
//
//	go build -ldflags "-X github.com/matzehuels/roadweave/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/roadweave/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/roadweave/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "fmt"

var (
	// Version is the release tag, "dev" for local builds. It also scopes
	// cache keys, so two releases never share cached networks.
	Version = "dev"

	// Commit is the short git SHA.
	Commit = "none"

	// Date is the UTC build time.
	Date = "unknown"
)

// Info is the build description served by the health endpoint.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Current returns the stamped build description.
func Current() Info {
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}
