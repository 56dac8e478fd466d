// Package buildinfo reports which simasm build is running.
//
// Release builds stamp the variables through ldflags:
//
//	go build -ldflags "-X github.com/LMascagni/simasm/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/LMascagni/simasm/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/LMascagni/simasm/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// A binary built with "go install" has no ldflags; [Resolve] then falls back
// to the module version and VCS stamp recorded by the Go toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var resolveOnce sync.Once

// Resolve fills unset variables from the embedded build information. It is
// safe to call more than once.
func Resolve() {
	resolveOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "none":
				Commit = s.Value
			case s.Key == "vcs.time" && Date == "unknown":
				Date = s.Value
			}
		}
	})
}

// Template is the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, Commit, Date)
}

// UserAgent identifies simasm in HTTP responses and published messages.
func UserAgent() string {
	return "simasm/" + Version
}
