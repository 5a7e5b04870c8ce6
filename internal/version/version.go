package version

import "fmt"

// Version is the releasepub release, set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/releasepub/internal/version.Version=v0.3.0".
var Version = "dev"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return fmt.Sprintf("releasepub %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
