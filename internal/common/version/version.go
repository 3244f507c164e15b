package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build metadata, overridden with -ldflags "-X .../version.Version=..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Detail is an extra key/value line appended to Info, such as the resolved
// patcher or the log location.
type Detail struct {
	Key   string
	Value string
}

// Info renders the build metadata followed by any details. Details with an
// empty value are left out.
func Info(details ...Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "spiceguard %s (%s, built %s)\n", Version, shortCommit(Commit), BuildDate)
	fmt.Fprintf(&b, "  %-9s %s %s/%s", "go:", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	for _, d := range details {
		if d.Value == "" {
			continue
		}
		fmt.Fprintf(&b, "\n  %-9s %s", d.Key+":", d.Value)
	}
	return b.String()
}

// Short returns just the version string
func Short() string {
	return Version
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
