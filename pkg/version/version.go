// Package version holds build-time version information shared by the
// CLI banner and the provenance stamps written into store files.
package version

import "fmt"

// Overridable at build time via ldflags:
// go build -ldflags "-X github.com/scheck/scheck/pkg/version.Version=1.0.0"
var (
	Version   = "0.4.2"
	BuildDate = "2026-08-12"
	Commit    = "dev"
)

// GeneratedBy returns the provenance string written into persisted
// store files, e.g. "scheck/0.4.2".
func GeneratedBy() string {
	return fmt.Sprintf("scheck/%s", Version)
}
