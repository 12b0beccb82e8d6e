// Package version carries the build version, set with
// -ldflags "-X github.com/pqminh27/nurbs/internal/version.Version=...".
package version

var Version = "dev"

// String returns Version, or "dev" when it was cleared at link time.
func String() string {
	if Version == "" {
		return "dev"
	}
	return Version
}
