// Package version records the application version stamped at build time.
package version

// Version is the application version, overridden at release time via
// -ldflags "-X github.com/meridiancap/Fee-Letter-Backend/internal/version.Version=v1.0.0".
var Version = "dev"
