// Package version provides the PressKeep build version.
package version

// Version is the current version of PressKeep.
// It is overridden at build time using ldflags.
var Version = "dev"

// GetVersion returns the current version of PressKeep.
func GetVersion() string {
	return Version
}
