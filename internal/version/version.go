// Package version reports the build version.
package version

import "runtime/debug"

// Version is the release version, overridable at link time.
var Version = "0.3.0"

// String returns the version, with the VCS revision appended when the
// binary carries build info.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 7 {
			return Version + "+" + setting.Value[:7]
		}
	}
	return Version
}
