package main

import "runtime/debug"

// version is set at release time: -ldflags "-X main.version=x.y.z".
var version string

// Version is the release version, the module version for go install builds,
// or the VCS revision for local builds.
var Version = resolveVersion()

func resolveVersion() string {
	if version != "" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "dev"
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return "dev-" + s.Value[:12]
		}
	}
	return "dev"
}
