// Package appinfo reports build metadata for the running binary.
package appinfo

import (
	"os"
	"runtime"
	"runtime/debug"
)

const unknownVersion = "0.0.0-unknown"

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
}

// Read collects build metadata. APP_VERSION overrides the module version.
func Read() Info {
	info := Info{Version: unknownVersion, GoVersion: runtime.Version()}

	if build, ok := debug.ReadBuildInfo(); ok {
		if v := build.Main.Version; v != "" && v != "(devel)" {
			info.Version = v
		}
		for _, setting := range build.Settings {
			switch setting.Key {
			case "vcs.revision":
				info.Revision = setting.Value
			case "vcs.time":
				info.BuildTime = setting.Value
			case "vcs.modified":
				info.Modified = setting.Value == "true"
			}
		}
	}

	if v := os.Getenv("APP_VERSION"); v != "" {
		info.Version = v
	}
	return info
}

// Version returns the version reported by Read.
func Version() string {
	return Read().Version
}
