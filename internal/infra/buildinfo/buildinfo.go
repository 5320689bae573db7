// Package buildinfo reports versions embedded in the binary.
package buildinfo

import (
	"runtime/debug"

	"golang.org/x/mod/module"
)

const (
	CoreModulePath = "github.com/specvital/core"
	UnknownVersion = "unknown"
)

// ExtractCoreVersion returns the specvital/core version linked into the binary.
func ExtractCoreVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return UnknownVersion
	}
	return coreVersionFrom(info)
}

func coreVersionFrom(info *debug.BuildInfo) string {
	if info == nil {
		return UnknownVersion
	}
	for _, dep := range info.Deps {
		if dep.Path != CoreModulePath {
			continue
		}
		if dep.Replace != nil && dep.Replace.Version != "" {
			return dep.Replace.Version
		}
		if dep.Version == "" {
			return UnknownVersion
		}
		return dep.Version
	}
	return UnknownVersion
}

// FormatVersionDisplay shortens pseudo-versions to their commit:
// "v0.0.0-20250101120000-abcdef123456" becomes "abcdef1".
func FormatVersionDisplay(version string) string {
	if version == "" {
		return UnknownVersion
	}
	if !module.IsPseudoVersion(version) {
		return version
	}
	rev, err := module.PseudoVersionRev(version)
	if err != nil {
		return version
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	return rev
}
