package buildinfo

import (
	"runtime/debug"
	"testing"
)

func TestCoreVersionFrom(t *testing.T) {
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"nil info", nil, UnknownVersion},
		{"no deps", &debug.BuildInfo{}, UnknownVersion},
		{
			"tagged",
			&debug.BuildInfo{Deps: []*debug.Module{
				{Path: "github.com/google/uuid", Version: "v1.6.0"},
				{Path: CoreModulePath, Version: "v1.4.2"},
			}},
			"v1.4.2",
		},
		{
			"replaced",
			&debug.BuildInfo{Deps: []*debug.Module{
				{Path: CoreModulePath, Version: "v1.4.2", Replace: &debug.Module{Path: "../core", Version: "v1.5.0"}},
			}},
			"v1.5.0",
		},
		{
			"local replace without version",
			&debug.BuildInfo{Deps: []*debug.Module{
				{Path: CoreModulePath, Version: "v1.4.2", Replace: &debug.Module{Path: "../core"}},
			}},
			"v1.4.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coreVersionFrom(tt.info); got != tt.want {
				t.Errorf("coreVersionFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatVersionDisplay(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"", UnknownVersion},
		{"v1.4.2", "v1.4.2"},
		{"(devel)", "(devel)"},
		{"v0.0.0-20250101120000-abcdef123456", "abcdef1"},
		{"v1.4.3-0.20250101120000-abcdef123456", "abcdef1"},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			if got := FormatVersionDisplay(tt.version); got != tt.want {
				t.Errorf("FormatVersionDisplay(%q) = %q, want %q", tt.version, got, tt.want)
			}
		})
	}
}

func TestExtractCoreVersion(t *testing.T) {
	if ExtractCoreVersion() == "" {
		t.Error("ExtractCoreVersion returned empty string")
	}
}
