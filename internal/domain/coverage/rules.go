package coverage

import (
	"fmt"
	"slices"
)

// Substitution rewrites one literal occurrence of Pattern in a test key.
type Substitution struct {
	Pattern     string
	Replacement string
}

// Rules holds the naming conventions shared by discovery, collection and matching.
type Rules struct {
	Agent              string
	Features           []string
	MiscFeatures       []string
	NormalizedFeatures []string
	TypeFields         []string
	TypePrefix         string
	TestsMarker        string
	NamePrefix         string
	ModuleSuffix       string
	GeneralGroup       string
	// Substitutions are applied as a single alternation, earlier entries winning ties.
	Substitutions []Substitution
}

// DefaultRules returns the rules for the signalfx-agent layout.
func DefaultRules() Rules {
	return Rules{
		Agent:              "signalfx-agent",
		Features:           []string{"monitors", "observers"},
		MiscFeatures:       []string{"basic", "config_sources", "packaging"},
		NormalizedFeatures: []string{"monitors"},
		TypeFields:         []string{"monitorType", "observerType"},
		TypePrefix:         "collectd/",
		TestsMarker:        "tests/",
		NamePrefix:         "test_",
		ModuleSuffix:       "_test",
		GeneralGroup:       "general",
		Substitutions: []Substitution{
			{Pattern: "_", Replacement: "-"},
			{Pattern: "-collectd", Replacement: ""},
			{Pattern: "collectd-", Replacement: ""},
			{Pattern: "prometheus", Replacement: "prometheus-exporter"},
		},
	}
}

// RequiredPackages lists every package the test inventory must contain.
func (r Rules) RequiredPackages() []string {
	return slices.Concat(r.Features, r.MiscFeatures)
}

// Normalizes reports whether declared types and test keys of feature are normalized before comparison.
func (r Rules) Normalizes(feature string) bool {
	return slices.Contains(r.NormalizedFeatures, feature)
}

// Validate checks that the rules can drive a report.
func (r Rules) Validate() error {
	if len(r.Features) == 0 {
		return fmt.Errorf("%w: at least one feature category is required", ErrInvalidRules)
	}
	if len(r.TypeFields) == 0 {
		return fmt.Errorf("%w: at least one type field is required", ErrInvalidRules)
	}
	if r.GeneralGroup == "" {
		return fmt.Errorf("%w: general group name is required", ErrInvalidRules)
	}
	if r.TestsMarker == "" {
		return fmt.Errorf("%w: tests marker is required", ErrInvalidRules)
	}
	seen := make(map[string]bool, len(r.Substitutions))
	for i, s := range r.Substitutions {
		if s.Pattern == "" {
			return fmt.Errorf("%w: substitution %d has an empty pattern", ErrInvalidRules, i)
		}
		if seen[s.Pattern] {
			return fmt.Errorf("%w: duplicate substitution pattern %q", ErrInvalidRules, s.Pattern)
		}
		seen[s.Pattern] = true
	}
	for _, f := range r.NormalizedFeatures {
		if !slices.Contains(r.Features, f) {
			return fmt.Errorf("%w: normalized feature %q is not a feature category", ErrInvalidRules, f)
		}
	}
	return nil
}
