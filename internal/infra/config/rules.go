package config

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// rulesFile mirrors coverage.Rules. Absent keys keep their default.
type rulesFile struct {
	Agent              *string            `yaml:"agent"`
	Features           []string           `yaml:"features"`
	MiscFeatures       []string           `yaml:"misc_features"`
	NormalizedFeatures []string           `yaml:"normalized_features"`
	TypeFields         []string           `yaml:"type_fields"`
	TypePrefix         *string            `yaml:"type_prefix"`
	TestsMarker        *string            `yaml:"tests_marker"`
	NamePrefix         *string            `yaml:"name_prefix"`
	ModuleSuffix       *string            `yaml:"module_suffix"`
	GeneralGroup       *string            `yaml:"general_group"`
	Substitutions      []substitutionFile `yaml:"substitutions"`
}

type substitutionFile struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// LoadRules returns the default rules, overlaid with the YAML file at path when set.
func LoadRules(path string) (coverage.Rules, error) {
	rules := coverage.DefaultRules()
	if path == "" {
		return rules, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return coverage.Rules{}, fmt.Errorf("%w: load rules from %q: %w", coverage.ErrInvalidRules, path, err)
	}

	var f rulesFile
	if err := k.UnmarshalWithConf("", &f, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return coverage.Rules{}, fmt.Errorf("%w: parse rules from %q: %w", coverage.ErrInvalidRules, path, err)
	}

	f.overlay(&rules)

	if err := rules.Validate(); err != nil {
		return coverage.Rules{}, fmt.Errorf("rules file %q: %w", path, err)
	}
	return rules, nil
}

func (f rulesFile) overlay(r *coverage.Rules) {
	setString(&r.Agent, f.Agent)
	setString(&r.TypePrefix, f.TypePrefix)
	setString(&r.TestsMarker, f.TestsMarker)
	setString(&r.NamePrefix, f.NamePrefix)
	setString(&r.ModuleSuffix, f.ModuleSuffix)
	setString(&r.GeneralGroup, f.GeneralGroup)

	setList(&r.Features, f.Features)
	setList(&r.MiscFeatures, f.MiscFeatures)
	setList(&r.NormalizedFeatures, f.NormalizedFeatures)
	setList(&r.TypeFields, f.TypeFields)

	if f.Substitutions != nil {
		r.Substitutions = make([]coverage.Substitution, 0, len(f.Substitutions))
		for _, s := range f.Substitutions {
			r.Substitutions = append(r.Substitutions, coverage.Substitution{
				Pattern:     s.Pattern,
				Replacement: s.Replacement,
			})
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = v
	}
}
