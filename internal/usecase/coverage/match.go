package coverage

import (
	"regexp"
	"slices"
	"strings"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// Normalizer rewrites test keys with one leftmost-first pass over an alternation of
// literal patterns. Replaced text is never rescanned, so "a_collectd" becomes
// "a-collectd" rather than "a".
type Normalizer struct {
	re           *regexp.Regexp
	replacements map[string]string
}

// NewNormalizer creates a Normalizer. Duplicate patterns keep their first replacement.
func NewNormalizer(subs []coverage.Substitution) *Normalizer {
	patterns := make([]string, 0, len(subs))
	replacements := make(map[string]string, len(subs))
	for _, s := range subs {
		if _, dup := replacements[s.Pattern]; dup {
			continue
		}
		patterns = append(patterns, regexp.QuoteMeta(s.Pattern))
		replacements[s.Pattern] = s.Replacement
	}

	n := &Normalizer{replacements: replacements}
	if len(patterns) > 0 {
		n.re = regexp.MustCompile(strings.Join(patterns, "|"))
	}
	return n
}

// Normalize applies every substitution to s in one pass.
func (n *Normalizer) Normalize(s string) string {
	if n.re == nil {
		return s
	}
	return n.re.ReplaceAllStringFunc(s, func(m string) string {
		return n.replacements[m]
	})
}

// Match compares the declared feature types with the discovered test modules.
//
// Coverage is the number of test modules per feature over the number of declared
// types, unguarded against an empty declaration. Missing lists are sorted set
// differences; for normalized features declared types have "_" replaced by "-" and
// test keys go through the normalizer first.
func Match(manifest *coverage.FeatureManifest, inv *coverage.TestInventory, rules coverage.Rules, norm *Normalizer) *coverage.Report {
	report := &coverage.Report{
		Agent:         rules.Agent,
		Coverage:      make([]coverage.FeatureCoverage, 0, len(rules.Features)),
		Missing:       make([]coverage.CategoryList, 0, len(rules.Features)),
		Miscellaneous: make([]coverage.CategoryList, 0, len(rules.MiscFeatures)),
	}

	for _, feature := range rules.Features {
		types := manifest.Types(feature)
		keys := inv.ModuleNames(feature)

		report.Coverage = append(report.Coverage, coverage.FeatureCoverage{
			Feature:    coverage.HeaderName(feature),
			Declared:   len(types),
			Tested:     len(keys),
			Percentage: float64(len(keys)) * 100 / float64(len(types)),
		})

		report.Missing = append(report.Missing, coverage.CategoryList{
			Category: feature,
			Items:    missingTypes(types, keys, rules.Normalizes(feature), norm),
		})
	}

	for _, misc := range rules.MiscFeatures {
		report.Miscellaneous = append(report.Miscellaneous, coverage.CategoryList{
			Category: misc,
			Items:    inv.ModuleNames(misc),
		})
	}

	return report
}

func missingTypes(types, keys []string, normalize bool, norm *Normalizer) []string {
	tested := make(map[string]bool, len(keys))
	for _, k := range keys {
		if normalize {
			k = norm.Normalize(k)
		}
		tested[k] = true
	}

	seen := make(map[string]bool, len(types))
	missing := []string{}
	for _, t := range types {
		if normalize {
			t = strings.ReplaceAll(t, "_", "-")
		}
		if tested[t] || seen[t] {
			continue
		}
		seen[t] = true
		missing = append(missing, t)
	}
	slices.Sort(missing)
	return missing
}
