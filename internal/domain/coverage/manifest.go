package coverage

import (
	"encoding/json"
	"slices"
)

// FeatureManifest maps each feature category to the type identifiers an agent declares for it.
type FeatureManifest struct {
	categories []string
	types      map[string][]string
}

// NewFeatureManifest builds a manifest. Categories keep the given order; types are copied.
func NewFeatureManifest(categories []string, types map[string][]string) *FeatureManifest {
	m := &FeatureManifest{
		categories: slices.Clone(categories),
		types:      make(map[string][]string, len(categories)),
	}
	for _, c := range categories {
		m.types[c] = slices.Clone(types[c])
	}
	return m
}

// Categories returns the categories in declaration order.
func (m *FeatureManifest) Categories() []string {
	return slices.Clone(m.categories)
}

// Types returns the declared identifiers of category in manifest order.
func (m *FeatureManifest) Types(category string) []string {
	return slices.Clone(m.types[category])
}

func (m *FeatureManifest) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.types)
}
