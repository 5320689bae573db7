// Package manifest reads the JSON self-description an agent emits for its monitor and observer types.
package manifest

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// JSONReader implements coverage.ManifestReader over a self-describe JSON document.
type JSONReader struct {
	rules coverage.Rules
}

// NewJSONReader creates a new JSONReader.
func NewJSONReader(rules coverage.Rules) *JSONReader {
	return &JSONReader{rules: rules}
}

// Read loads the self-describe file at path.
func (r *JSONReader) Read(_ context.Context, path string) (*coverage.FeatureManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read manifest %q: %w", coverage.ErrInvalidInput, path, err)
	}
	return r.Parse(data)
}

// Parse extracts the declared types of every feature category from data.
//
// Each category must appear as a title-cased top-level key ("monitors" as "Monitors")
// holding an array. Within array elements, every recognized type field contributes
// its value with the type prefix removed.
func (r *JSONReader) Parse(data []byte) (*coverage.FeatureManifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: manifest is not valid JSON", coverage.ErrInvalidInput)
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: manifest root is not an object", coverage.ErrInvalidInput)
	}

	caser := cases.Title(language.Und)
	types := make(map[string][]string, len(r.rules.Features))

	for _, feature := range r.rules.Features {
		key := caser.String(feature)

		list, ok := lookupKey(root, key)
		if !ok {
			return nil, fmt.Errorf("%w: manifest has no %q key", coverage.ErrInvalidInput, key)
		}
		if !list.IsArray() {
			return nil, fmt.Errorf("%w: manifest key %q is not an array", coverage.ErrInvalidInput, key)
		}

		ids, err := r.extractTypes(key, list)
		if err != nil {
			return nil, err
		}
		types[feature] = ids
	}

	return coverage.NewFeatureManifest(r.rules.Features, types), nil
}

func (r *JSONReader) extractTypes(key string, list gjson.Result) ([]string, error) {
	ids := []string{}
	var fieldErr error

	list.ForEach(func(_, element gjson.Result) bool {
		if !element.IsObject() {
			return true
		}
		element.ForEach(func(field, value gjson.Result) bool {
			if !slices.Contains(r.rules.TypeFields, field.String()) {
				return true
			}
			if value.Type != gjson.String {
				fieldErr = fmt.Errorf("%w: %s field %q is not a string", coverage.ErrInvalidInput, key, field.String())
				return false
			}
			ids = append(ids, r.stripPrefix(value.String()))
			return true
		})
		return fieldErr == nil
	})

	if fieldErr != nil {
		return nil, fieldErr
	}
	return ids, nil
}

func (r *JSONReader) stripPrefix(id string) string {
	if r.rules.TypePrefix == "" {
		return id
	}
	return strings.ReplaceAll(id, r.rules.TypePrefix, "")
}

// lookupKey finds a top-level key by exact name. The last occurrence wins, matching
// how decoders treat duplicate keys.
func lookupKey(root gjson.Result, key string) (gjson.Result, bool) {
	var (
		found gjson.Result
		ok    bool
	)
	root.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found, ok = v, true
		}
		return true
	})
	return found, ok
}
