package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Run("should return defaults without a path", func(t *testing.T) {
		rules, err := LoadRules("")

		require.NoError(t, err)
		assert.Equal(t, coverage.DefaultRules(), rules)
	})

	t.Run("should overlay present keys only", func(t *testing.T) {
		path := writeRules(t, `
agent: smart-agent
misc_features: [basic]
substitutions:
  - pattern: "_"
    replacement: "-"
`)

		rules, err := LoadRules(path)
		require.NoError(t, err)

		defaults := coverage.DefaultRules()
		assert.Equal(t, "smart-agent", rules.Agent)
		assert.Equal(t, []string{"basic"}, rules.MiscFeatures)
		assert.Equal(t, []coverage.Substitution{{Pattern: "_", Replacement: "-"}}, rules.Substitutions)
		assert.Equal(t, defaults.Features, rules.Features)
		assert.Equal(t, defaults.TypePrefix, rules.TypePrefix)
	})

	t.Run("should allow clearing a string", func(t *testing.T) {
		path := writeRules(t, `type_prefix: ""`)

		rules, err := LoadRules(path)
		require.NoError(t, err)

		assert.Empty(t, rules.TypePrefix)
	})

	t.Run("should reject rules that fail validation", func(t *testing.T) {
		path := writeRules(t, `normalized_features: [extensions]`)

		_, err := LoadRules(path)

		assert.True(t, errors.Is(err, coverage.ErrInvalidRules))
	})

	t.Run("should reject malformed yaml", func(t *testing.T) {
		path := writeRules(t, "agent: [unterminated")

		_, err := LoadRules(path)

		assert.ErrorIs(t, err, coverage.ErrInvalidRules)
	})

	t.Run("should reject a missing file", func(t *testing.T) {
		_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.ErrorIs(t, err, coverage.ErrInvalidRules)
	})
}
