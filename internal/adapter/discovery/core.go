// Package discovery enumerates test cases under a directory without executing them.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/specvital/core/pkg/parser"
	"github.com/specvital/core/pkg/source"

	"github.com/specvital/agent-coverage/internal/adapter/mapping"
	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// CoreDiscoverer implements coverage.Discoverer by statically parsing test files
// with specvital/core. Framework strategies must be registered by the binary
// (see the blank strategies/all import in cmd/coverage).
type CoreDiscoverer struct{}

// NewCoreDiscoverer creates a new CoreDiscoverer.
func NewCoreDiscoverer() *CoreDiscoverer {
	return &CoreDiscoverer{}
}

// Discover scans root and converts the resulting inventory to test cases.
// Parameterized cases are reported once under their function name, since static
// parsing does not expand parameter sets.
func (d *CoreDiscoverer) Discover(ctx context.Context, root string) ([]coverage.TestCase, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve tests dir %q: %w", root, err)
	}

	src, err := source.NewLocalSource(abs)
	if err != nil {
		return nil, fmt.Errorf("open tests dir %q: %w", abs, err)
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			slog.Error("failed to close source", "error", closeErr, "root", abs)
		}
	}()

	result, err := parser.Scan(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("core parser scan: %w", err)
	}
	if result == nil || result.Inventory == nil {
		slog.WarnContext(ctx, "scan result has no inventory", "root", abs)
		return []coverage.TestCase{}, nil
	}

	cases := mapping.ConvertCoreToTestCases(result.Inventory, filepath.Base(abs))
	slog.DebugContext(ctx, "static discovery finished",
		"root", abs,
		"files", len(result.Inventory.Files),
		"cases", len(cases),
	)
	return cases, nil
}
