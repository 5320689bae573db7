package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

// FilteredDiscoverer drops cases whose location matches any exclude pattern.
type FilteredDiscoverer struct {
	next     coverage.Discoverer
	patterns []string
}

// NewFilteredDiscoverer wraps next. Patterns use doublestar syntax, e.g. "**/helpers/**".
func NewFilteredDiscoverer(next coverage.Discoverer, patterns []string) (*FilteredDiscoverer, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &FilteredDiscoverer{next: next, patterns: patterns}, nil
}

// Discover runs the wrapped discoverer and filters its cases.
func (d *FilteredDiscoverer) Discover(ctx context.Context, root string) ([]coverage.TestCase, error) {
	cases, err := d.next.Discover(ctx, root)
	if err != nil {
		return nil, err
	}

	kept := make([]coverage.TestCase, 0, len(cases))
	for _, tc := range cases {
		if d.excluded(tc.Location) {
			continue
		}
		kept = append(kept, tc)
	}

	if dropped := len(cases) - len(kept); dropped > 0 {
		slog.DebugContext(ctx, "excluded test cases", "count", dropped, "patterns", d.patterns)
	}
	return kept, nil
}

func (d *FilteredDiscoverer) excluded(location string) bool {
	for _, p := range d.patterns {
		// Patterns are validated up front, so Match cannot fail here.
		if ok, _ := doublestar.Match(p, location); ok {
			return true
		}
	}
	return false
}
