package coverage

import (
	"context"
	"io"
)

// ManifestReader loads the feature manifest an agent describes itself with.
type ManifestReader interface {
	Read(ctx context.Context, path string) (*FeatureManifest, error)
}

// Discoverer enumerates the test cases under root without executing them.
type Discoverer interface {
	Discover(ctx context.Context, root string) ([]TestCase, error)
}

// Renderer writes a finished report to w.
type Renderer interface {
	Render(w io.Writer, report *Report) error
}
