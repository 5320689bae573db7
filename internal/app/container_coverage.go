package app

import (
	"fmt"

	"github.com/specvital/agent-coverage/internal/adapter/discovery"
	"github.com/specvital/agent-coverage/internal/adapter/manifest"
	"github.com/specvital/agent-coverage/internal/adapter/render"
	"github.com/specvital/agent-coverage/internal/domain/coverage"
	"github.com/specvital/agent-coverage/internal/infra/config"
	uc "github.com/specvital/agent-coverage/internal/usecase/coverage"
)

// CoverageContainer holds dependencies for a coverage report run.
type CoverageContainer struct {
	ReportUseCase *uc.ReportUseCase
	Renderer      coverage.Renderer
}

// NewCoverageContainer creates and initializes a new coverage container with all required dependencies.
func NewCoverageContainer(cfg ContainerConfig) (*CoverageContainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid container config: %w", err)
	}

	discoverer, err := newDiscoverer(cfg)
	if err != nil {
		return nil, err
	}

	reportUC := uc.NewReportUseCase(
		manifest.NewJSONReader(cfg.Rules),
		discoverer,
		uc.WithReportTimeout(cfg.ReportTimeout),
		uc.WithRules(cfg.Rules),
	)

	var renderer coverage.Renderer = render.NewTableRenderer()
	if cfg.Output == config.OutputJSON {
		renderer = render.NewJSONRenderer()
	}

	return &CoverageContainer{
		ReportUseCase: reportUC,
		Renderer:      renderer,
	}, nil
}

func newDiscoverer(cfg ContainerConfig) (coverage.Discoverer, error) {
	var d coverage.Discoverer
	switch cfg.Collector {
	case config.CollectorPytest:
		d = discovery.NewPytestDiscoverer(cfg.PytestBinary)
	default:
		d = discovery.NewCoreDiscoverer()
	}

	if len(cfg.Excludes) == 0 {
		return d, nil
	}
	filtered, err := discovery.NewFilteredDiscoverer(d, cfg.Excludes)
	if err != nil {
		return nil, fmt.Errorf("create exclude filter: %w", err)
	}
	return filtered, nil
}
