package app

import (
	"fmt"
	"time"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
	"github.com/specvital/agent-coverage/internal/infra/config"
)

// ContainerConfig holds configuration for dependency injection containers.
type ContainerConfig struct {
	Collector     string
	Excludes      []string
	Output        string
	PytestBinary  string // optional: default pytest
	ReportTimeout time.Duration
	Rules         coverage.Rules
}

// Validate checks that the collector and output are known and the rules are usable.
func (c ContainerConfig) Validate() error {
	switch c.Collector {
	case config.CollectorStatic, config.CollectorPytest:
	default:
		return fmt.Errorf("unknown collector %q", c.Collector)
	}
	switch c.Output {
	case config.OutputTable, config.OutputJSON:
	default:
		return fmt.Errorf("unknown output %q", c.Output)
	}
	return c.Rules.Validate()
}
