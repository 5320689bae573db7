package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

const (
	// CollectorStatic scans sources without running Python. Parametrized cases stay one label.
	CollectorStatic = "static"
	// CollectorPytest runs pytest collect-only and records one label per parameter set.
	CollectorPytest = "pytest"

	OutputTable = "table"
	OutputJSON  = "json"

	EnvManifest = "COVERAGE_MANIFEST"
	EnvTestsDir = "COVERAGE_TESTS_DIR"
	EnvDebug    = "COVERAGE_DEBUG"

	DefaultPytestBinary  = "pytest"
	DefaultReportTimeout = 30 * time.Minute
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the resolved command line of a coverage run.
type Config struct {
	ManifestPath  string
	TestsDir      string
	Debug         bool
	Collector     string
	PytestBinary  string
	Excludes      []string
	RulesPath     string
	Output        string
	ReportTimeout time.Duration

	Rules coverage.Rules
}

// Load fills unset fields of base from the environment, applies defaults, loads the
// rules file and validates the result. Manifest path problems wrap
// coverage.ErrInvalidInput and tests dir problems wrap coverage.ErrInvalidTestLocation.
func Load(base Config) (*Config, error) {
	cfg := base
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = os.Getenv(EnvManifest)
	}
	if cfg.TestsDir == "" {
		cfg.TestsDir = os.Getenv(EnvTestsDir)
	}
	if !cfg.Debug {
		cfg.Debug = getEnvBool(EnvDebug, false)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules, err := LoadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	cfg.Rules = rules

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Collector == "" {
		c.Collector = CollectorStatic
	}
	if c.PytestBinary == "" {
		c.PytestBinary = DefaultPytestBinary
	}
	if c.Output == "" {
		c.Output = OutputTable
	}
	if c.ReportTimeout <= 0 {
		c.ReportTimeout = DefaultReportTimeout
	}
}

// Validate checks inputs and maps them to the diagnostic error kinds.
func (c *Config) Validate() error {
	if c.ManifestPath == "" {
		return fmt.Errorf("%w: manifest file is required", coverage.ErrInvalidInput)
	}
	if !strings.EqualFold(filepath.Ext(c.ManifestPath), ".json") {
		return fmt.Errorf("%w: manifest %q is not a .json file", coverage.ErrInvalidInput, c.ManifestPath)
	}

	if c.TestsDir == "" {
		return fmt.Errorf("%w: tests dir is required", coverage.ErrInvalidTestLocation)
	}
	info, err := os.Stat(c.TestsDir)
	if err != nil {
		return fmt.Errorf("%w: %w", coverage.ErrInvalidTestLocation, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q is not a directory", coverage.ErrInvalidTestLocation, c.TestsDir)
	}

	if !slices.Contains([]string{CollectorStatic, CollectorPytest}, c.Collector) {
		return fmt.Errorf("%w: unknown collector %q", ErrInvalidConfig, c.Collector)
	}
	if !slices.Contains([]string{OutputTable, OutputJSON}, c.Output) {
		return fmt.Errorf("%w: unknown output %q", ErrInvalidConfig, c.Output)
	}
	return nil
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}
