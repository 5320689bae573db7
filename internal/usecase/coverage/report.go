package coverage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/specvital/agent-coverage/internal/domain/coverage"
)

const DefaultReportTimeout = 30 * time.Minute

// ReportUseCase builds a coverage report from a manifest file and a tests directory.
type ReportUseCase struct {
	discoverer coverage.Discoverer
	manifest   coverage.ManifestReader
	normalizer *Normalizer
	rules      coverage.Rules
	timeout    time.Duration
}

// Config holds configuration for ReportUseCase.
type Config struct {
	ReportTimeout time.Duration
	Rules         coverage.Rules
}

// Option is a functional option for configuring ReportUseCase.
type Option func(*Config)

// WithReportTimeout bounds a whole report run.
// Zero or negative values are ignored and the default timeout is used.
func WithReportTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		if d > 0 {
			cfg.ReportTimeout = d
		}
	}
}

// WithRules replaces the default naming and matching rules.
func WithRules(r coverage.Rules) Option {
	return func(cfg *Config) {
		cfg.Rules = r
	}
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	manifest coverage.ManifestReader,
	discoverer coverage.Discoverer,
	opts ...Option,
) *ReportUseCase {
	cfg := Config{
		ReportTimeout: DefaultReportTimeout,
		Rules:         coverage.DefaultRules(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &ReportUseCase{
		discoverer: discoverer,
		manifest:   manifest,
		normalizer: NewNormalizer(cfg.Rules.Substitutions),
		rules:      cfg.Rules,
		timeout:    cfg.ReportTimeout,
	}
}

// Request names the inputs of one report run.
type Request struct {
	ManifestPath string
	TestsDir     string
}

// Result carries every stage's output so callers can inspect intermediate data.
type Result struct {
	Manifest  *coverage.FeatureManifest
	Inventory *coverage.TestInventory
	Report    *coverage.Report
}

// Execute runs the report workflow:
// 1. Loads and validates the manifest
// 2. Discovers tests under the tests directory
// 3. Groups discovered cases into an inventory
// 4. Matches declared types against the inventory
// Steps run in order and the first failure ends the run, so discovery never
// starts for an invalid manifest.
func (uc *ReportUseCase) Execute(ctx context.Context, req Request) (*Result, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	slog.InfoContext(timeoutCtx, "processing self describe data", "file", req.ManifestPath)
	manifest, err := uc.manifest.Read(timeoutCtx, req.ManifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestFailed, err)
	}

	slog.InfoContext(timeoutCtx, "collecting and processing tests data", "dir", req.TestsDir)
	cases, err := uc.discoverer.Discover(timeoutCtx, req.TestsDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscoveryFailed, err)
	}

	slog.DebugContext(ctx, "feature types", "types", manifest)

	inventory, err := Collect(cases, uc.rules)
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "tests", "inventory", inventory, "cases", len(cases))

	report := Match(manifest, inventory, uc.rules, uc.normalizer)

	return &Result{
		Manifest:  manifest,
		Inventory: inventory,
		Report:    report,
	}, nil
}
