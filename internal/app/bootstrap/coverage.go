// Package bootstrap provides application startup for the coverage report and the nozzle monitor.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/specvital/agent-coverage/internal/app"
	"github.com/specvital/agent-coverage/internal/infra/config"
	uc "github.com/specvital/agent-coverage/internal/usecase/coverage"
)

// RunCoverage builds the report described by cfg and writes it to stdout.
// Table output is followed by the elapsed time line.
func RunCoverage(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	start := time.Now()

	slog.Info("starting coverage report",
		"manifest", cfg.ManifestPath,
		"tests_dir", cfg.TestsDir,
		"collector", cfg.Collector,
		"output", cfg.Output,
	)
	if cfg.Collector == config.CollectorStatic {
		logParserVersion()
	}

	container, err := app.NewCoverageContainer(app.ContainerConfig{
		Collector:     cfg.Collector,
		Excludes:      cfg.Excludes,
		Output:        cfg.Output,
		PytestBinary:  cfg.PytestBinary,
		ReportTimeout: cfg.ReportTimeout,
		Rules:         cfg.Rules,
	})
	if err != nil {
		return fmt.Errorf("container: %w", err)
	}

	result, err := container.ReportUseCase.Execute(ctx, uc.Request{
		ManifestPath: cfg.ManifestPath,
		TestsDir:     cfg.TestsDir,
	})
	if err != nil {
		return err
	}

	if err := container.Renderer.Render(stdout, result.Report); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	elapsed := time.Since(start)
	if cfg.Output == config.OutputTable {
		if _, err := fmt.Fprintf(stdout, "Total time taken: %f minutes\n", elapsed.Minutes()); err != nil {
			return fmt.Errorf("write elapsed time: %w", err)
		}
	}
	slog.Info("coverage report complete", "duration", elapsed)
	return nil
}
