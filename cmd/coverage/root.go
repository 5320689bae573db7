package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/specvital/agent-coverage/internal/app/bootstrap"
	"github.com/specvital/agent-coverage/internal/infra/config"
	"github.com/specvital/agent-coverage/internal/infra/logging"
)

func newRootCmd(stdout io.Writer) *cobra.Command {
	var flags config.Config

	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report which agent features have integration tests",
		Long: `coverage compares the monitor and observer types an agent declares in its
self-describe JSON with the test modules found under a tests directory, and
prints coverage percentages, untested types and miscellaneous test modules.

Test discovery defaults to a static scan that needs no Python environment.
The static scan records one label per test function and does not expand
pytest parametrize cases; use --collector pytest to get one label per
parameter set in the --debug inventory dump. Coverage tables are the same
with either collector.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags)
			if err != nil {
				return err
			}
			logging.Setup(logging.Options{Debug: cfg.Debug})
			return bootstrap.RunCoverage(cmd.Context(), cfg, stdout)
		},
	}
	cmd.SetOut(stdout)

	f := cmd.Flags()
	f.StringVarP(&flags.ManifestPath, "file", "f", "", "agent self-describe JSON file (env "+config.EnvManifest+")")
	f.StringVarP(&flags.TestsDir, "tests-dir", "t", "", "tests directory (env "+config.EnvTestsDir+")")
	f.BoolVarP(&flags.Debug, "debug", "d", false, "debug logging with types and inventory dumps (env "+config.EnvDebug+")")
	f.StringVar(&flags.Collector, "collector", config.CollectorStatic, "test discovery: static (no parametrize expansion) or pytest (expands parametrize, needs pytest)")
	f.StringVar(&flags.PytestBinary, "pytest", config.DefaultPytestBinary, "pytest binary for --collector pytest")
	f.StringArrayVar(&flags.Excludes, "exclude", nil, "glob over test file locations to skip, e.g. **/helpers/** (repeatable)")
	f.StringVar(&flags.RulesPath, "rules", "", "YAML file overriding naming and matching rules")
	f.StringVar(&flags.Output, "output", config.OutputTable, "report format: table or json")
	f.DurationVar(&flags.ReportTimeout, "timeout", config.DefaultReportTimeout, "upper bound for a whole run")

	cmd.AddCommand(newNozzleCmd(stdout))
	return cmd
}
