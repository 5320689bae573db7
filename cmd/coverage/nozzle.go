package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/specvital/agent-coverage/internal/adapter/firehose"
	"github.com/specvital/agent-coverage/internal/app/bootstrap"
	"github.com/specvital/agent-coverage/internal/infra/logging"
)

func newNozzleCmd(stdout io.Writer) *cobra.Command {
	var (
		cfg   firehose.Config
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "nozzle",
		Short: "Stream Cloud Foundry firehose metrics as datapoints",
		Long: `nozzle authenticates against UAA, reads counter and gauge envelopes from a
reverse log proxy gateway and prints one datapoint per line until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.Setup(logging.Options{Debug: debug})
			return bootstrap.StartNozzle(cmd.Context(), cfg, stdout)
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.UAAURL, "uaa-url", "", "UAA base URL")
	f.StringVar(&cfg.RLPGatewayURL, "gateway-url", "", "reverse log proxy gateway base URL")
	f.StringVar(&cfg.UAAUser, "uaa-user", "", "UAA client id")
	f.StringVar(&cfg.UAAPassword, "uaa-password", "", "UAA client secret")
	f.StringVar(&cfg.ShardID, "shard-id", firehose.DefaultShardID, "gateway shard id")
	f.BoolVar(&cfg.SkipVerify, "skip-verify", false, "skip TLS certificate verification")
	f.DurationVar(&cfg.Reconnect.Interval, "reconnect-interval", firehose.DefaultReconnectConfig().Interval, "minimum time between gateway reconnects")
	f.BoolVarP(&debug, "debug", "d", false, "debug logging")
	_ = cmd.MarkFlagRequired("uaa-url")
	_ = cmd.MarkFlagRequired("gateway-url")
	_ = cmd.MarkFlagRequired("uaa-user")

	return cmd
}
