package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/specvital/agent-coverage/internal/adapter/firehose"
)

// StartNozzle streams firehose datapoints to stdout until SIGINT or SIGTERM.
func StartNozzle(ctx context.Context, cfg firehose.Config, stdout io.Writer) error {
	monitor, err := firehose.NewMonitor(cfg, newPrintingSender(stdout))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	slog.Info("nozzle starting")
	err = monitor.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("nozzle shutdown complete")
		return nil
	}
	if err != nil {
		return fmt.Errorf("nozzle: %w", err)
	}
	return nil
}
