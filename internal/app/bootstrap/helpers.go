package bootstrap

import (
	"io"
	"log/slog"
	"sync"

	"github.com/specvital/agent-coverage/internal/adapter/firehose"
	"github.com/specvital/agent-coverage/internal/domain/metric"
	"github.com/specvital/agent-coverage/internal/infra/buildinfo"
)

// logParserVersion records which specvital/core build parsed the tests.
func logParserVersion() string {
	version := buildinfo.ExtractCoreVersion()
	slog.Info("parser version", "version", buildinfo.FormatVersionDisplay(version), "raw", version)
	return version
}

// newPrintingSender writes datapoints to w, one line each. Calls are serialized.
func newPrintingSender(w io.Writer) firehose.Sender {
	var mu sync.Mutex
	return func(dps ...*metric.Datapoint) {
		mu.Lock()
		defer mu.Unlock()
		if err := metric.PrintDatapoints(w, dps...); err != nil {
			slog.Error("failed to print datapoints", "error", err, "count", len(dps))
		}
	}
}
