package bootstrap

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/agent-coverage/internal/domain/metric"
)

func TestNewPrintingSender(t *testing.T) {
	t.Run("should print one line per datapoint", func(t *testing.T) {
		var buf bytes.Buffer
		send := newPrintingSender(&buf)

		send(
			&metric.Datapoint{Metric: "dropped", Value: 149000, Dimensions: map[string]string{"source_id": "doppler"}},
			&metric.Datapoint{Metric: "egress", Value: 7},
		)

		assert.Equal(t, "dropped = 149000 {source_id: doppler}\negress = 7 {}\n", buf.String())
	})

	t.Run("should serialize concurrent senders", func(t *testing.T) {
		var buf bytes.Buffer
		send := newPrintingSender(&buf)

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				send(&metric.Datapoint{Metric: "m", Value: 1})
			}()
		}
		wg.Wait()

		assert.Equal(t, 20, bytes.Count(buf.Bytes(), []byte("m = 1 {}\n")))
	})
}

func TestLogParserVersion(t *testing.T) {
	assert.NotEmpty(t, logParserVersion())
}
