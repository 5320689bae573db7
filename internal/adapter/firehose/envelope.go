package firehose

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/specvital/agent-coverage/internal/domain/metric"
)

var ErrUnsupportedEnvelope = errors.New("unsupported envelope type")

// EgressBatch is the JSON payload of one gateway event.
type EgressBatch struct {
	Batch []Envelope `json:"batch"`
}

// Envelope is the loggregator v2 JSON envelope. Integer fields arrive as strings.
type Envelope struct {
	Timestamp      json.Number                `json:"timestamp"`
	SourceID       string                     `json:"source_id"`
	InstanceID     string                     `json:"instance_id"`
	DeprecatedTags map[string]json.RawMessage `json:"deprecated_tags"`
	Tags           map[string]string          `json:"tags"`
	Gauge          *Gauge                     `json:"gauge,omitempty"`
	Counter        *Counter                   `json:"counter,omitempty"`
}

type Gauge struct {
	Metrics map[string]GaugeValue `json:"metrics"`
}

type GaugeValue struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

type Counter struct {
	Name  string      `json:"name"`
	Delta json.Number `json:"delta"`
	Total json.Number `json:"total"`
}

// EnvelopeToDatapoints converts a gauge envelope to one GAUGE datapoint per metric
// and a counter envelope to a single CUMULATIVE_COUNTER datapoint of its total.
func EnvelopeToDatapoints(env *Envelope) ([]*metric.Datapoint, error) {
	ts, err := envelopeTime(env.Timestamp)
	if err != nil {
		return nil, err
	}
	dims := envelopeDimensions(env)

	switch {
	case env.Gauge != nil:
		names := slices.Sorted(maps.Keys(env.Gauge.Metrics))
		dps := make([]*metric.Datapoint, 0, len(names))
		for _, name := range names {
			dps = append(dps, &metric.Datapoint{
				Metric:     name,
				Dimensions: maps.Clone(dims),
				Value:      env.Gauge.Metrics[name].Value,
				Type:       metric.Gauge,
				Timestamp:  ts,
			})
		}
		return dps, nil

	case env.Counter != nil:
		if env.Counter.Name == "" {
			return nil, fmt.Errorf("counter envelope from %q has no name", env.SourceID)
		}
		total, err := counterValue(env.Counter.Total)
		if err != nil {
			return nil, fmt.Errorf("counter %q total: %w", env.Counter.Name, err)
		}
		return []*metric.Datapoint{{
			Metric:     env.Counter.Name,
			Dimensions: dims,
			Value:      total,
			Type:       metric.CumulativeCounter,
			Timestamp:  ts,
		}}, nil
	}

	return nil, fmt.Errorf("%w from source %q", ErrUnsupportedEnvelope, env.SourceID)
}

// envelopeDimensions merges deprecated tags, then tags, then the source and
// instance ids. Later entries win.
func envelopeDimensions(env *Envelope) map[string]string {
	dims := make(map[string]string, len(env.DeprecatedTags)+len(env.Tags)+2)
	for k, raw := range env.DeprecatedTags {
		if v, ok := deprecatedTagValue(raw); ok {
			dims[k] = v
		}
	}
	maps.Copy(dims, env.Tags)
	dims["source_id"] = env.SourceID
	if env.InstanceID != "" {
		dims["instance_id"] = env.InstanceID
	}
	return dims
}

// deprecatedTagValue reads a {"text"|"integer"|"decimal": v} value.
func deprecatedTagValue(raw json.RawMessage) (string, bool) {
	for _, field := range []string{"text", "integer", "decimal"} {
		if v := gjson.GetBytes(raw, field); v.Exists() {
			return v.String(), true
		}
	}
	return "", false
}

func envelopeTime(n json.Number) (time.Time, error) {
	if n == "" {
		return time.Now(), nil
	}
	nanos, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("envelope timestamp %q: %w", n, err)
	}
	return time.Unix(0, nanos), nil
}

func counterValue(n json.Number) (float64, error) {
	if n == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(n.String(), 10, 64)
	if err != nil {
		return 0, err
	}
	return float64(v), nil
}
