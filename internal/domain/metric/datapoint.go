// Package metric defines the datapoints emitted by monitors.
package metric

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// MetricType is the kind of a datapoint value.
type MetricType int

const (
	Gauge MetricType = iota
	Counter
	CumulativeCounter
)

func (t MetricType) String() string {
	switch t {
	case Gauge:
		return "GAUGE"
	case Counter:
		return "COUNTER"
	case CumulativeCounter:
		return "CUMULATIVE_COUNTER"
	default:
		return fmt.Sprintf("MetricType(%d)", int(t))
	}
}

// Datapoint is one observation of a metric time series.
type Datapoint struct {
	Metric     string
	Dimensions map[string]string
	Value      float64
	Type       MetricType
	Timestamp  time.Time
	// NotHostSpecific marks datapoints that must not get host dimensions attached.
	NotHostSpecific bool
}

// String renders "name = value {key: value, ...}" with dimensions sorted by key.
func (dp *Datapoint) String() string {
	dims := make([]string, 0, len(dp.Dimensions))
	for _, k := range slices.Sorted(maps.Keys(dp.Dimensions)) {
		dims = append(dims, k+": "+dp.Dimensions[k])
	}
	return fmt.Sprintf("%s = %s {%s}", dp.Metric, strconv.FormatFloat(dp.Value, 'f', -1, 64), strings.Join(dims, ", "))
}

// SameSeries reports whether dp belongs to the series identified by name and exactly dims.
func (dp *Datapoint) SameSeries(name string, dims map[string]string) bool {
	return dp.Metric == name && maps.Equal(dp.Dimensions, dims)
}

// PrintLines writes msg line by line.
func PrintLines(w io.Writer, msg string) error {
	for _, l := range strings.Split(strings.TrimRight(msg, "\n"), "\n") {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// PrintDatapoints writes one line per datapoint.
func PrintDatapoints(w io.Writer, dps ...*Datapoint) error {
	for _, dp := range dps {
		if _, err := fmt.Fprintln(w, dp.String()); err != nil {
			return err
		}
	}
	return nil
}
