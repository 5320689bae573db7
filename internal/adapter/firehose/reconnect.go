package firehose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// ReconnectConfig paces gateway reconnects.
type ReconnectConfig struct {
	Interval time.Duration
	Burst    int
}

// DefaultReconnectConfig returns one attempt every five seconds.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		Interval: 5 * time.Second,
		Burst:    1,
	}
}

func (c ReconnectConfig) limiter() *rate.Limiter {
	if c.Interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := c.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(c.Interval), burst)
}

// StatusError is a non-success HTTP response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsReconnectable reports whether a stream failure should be followed by a new connection.
func IsReconnectable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, ErrUnauthorized) {
		return false
	}

	if errors.Is(err, ErrStreamClosed) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return IsRetryableStatusCode(statusErr.StatusCode)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsRetryableStatusCode checks if an HTTP status code indicates a transient failure.
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusBadGateway,
		http.StatusInternalServerError:
		return true
	default:
		return false
	}
}
