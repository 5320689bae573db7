package firehose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsReconnectable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("read: %w", context.DeadlineExceeded), false},
		{"unauthorized", fmt.Errorf("%w: %w", ErrUnauthorized, &StatusError{StatusCode: http.StatusUnauthorized}), false},
		{"stream closed", ErrStreamClosed, true},
		{"unexpected eof", fmt.Errorf("read stream: %w", io.ErrUnexpectedEOF), true},
		{"bad gateway", &StatusError{StatusCode: http.StatusBadGateway}, true},
		{"not found", &StatusError{StatusCode: http.StatusNotFound}, false},
		{"network", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, true},
		{"other", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsReconnectable(tt.err))
		})
	}
}

func TestIsRetryableStatusCode(t *testing.T) {
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, IsRetryableStatusCode(code), "status %d", code)
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		assert.False(t, IsRetryableStatusCode(code), "status %d", code)
	}
}

func TestReconnectConfig_Limiter(t *testing.T) {
	t.Run("should allow the first connection immediately", func(t *testing.T) {
		l := DefaultReconnectConfig().limiter()

		assert.True(t, l.Allow())
		assert.False(t, l.Allow(), "second connection within the interval")
	})

	t.Run("should not limit with zero interval", func(t *testing.T) {
		l := ReconnectConfig{}.limiter()

		for range 10 {
			assert.True(t, l.Allow())
		}
	})

	t.Run("should clamp burst to one", func(t *testing.T) {
		l := ReconnectConfig{Interval: time.Hour, Burst: -1}.limiter()

		assert.Equal(t, 1, l.Burst())
	})
}

func TestStatusError_Error(t *testing.T) {
	assert.Equal(t, "unexpected status 503", (&StatusError{StatusCode: 503}).Error())
	assert.Equal(t, "unexpected status 401: nope", (&StatusError{StatusCode: 401, Body: "nope"}).Error())
}
