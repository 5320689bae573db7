package firehose

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/specvital/agent-coverage/internal/domain/metric"
)

const (
	DefaultShardID = "signalfx-nozzle"

	dialTimeout    = 10 * time.Second
	maxEventSize   = 4 << 20
	eventHeartbeat = "heartbeat"
	eventClosing   = "closing"
)

var (
	ErrEmptyShardID = errors.New("shardId cannot be empty")
	ErrStreamClosed = errors.New("log streamer shut down")
)

// Sender receives converted datapoints. It should return quickly.
type Sender func(dps ...*metric.Datapoint)

// GatewayClient streams counter and gauge envelopes from a reverse log proxy gateway.
type GatewayClient struct {
	ShardID string

	baseURL   string
	token     string
	client    *http.Client
	reconnect *rate.Limiter
}

// GatewayOption is a functional option for configuring GatewayClient.
type GatewayOption func(*GatewayClient)

// WithHTTPClient replaces the default HTTP client. Nil is ignored.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(c *GatewayClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithReconnect sets the reconnect pacing.
func WithReconnect(cfg ReconnectConfig) GatewayOption {
	return func(c *GatewayClient) {
		c.reconnect = cfg.limiter()
	}
}

// NewGatewayClient creates a client that sends token as the Authorization header.
func NewGatewayClient(gatewayURL, token string, skipVerify bool, opts ...GatewayOption) *GatewayClient {
	c := &GatewayClient{
		ShardID:   DefaultShardID,
		baseURL:   gatewayURL,
		token:     token,
		client:    newHTTPClient(skipVerify),
		reconnect: DefaultReconnectConfig().limiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newHTTPClient(skipVerify bool) *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: skipVerify},
			DialContext: (&net.Dialer{
				Timeout: dialTimeout,
			}).DialContext,
		},
	}
}

// Run streams until ctx is done or the gateway fails in a way a reconnect cannot fix.
func (c *GatewayClient) Run(ctx context.Context, sender Sender) error {
	if strings.TrimSpace(c.ShardID) == "" {
		return ErrEmptyShardID
	}

	for {
		if err := c.reconnect.Wait(ctx); err != nil {
			return ctx.Err()
		}

		err := c.stream(ctx, sender)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !IsReconnectable(err) {
			return fmt.Errorf("rlp gateway stream: %w", err)
		}
		slog.WarnContext(ctx, "rlp gateway stream ended, reconnecting",
			"gateway", redactURL(c.baseURL),
			"error", err,
		)
	}
}

func (c *GatewayClient) stream(ctx context.Context, sender Sender) error {
	endpoint, err := url.JoinPath(c.baseURL, "v2", "read")
	if err != nil {
		return fmt.Errorf("gateway url: %w", err)
	}
	query := url.Values{
		"shard_id": {c.ShardID},
		"counter":  {""},
		"gauge":    {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return fmt.Errorf("%w: %w", ErrUnauthorized, statusErr)
		}
		return statusErr
	}

	slog.DebugContext(ctx, "rlp gateway stream opened", "gateway", redactURL(c.baseURL), "shard_id", c.ShardID)

	return readEvents(resp.Body, func(event, data string) error {
		switch event {
		case eventHeartbeat:
			return nil
		case eventClosing:
			return ErrStreamClosed
		}
		if dps := decodeBatch(ctx, data); len(dps) > 0 {
			sender(dps...)
		}
		return nil
	})
}

// readEvents parses a server-sent event stream and calls handle once per event.
// A clean end of stream is reported as ErrStreamClosed.
func readEvents(r io.Reader, handle func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)

	var (
		event string
		data  []string
	)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(data) > 0 || event != "" {
				if err := handle(event, strings.Join(data, "\n")); err != nil {
					return err
				}
			}
			event, data = "", data[:0]
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return ErrStreamClosed
}

// decodeBatch converts one event payload. Bad envelopes are logged and skipped.
func decodeBatch(ctx context.Context, data string) []*metric.Datapoint {
	var batch EgressBatch
	if err := json.Unmarshal([]byte(data), &batch); err != nil {
		slog.WarnContext(ctx, "failed to decode envelope batch", "error", err)
		return nil
	}

	var dps []*metric.Datapoint
	for i := range batch.Batch {
		envDPs, err := EnvelopeToDatapoints(&batch.Batch[i])
		if err != nil {
			slog.WarnContext(ctx, "failed to convert envelope to datapoint", "error", err)
			continue
		}
		dps = append(dps, envDPs...)
	}

	for _, dp := range dps {
		dp.NotHostSpecific = true
	}
	return dps
}
