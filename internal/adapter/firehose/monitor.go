// Package firehose reads Cloud Foundry platform metrics from a reverse log proxy
// gateway and converts them to datapoints.
package firehose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// Config configures the firehose nozzle monitor.
type Config struct {
	UAAURL        string
	RLPGatewayURL string
	UAAUser       string
	UAAPassword   string
	ShardID       string
	SkipVerify    bool
	Reconnect     ReconnectConfig
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.UAAURL == "" {
		return errors.New("uaaUrl is required")
	}
	if c.RLPGatewayURL == "" {
		return errors.New("rlpGatewayUrl is required")
	}
	if c.UAAUser == "" {
		return errors.New("uaaUser is required")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.ShardID) == "" {
		c.ShardID = DefaultShardID
	}
	if c.Reconnect == (ReconnectConfig{}) {
		c.Reconnect = DefaultReconnectConfig()
	}
}

// Monitor authenticates against UAA and streams gateway envelopes to a sender.
type Monitor struct {
	cfg    Config
	sender Sender
}

// NewMonitor validates cfg and creates a Monitor that delivers to sender.
func NewMonitor(cfg Config, sender Sender) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid firehose config: %w", err)
	}
	if sender == nil {
		return nil, errors.New("sender is required")
	}
	cfg.applyDefaults()
	return &Monitor{cfg: cfg, sender: sender}, nil
}

// Run blocks until ctx is cancelled or the stream fails permanently.
func (m *Monitor) Run(ctx context.Context) error {
	client := newHTTPClient(m.cfg.SkipVerify)

	slog.InfoContext(ctx, "fetching uaa token", "uaa_url", redactURL(m.cfg.UAAURL))
	token, err := FetchUAAToken(ctx, client, m.cfg.UAAURL, m.cfg.UAAUser, m.cfg.UAAPassword)
	if err != nil {
		return fmt.Errorf("uaa token: %w", err)
	}

	gateway := NewGatewayClient(m.cfg.RLPGatewayURL, token, m.cfg.SkipVerify,
		WithHTTPClient(client),
		WithReconnect(m.cfg.Reconnect),
	)
	gateway.ShardID = m.cfg.ShardID

	slog.InfoContext(ctx, "streaming from rlp gateway",
		"gateway", redactURL(m.cfg.RLPGatewayURL),
		"shard_id", m.cfg.ShardID,
	)
	return gateway.Run(ctx, m.sender)
}

// redactURL reduces rawURL to scheme, user name, host and path for logging.
// Passwords, query strings and fragments are dropped, since gateway and UAA
// URLs may carry credentials in any of them.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "[invalid-url]"
	}

	redacted := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	if u.User != nil && u.User.Username() != "" {
		redacted.User = url.User(u.User.Username())
	}
	return redacted.String()
}
