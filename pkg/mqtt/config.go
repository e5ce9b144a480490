package mqtt

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	defaultKeepAlive      = 60
	defaultConnectTimeout = 5 * time.Second
)

// schemes accepted by autopaho.
var schemes = map[string]bool{
	"tcp": true, "mqtt": true, "ssl": true, "tls": true, "mqtts": true, "ws": true, "wss": true,
}

// ClientConfig holds the connection settings of the alarm mirror client.
type ClientConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string

	// KeepAlive in seconds.
	KeepAlive      uint16
	ConnectTimeout time.Duration

	// CleanStart is normally true: a publish-only mirror has no
	// subscriptions to resume.
	CleanStart         bool
	InsecureSkipVerify bool

	// StatusTopic, when set, gets a retained "online" on connect and a
	// retained "offline" will.
	StatusTopic string
}

func setDefaultConfig(cfg *ClientConfig) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = defaultKeepAlive
	}
}

// Validate checks the broker URL and client identity.
func (c *ClientConfig) Validate() error {
	if c.BrokerURL == "" {
		return errors.New("broker url is required")
	}
	u, err := url.Parse(c.BrokerURL)
	if err != nil {
		return fmt.Errorf("invalid broker url: %w", err)
	}
	if u.Host == "" {
		return errors.New("broker url must look like scheme://host:port")
	}
	if !schemes[u.Scheme] {
		return fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}
	if c.ClientID == "" {
		return errors.New("client id is required")
	}
	if c.Password != "" && c.Username == "" {
		return errors.New("password set without username")
	}
	return nil
}
