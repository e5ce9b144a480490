package options

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*StreamOptions)(nil)

// StreamOptions configures the per-endpoint streaming listeners.
type StreamOptions struct {
	// UsePlaintext selects ws://ServerIP:WsOutputPort instead of wss://WssDomainName:WssOutputPort.
	UsePlaintext bool `json:"use-plaintext" mapstructure:"use-plaintext"`
	VerifyTLS    bool `json:"verify-tls" mapstructure:"verify-tls"`

	HeartbeatInterval time.Duration `json:"heartbeat-interval" mapstructure:"heartbeat-interval"`
	ReconnectDelay    time.Duration `json:"reconnect-delay" mapstructure:"reconnect-delay"`
	HandshakeTimeout  time.Duration `json:"handshake-timeout" mapstructure:"handshake-timeout"`

	// AllowedAlarms lists the alarm-type ids that are enriched and dispatched.
	AllowedAlarms []string `json:"allowed-alarms" mapstructure:"allowed-alarms"`
}

func NewStreamOptions() *StreamOptions {
	return &StreamOptions{
		VerifyTLS:         true,
		HeartbeatInterval: 20 * time.Second,
		ReconnectDelay:    5 * time.Second,
		HandshakeTimeout:  15 * time.Second,
		AllowedAlarms:     []string{"17", "3", "8"},
	}
}

func (o *StreamOptions) Validate() []error {
	var errs []error

	if o.HeartbeatInterval <= 0 {
		errs = append(errs, errors.New("stream.heartbeat-interval must be positive"))
	}
	if o.ReconnectDelay <= 0 {
		errs = append(errs, errors.New("stream.reconnect-delay must be positive"))
	}
	if len(o.CleanAllowedAlarms()) == 0 {
		errs = append(errs, errors.New("stream.allowed-alarms must name at least one alarm type"))
	}

	return errs
}

// CleanAllowedAlarms returns the allow-list with comma-joined entries split,
// ids trimmed and blanks removed. "17,3,8" and ["17", "3", "8"] give the same list.
func (o *StreamOptions) CleanAllowedAlarms() []string {
	return SplitAlarmIDs(o.AllowedAlarms)
}

// SplitAlarmIDs flattens comma-separated alarm-type ids.
func SplitAlarmIDs(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
	}
	return out
}

func (o *StreamOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.BoolVar(&o.UsePlaintext, "stream.use-plaintext", o.UsePlaintext, "Connect with ws://ServerIP:WsOutputPort instead of wss://WssDomainName:WssOutputPort.")
	fs.BoolVar(&o.VerifyTLS, "stream.verify-tls", o.VerifyTLS, "Verify the stream endpoint's TLS certificate.")
	fs.DurationVar(&o.HeartbeatInterval, "stream.heartbeat-interval", o.HeartbeatInterval, "Interval between keepalive frames.")
	fs.DurationVar(&o.ReconnectDelay, "stream.reconnect-delay", o.ReconnectDelay, "Fixed delay before reconnecting a dropped stream.")
	fs.DurationVar(&o.HandshakeTimeout, "stream.handshake-timeout", o.HandshakeTimeout, "Timeout of the WebSocket opening handshake.")
	fs.StringSliceVar(&o.AllowedAlarms, "stream.allowed-alarms", o.AllowedAlarms, "Alarm-type ids forwarded downstream. Reloaded live from the config file.")
}
